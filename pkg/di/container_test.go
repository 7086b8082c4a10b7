package di

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ssargent/keydeck/pkg/codec"
	"github.com/ssargent/keydeck/pkg/config"
	"github.com/ssargent/keydeck/pkg/storage"
)

func TestNewContainer_Defaults(t *testing.T) {
	c := NewContainer(nil, nil)
	assert.Equal(t, config.DefaultConfig(), c.Config())
	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.Registry())
	assert.NotNil(t, c.Metrics())
}

func TestContainer_ReaderUsesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Reader.Format = "large"
	c := NewContainer(cfg, zaptest.NewLogger(t))

	r, err := c.NewReader()
	require.NoError(t, err)
	m, err := r.ReadString("*NODE\n" + fmt.Sprintf("%10d%20s%20s%20s\n", 1, "1.0", "2.0", "3.0"))
	require.NoError(t, err)
	assert.Equal(t, codec.Large, m.Format)
	nd, ok := m.FindNode(1)
	require.True(t, ok)
	assert.Equal(t, [3]float64{1, 2, 3}, nd.Position())

	families, err := c.Metrics().Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families, "reads are recorded")

	cfg.Reader.Format = "bogus"
	_, err = c.NewReader()
	assert.Error(t, err)
}

func TestContainer_Writer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Writer.LineEnding = "crlf"
	cfg.Writer.EmitKeyword = false
	c := NewContainer(cfg, nil)

	wcfg, err := c.WriterConfig()
	require.NoError(t, err)
	assert.Equal(t, "\r\n", wcfg.LineEnding)
	assert.False(t, wcfg.EmitKeyword)

	w, err := c.NewWriter()
	require.NoError(t, err)
	r, err := c.NewReader()
	require.NoError(t, err)
	m, err := r.ReadString("*NODE\n 1 0 0 0\n")
	require.NoError(t, err)
	out, err := w.WriteString(m)
	require.NoError(t, err)
	assert.Contains(t, out, "*NODE\r\n")

	var sb strings.Builder
	require.NoError(t, c.Metrics().WriteText(&sb))
	assert.Contains(t, sb.String(), "keydeck_writes_total 1")
}

func TestContainer_ArchiveOpener(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Archive.Dir = filepath.Join(t.TempDir(), "archive")
	c := NewContainer(cfg, nil)

	a, err := c.OpenArchive()
	require.NoError(t, err)
	require.NoError(t, a.Close())

	var opened string
	c.SetArchiveOpener(func(dir string) (*storage.Archive, error) {
		opened = dir
		return storage.Open(dir, storage.Options{Sync: true})
	})
	a, err = c.OpenArchive()
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.Equal(t, cfg.Archive.Dir, opened)
}
