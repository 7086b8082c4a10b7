package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ssargent/keydeck/pkg/config"
	"github.com/ssargent/keydeck/pkg/di"
	"github.com/ssargent/keydeck/pkg/storage"
)

const bracketDeck = `*KEYWORD
*TITLE
bracket
*NODE
1 0.0 0.0 0.0
2 1.0 0.0 0.0
3 1.0 1.0 0.0
4 0.0 1.0 0.0
*ELEMENT_SHELL
1 1 1 2 3 4
*PART
bracket plate
1 1 1
*DEFINE_ELEMENT_DEATH_SHELL
1 0.5
*UNKNOWN_THING
abc
*END
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// run executes the command tree with a throwaway home directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := NewRootCmd(nil)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "keydeck dev\n", out)
}

func TestInfo(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bracket.k", bracketDeck)

	out, err := run(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "bracket")
	assert.Regexp(t, `Nodes:\s+4`, out)
	assert.Regexp(t, `Elements:\s+1`, out)
	assert.Regexp(t, `Parts:\s+1`, out)
	assert.Regexp(t, `NODE\s+1`, out)
	assert.Contains(t, out, "UNKNOWN_THING")
	assert.Contains(t, out, "warning")
}

func TestInfo_ErrorsFail(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cycle.k", "*INCLUDE\ncycle.k\n")

	out, err := run(t, "info", path)
	assert.ErrorIs(t, err, errDeckErrors)
	assert.Contains(t, out, "include cycle")
}

func TestGlobalFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.k", "*NODE\n1 0 0 0\n")
	cfg := config.DefaultConfig()
	cfg.Reader.Format = "large"
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, configPath))

	out, err := run(t, "info", path, "--config", configPath)
	require.NoError(t, err)
	assert.Regexp(t, `Format:\s+large`, out)

	out, err = run(t, "info", path, "--config", configPath, "--format", "standard")
	require.NoError(t, err)
	assert.Regexp(t, `Format:\s+standard`, out)

	_, err = run(t, "info", path, "--format", "wide")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestCheck_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	good := writeFile(t, dir, "good.k", bracketDeck)
	missing := writeFile(t, dir, "missing.k", "*INCLUDE\nnot-there.k\n")
	cycle := writeFile(t, dir, "cycle.k", "*INCLUDE\ncycle.k\n")

	out, err := run(t, "check", good, missing, cycle, "--metrics")
	require.Error(t, err)
	assert.ErrorIs(t, err, errDeckErrors)
	assert.Contains(t, err.Error(), "1 of 3 decks")

	lines := strings.Split(out, "\n")
	var status []string
	for _, l := range lines {
		if strings.HasPrefix(l, "ok") || strings.HasPrefix(l, "FAIL") {
			status = append(status, strings.Fields(l)[0]+" "+filepath.Base(strings.Fields(l)[1]))
		}
	}
	assert.Equal(t, []string{"ok good.k", "ok missing.k", "FAIL cycle.k"}, status)
	assert.Contains(t, out, "keydeck_reads_total 3")
	assert.Contains(t, out, `keydeck_issues_total{kind="include_cycle",severity="error"} 1`)
}

func TestCheck_AllGood(t *testing.T) {
	path := writeFile(t, t.TempDir(), "good.k", bracketDeck)
	out, err := run(t, "check", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "keydeck_reads_total")
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.k", "*NODE\n7 1.5 2.5 3.5\n")
	in := writeFile(t, dir, "top.k", "*KEYWORD\n*INCLUDE\nnodes.k\n*END\n")
	out := filepath.Join(dir, "out", "flat.k")

	stdout, err := run(t, "convert", in, out, "--to", "large", "--flatten")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 1 keywords")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "*KEYWORD LONG=Y\n*NODE\n"), text)
	assert.NotContains(t, text, "*INCLUDE")

	kept := filepath.Join(dir, "kept.k")
	_, err = run(t, "convert", in, kept)
	require.NoError(t, err)
	data, err = os.ReadFile(kept)
	require.NoError(t, err)
	assert.Contains(t, string(data), "*INCLUDE\nnodes.k\n")
}

func TestQueries(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bracket.k", bracketDeck)

	out, err := run(t, "nodes", path)
	require.NoError(t, err)
	assert.Regexp(t, `Nodes:\s+4`, out)
	assert.Contains(t, out, "(1, 1, 0)")

	out, err = run(t, "nodes", path, "--id", "3")
	require.NoError(t, err)
	assert.Regexp(t, `Elements:\s+1`, out)

	out, err = run(t, "nodes", path, "--near", "0.9,0.1,0")
	require.NoError(t, err)
	assert.Contains(t, out, "nearest node 2")

	out, err = run(t, "nodes", path, "--near", "0,0,0", "--radius", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "3 nodes within 1")

	_, err = run(t, "nodes", path, "--near", "0,0")
	assert.Error(t, err)

	out, err = run(t, "elements", path, "--id", "1", "--at", "0.25")
	require.NoError(t, err)
	assert.Regexp(t, `Type:\s+shell`, out)
	assert.Regexp(t, `Death:\s+0.5`, out)
	assert.Regexp(t, `Alive at 0.25:\s+true`, out)

	out, err = run(t, "elements", path, "--at", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 1 elements alive at 1")

	out, err = run(t, "elements", path)
	require.NoError(t, err)
	assert.Regexp(t, `shell\s+1`, out)

	out, err = run(t, "parts", path)
	require.NoError(t, err)
	assert.Contains(t, out, "bracket plate")

	out, err = run(t, "parts", path, "--id", "1")
	require.NoError(t, err)
	assert.Regexp(t, `Centroid:\s+\(0.5, 0.5, 0\)`, out)

	_, err = run(t, "parts", path, "--id", "9")
	assert.Error(t, err)
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bracket.k", bracketDeck)
	archiveDir := filepath.Join(dir, "archive")

	out, err := run(t, "archive", "put", path, "--archive-dir", archiveDir)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.Len(t, id, 27)

	out, err = run(t, "archive", "list", "--archive-dir", archiveDir)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "bracket.k")

	out, err = run(t, "archive", "get", id, "--archive-dir", archiveDir)
	require.NoError(t, err)
	assert.Equal(t, bracketDeck, out)

	restored := filepath.Join(dir, "restored", "bracket.k")
	_, err = run(t, "archive", "get", id, "--out", restored, "--archive-dir", archiveDir)
	require.NoError(t, err)
	data, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, bracketDeck, string(data))

	out, err = run(t, "archive", "put", path, "--flatten", "--name", "flat", "--archive-dir", archiveDir)
	require.NoError(t, err)
	flatID := strings.TrimSpace(out)

	out, err = run(t, "archive", "delete", id, "--archive-dir", archiveDir)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = run(t, "archive", "get", id, "--archive-dir", archiveDir)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	out, err = run(t, "archive", "list", "--archive-dir", archiveDir)
	require.NoError(t, err)
	assert.Contains(t, out, flatID)
	assert.NotContains(t, out, id)

	_, err = run(t, "archive", "get", "not-an-id", "--archive-dir", archiveDir)
	assert.Error(t, err)
}

func receiveUntil(t *testing.T, results <-chan checkResult, want func(checkResult) bool) checkResult {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case res := <-results:
			if want(res) {
				return res
			}
		case <-timeout:
			t.Fatal("no matching check result")
		}
	}
}

func TestWatch_RechecksOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	inc := writeFile(t, dir, "inc.k", "*NODE\n5 0 0 0\n")
	top := writeFile(t, dir, "top.k", "*KEYWORD\n*INCLUDE\ninc.k\n*END\n")

	a := &app{container: di.NewContainer(nil, zaptest.NewLogger(t))}
	results := make(chan checkResult, 16)
	dw := newDeckWatcher(a, top, func(res checkResult) { results <- res })
	dw.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- dw.Run(ctx) }()

	first := receiveUntil(t, results, func(checkResult) bool { return true })
	assert.False(t, first.failed)
	assert.Equal(t, 1, first.keywords)

	// the include now points back at the top file
	require.NoError(t, os.WriteFile(inc, []byte("*INCLUDE\ntop.k\n"), 0600))
	second := receiveUntil(t, results, func(res checkResult) bool { return res.failed })
	assert.NotEmpty(t, second.issues)

	cancel()
	require.NoError(t, <-done)
}
