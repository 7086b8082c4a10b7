package deck

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ssargent/keydeck/pkg/codec"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

// WriterConfig holds the options of a Writer.
type WriterConfig struct {
	// Format is the declared global format every keyword is encoded in.
	Format codec.Format
	// EmitKeyword writes the leading *KEYWORD card.
	EmitKeyword bool
	// EmitTitle writes *TITLE when the model has a title.
	EmitTitle bool
	// EmitEnd writes the trailing *END card.
	EmitEnd bool
	// LineEnding terminates every line. Defaults to "\n" when empty.
	LineEnding string
	// Progress receives the fraction of keywords written.
	Progress func(fraction float64)

	Logger   *zap.Logger
	Recorder Recorder
}

// DefaultWriterConfig returns a Standard-format configuration that emits
// every optional card.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Format:      codec.Standard,
		EmitKeyword: true,
		EmitTitle:   true,
		EmitEnd:     true,
		LineEnding:  "\n",
	}
}

// Writer renders models as deck text.
type Writer struct {
	config   WriterConfig
	logger   *zap.Logger
	recorder Recorder
	err      error
}

// NewWriter creates a writer with the given configuration.
func NewWriter(config WriterConfig) *Writer {
	if config.LineEnding == "" {
		config.LineEnding = "\n"
	}
	w := &Writer{
		config:   config,
		logger:   config.Logger,
		recorder: config.Recorder,
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.recorder == nil {
		w.recorder = nopRecorder{}
	}
	return w
}

// Err returns the error that ended the last write, if any.
func (w *Writer) Err() error {
	return w.err
}

// Write renders m to dst. Writing stops at the first failure, which is also
// kept for Err.
func (w *Writer) Write(m *model.Model, dst io.Writer) error {
	w.err = w.write(m, dst)
	return w.err
}

// WriteFile renders m to path, creating parent directories as needed.
func (w *Writer) WriteFile(m *model.Model, path string) error {
	w.err = w.writeFile(m, path)
	return w.err
}

// WriteString renders m as a string.
func (w *Writer) WriteString(m *model.Model) (string, error) {
	var buf bytes.Buffer
	if err := w.Write(m, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (w *Writer) writeFile(m *model.Model, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	// #nosec G302 G304 -- decks are shared input files
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if err := w.write(m, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	w.logger.Debug("deck file written", zap.String("path", path), zap.Int("keywords", m.Len()))
	return nil
}

func (w *Writer) write(m *model.Model, dst io.Writer) error {
	if m == nil {
		return ErrNilModel
	}
	start := time.Now()
	cw := &countingWriter{w: dst}
	bw := bufio.NewWriter(cw)
	eol := w.config.LineEnding

	line := func(s string) error {
		if _, err := bw.WriteString(s); err != nil {
			return err
		}
		_, err := bw.WriteString(eol)
		return err
	}

	if w.config.EmitKeyword {
		header := "*KEYWORD"
		if w.config.Format == codec.Large {
			header += " LONG=Y"
		}
		if err := line(header); err != nil {
			return err
		}
	}
	if w.config.EmitTitle && m.Title != "" {
		if err := line("*TITLE"); err != nil {
			return err
		}
		if err := line(m.Title); err != nil {
			return err
		}
	}

	keywords := m.Keywords()
	for i, kw := range keywords {
		header, f := w.header(kw)
		lines, err := kw.Encode(f)
		if err != nil {
			return fmt.Errorf("encode *%s: %w", kw.Name(), err)
		}
		if err := line(header); err != nil {
			return err
		}
		for _, l := range lines {
			if err := line(l); err != nil {
				return err
			}
		}
		if w.config.Progress != nil {
			w.config.Progress(float64(i+1) / float64(len(keywords)))
		}
	}

	if w.config.EmitEnd {
		if err := line("*END"); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if len(keywords) == 0 && w.config.Progress != nil {
		w.config.Progress(1)
	}
	w.recorder.WriteFinished(time.Since(start), cw.n)
	return nil
}

// header returns the header card and encoding format for kw. Raw keywords
// keep the format they were read in. A format other than the declared one is
// marked after the keyword name.
func (w *Writer) header(kw keyword.Keyword) (string, codec.Format) {
	name := kw.Name()
	f := w.config.Format
	if raw, ok := kw.(*keyword.Raw); ok {
		name = raw.Header()
		f = raw.Format
	}
	if f == w.config.Format {
		return "*" + name, f
	}
	marker := " -"
	if f == codec.Large {
		marker = " +"
	}
	head, rest, _ := strings.Cut(name, " ")
	if rest != "" {
		rest = " " + rest
	}
	return "*" + head + marker + rest, f
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
