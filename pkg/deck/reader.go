package deck

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ssargent/keydeck/pkg/codec"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/model"
)

const maxLineBytes = 1 << 20

// ReaderConfig holds the options of a Reader.
type ReaderConfig struct {
	// Registry resolves keyword names. DefaultRegistry is used when nil.
	Registry *keyword.Registry
	// FollowIncludes merges included files into the model. When false the
	// include directives are kept as keywords.
	FollowIncludes bool
	// BaseDir resolves relative include names. When empty, names resolve
	// against the including file's directory.
	BaseDir string
	// DefaultFormat applies until a *KEYWORD card declares another.
	DefaultFormat codec.Format
	// StopOnError ends the read at the first error-severity issue.
	StopOnError bool
	// Progress receives the fraction of top-level lines consumed.
	Progress func(fraction float64)
	// OnIssue is called for every issue as it is found.
	OnIssue func(Issue)

	Logger   *zap.Logger
	Recorder Recorder
}

// DefaultReaderConfig returns a configuration that follows includes and
// starts in Standard format.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		FollowIncludes: true,
		DefaultFormat:  codec.Standard,
	}
}

// Reader parses decks into models. A Reader may be reused but not shared
// between goroutines.
type Reader struct {
	config   ReaderConfig
	registry *keyword.Registry
	logger   *zap.Logger
	recorder Recorder

	issues     []Issue
	files      []string
	stack      []string
	searchDirs []string
	stopped    error
	lastFrac   float64
}

// NewReader creates a reader with the given configuration.
func NewReader(config ReaderConfig) *Reader {
	r := &Reader{
		config:   config,
		registry: config.Registry,
		logger:   config.Logger,
		recorder: config.Recorder,
	}
	if r.registry == nil {
		r.registry = keyword.DefaultRegistry()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.recorder == nil {
		r.recorder = nopRecorder{}
	}
	return r
}

// ReadFile parses the deck at path and every file it includes. The returned
// error is non-nil only when StopOnError ended the read; all other problems
// are reported through Issues.
func (r *Reader) ReadFile(path string) (*model.Model, error) {
	r.reset()
	m := r.newModel(path)
	start := time.Now()

	lines, err := readLines(path)
	if err != nil {
		r.report(Issue{Severity: SeverityError, Kind: KindIO, Path: path, Err: err})
		r.finish(start, 0)
		return m, r.stopped
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	r.parseFile(m, abs, path, lines, r.config.DefaultFormat, true)
	r.finish(start, len(lines))
	return m, r.stopped
}

// ReadString parses deck text. Relative includes resolve against BaseDir or
// the working directory.
func (r *Reader) ReadString(text string) (*model.Model, error) {
	return r.Read(strings.NewReader(text), "")
}

// Read parses a deck from src. name is used in issues and as the model path.
func (r *Reader) Read(src io.Reader, name string) (*model.Model, error) {
	r.reset()
	m := r.newModel(name)
	start := time.Now()

	lines, err := scanLines(src)
	if err != nil {
		r.report(Issue{Severity: SeverityError, Kind: KindIO, Path: name, Err: err})
		r.finish(start, 0)
		return m, r.stopped
	}
	r.parseFile(m, "", name, lines, r.config.DefaultFormat, true)
	r.finish(start, len(lines))
	return m, r.stopped
}

// Issues returns every issue of the last read in the order found.
func (r *Reader) Issues() []Issue {
	return append([]Issue(nil), r.issues...)
}

// Files returns the absolute paths of the files the last read opened, the
// top-level file first. Each path is listed once.
func (r *Reader) Files() []string {
	return append([]string(nil), r.files...)
}

// Errors returns the error-severity issues of the last read.
func (r *Reader) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues of the last read.
func (r *Reader) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// HasErrors reports whether the last read produced any error.
func (r *Reader) HasErrors() bool {
	for _, issue := range r.issues {
		if issue.IsError() {
			return true
		}
	}
	return false
}

func (r *Reader) filter(s Severity) []Issue {
	var out []Issue
	for _, issue := range r.issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

func (r *Reader) reset() {
	r.issues = nil
	r.files = nil
	r.stack = r.stack[:0]
	r.searchDirs = nil
	r.stopped = nil
	r.lastFrac = 0
}

func (r *Reader) newModel(path string) *model.Model {
	m := model.New()
	m.Path = path
	m.Format = r.config.DefaultFormat
	return m
}

func (r *Reader) finish(start time.Time, lines int) {
	r.progress(1)
	elapsed := time.Since(start)
	r.recorder.ReadFinished(elapsed, lines)
	r.logger.Debug("deck read",
		zap.Int("lines", lines),
		zap.Int("issues", len(r.issues)),
		zap.Duration("elapsed", elapsed),
	)
}

func (r *Reader) progress(frac float64) {
	if r.config.Progress == nil || frac <= r.lastFrac {
		return
	}
	if frac > 1 {
		frac = 1
	}
	r.lastFrac = frac
	r.config.Progress(frac)
}

func (r *Reader) report(issue Issue) {
	r.issues = append(r.issues, issue)
	r.recorder.IssueReported(issue.Kind.String(), issue.Severity.String())
	r.logger.Warn("deck issue",
		zap.String("severity", issue.Severity.String()),
		zap.String("kind", issue.Kind.String()),
		zap.String("path", issue.Path),
		zap.Int("line", issue.Line),
		zap.String("keyword", issue.Keyword),
		zap.Error(issue.Err),
	)
	if r.config.OnIssue != nil {
		r.config.OnIssue(issue)
	}
	if issue.IsError() && r.config.StopOnError && r.stopped == nil {
		r.stopped = fmt.Errorf("%w: %w", ErrStopped, issue)
	}
}

// block is one keyword header and its data lines.
type block struct {
	name   string
	header string
	format codec.Format
	line   int
	lines  []string
}

// fileState is the parse state of one file on the include stack.
type fileState struct {
	name   string
	dir    string
	format codec.Format
}

// parseFile runs the line state machine over one file. abs is empty for
// in-memory input.
func (r *Reader) parseFile(m *model.Model, abs, name string, lines []string, f codec.Format, top bool) {
	st := &fileState{name: name, format: f}
	if abs != "" {
		st.dir = filepath.Dir(abs)
		if !slices.Contains(r.files, abs) {
			r.files = append(r.files, abs)
		}
		r.stack = append(r.stack, abs)
		defer func() { r.stack = r.stack[:len(r.stack)-1] }()
	}

	r.logger.Info("reading deck file", zap.String("path", name), zap.Int("lines", len(lines)))
	before := m.Len()

	var cur *block
	titlePending := false
	total := float64(len(lines))

	flush := func(consumed int) {
		if cur != nil {
			r.dispatch(m, st, cur)
			cur = nil
		}
		if top && total > 0 {
			r.progress(float64(consumed) / total)
		}
	}

	for i, raw := range lines {
		if r.stopped != nil {
			return
		}
		line := strings.TrimRight(raw, "\r")
		lineNo := i + 1

		if titlePending {
			titlePending = false
			if top || m.Title == "" {
				m.Title = strings.TrimSpace(line)
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "$"):
			continue
		case strings.HasPrefix(line, "*"):
			flush(i)
			b := parseHeader(line, st.format)
			b.line = lineNo
			switch b.name {
			case "":
				r.report(Issue{Severity: SeverityWarning, Kind: KindSyntax, Path: name, Line: lineNo, Err: errors.New("empty keyword header")})
			case "END":
				r.logger.Debug("end of deck", zap.String("path", name), zap.Int("line", lineNo))
				r.logFile(m, name, before)
				return
			case "KEYWORD":
				if declared, ok := declaredFormat(b.header); ok {
					st.format = declared
					if top {
						m.Format = declared
					}
				}
				cur = &block{name: b.name, line: lineNo}
			case "TITLE":
				titlePending = true
				cur = &block{name: b.name, line: lineNo}
			default:
				cur = &b
			}
		case cur == nil:
			if strings.TrimSpace(line) != "" {
				r.report(Issue{Severity: SeverityWarning, Kind: KindSyntax, Path: name, Line: lineNo, Err: ErrUnexpectedData})
			}
		default:
			cur.lines = append(cur.lines, line)
		}
	}
	flush(len(lines))
	r.logFile(m, name, before)
}

func (r *Reader) logFile(m *model.Model, name string, before int) {
	r.logger.Info("finished deck file", zap.String("path", name), zap.Int("keywords", m.Len()-before))
}

// dispatch decodes a finished block and adds it to the model.
func (r *Reader) dispatch(m *model.Model, st *fileState, b *block) {
	switch b.name {
	case "KEYWORD", "TITLE":
		if len(trimBlank(b.lines)) > 0 {
			r.report(Issue{Severity: SeverityWarning, Kind: KindSyntax, Path: st.name, Line: b.line, Keyword: b.name, Err: ErrUnexpectedData})
		}
		return
	}

	kw, known := r.registry.New(b.name)
	if !known {
		if raw, ok := kw.(*keyword.Raw); ok {
			raw.SetHeader(b.header)
		}
		r.report(Issue{Severity: SeverityWarning, Kind: KindUnknownKeyword, Path: st.name, Line: b.line, Keyword: b.name, Err: ErrUnknownKeyword})
	}

	if err := kw.Decode(b.lines, b.format); err != nil {
		r.report(Issue{Severity: SeverityWarning, Kind: KindDecode, Path: st.name, Line: b.line, Keyword: b.name, Err: err})
		return
	}
	r.recorder.KeywordDecoded(kw.Name())
	r.logger.Debug("keyword decoded",
		zap.String("keyword", kw.Name()),
		zap.String("format", b.format.String()),
		zap.Int("lines", len(b.lines)),
	)

	if inc, ok := kw.(*keyword.Include); ok && r.config.FollowIncludes {
		r.include(m, st, b, inc)
		return
	}
	if err := m.Add(kw); err != nil {
		r.report(Issue{Severity: SeverityError, Kind: KindDecode, Path: st.name, Line: b.line, Keyword: b.name, Err: err})
	}
}

// include reads every file named by inc into m, depth first. A file already
// on the include stack is a cycle and is skipped; including the same file
// twice from different places is allowed.
func (r *Reader) include(m *model.Model, st *fileState, b *block, inc *keyword.Include) {
	for _, name := range inc.Files {
		if r.stopped != nil {
			return
		}
		path, info, err := r.resolve(st, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				r.report(Issue{Severity: SeverityWarning, Kind: KindMissingInclude, Path: st.name, Line: b.line, Keyword: b.name,
					Err: fmt.Errorf("%w: %s", ErrMissingInclude, name)})
			} else {
				r.report(Issue{Severity: SeverityError, Kind: KindIO, Path: st.name, Line: b.line, Keyword: b.name, Err: err})
			}
			continue
		}

		if info.IsDir() && inc.Variant == keyword.IncludePath {
			r.searchDirs = append(r.searchDirs, path)
			continue
		}

		if r.onStack(path) {
			r.report(Issue{Severity: SeverityError, Kind: KindIncludeCycle, Path: st.name, Line: b.line, Keyword: b.name,
				Err: fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(append(r.stackNames(), path), " -> "))})
			continue
		}

		lines, err := readLines(path)
		if err != nil {
			r.report(Issue{Severity: SeverityError, Kind: KindIO, Path: path, Err: err})
			continue
		}
		r.parseFile(m, path, path, lines, st.format, false)
	}
}

// resolve finds name relative to the base directory, then the search
// directories added by *INCLUDE_PATH.
func (r *Reader) resolve(st *fileState, name string) (string, fs.FileInfo, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		base := r.config.BaseDir
		if base == "" {
			base = st.dir
		}
		candidates = []string{filepath.Join(base, name)}
		for _, dir := range r.searchDirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	var firstErr error
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			abs = filepath.Clean(candidate)
		}
		info, err := os.Stat(abs)
		if err == nil {
			return abs, info, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", nil, firstErr
}

func (r *Reader) onStack(path string) bool {
	for _, p := range r.stack {
		if p == path {
			return true
		}
	}
	return false
}

func (r *Reader) stackNames() []string {
	return append([]string(nil), r.stack...)
}

// parseHeader splits a keyword line into its name, its header text without
// the format marker, and the block format. A '+' marker selects Large and '-'
// Standard for this block only; '%' is accepted and ignored.
func parseHeader(line string, current codec.Format) block {
	text := strings.TrimSpace(strings.TrimPrefix(line, "*"))
	head, rest := text, ""
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		head, rest = text[:i], text[i:]
	}

	b := block{format: current}
	marker := byte(0)
	if n := len(head); n > 0 && isMarker(head[n-1]) {
		marker = head[n-1]
		head = head[:n-1]
	} else if t := strings.TrimSpace(rest); len(t) > 0 && isMarker(t[0]) && (len(t) == 1 || t[1] == ' ' || t[1] == '\t') {
		marker = t[0]
		rest = t[1:]
	}
	switch marker {
	case '+':
		b.format = codec.Large
	case '-':
		b.format = codec.Standard
	}

	b.name = strings.ToUpper(head)
	b.header = strings.TrimRight(head+rest, " \t")
	return b
}

func isMarker(c byte) bool {
	return c == '+' || c == '-' || c == '%'
}

// declaredFormat reads LONG=Y|S|N from a *KEYWORD header.
func declaredFormat(header string) (codec.Format, bool) {
	for _, field := range strings.Fields(header) {
		key, value, ok := strings.Cut(strings.ToUpper(field), "=")
		if !ok || key != "LONG" {
			continue
		}
		switch value {
		case "Y", "S":
			return codec.Large, true
		case "N":
			return codec.Standard, true
		}
	}
	return 0, false
}

func trimBlank(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scanLines(f)
}

func scanLines(src io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
