// Package di provides dependency injection container
package di

import (
	"go.uber.org/zap"

	"github.com/ssargent/keydeck/pkg/config"
	"github.com/ssargent/keydeck/pkg/deck"
	"github.com/ssargent/keydeck/pkg/keyword"
	"github.com/ssargent/keydeck/pkg/metrics"
	"github.com/ssargent/keydeck/pkg/storage"
)

// ArchiveOpener opens the deck archive in a directory.
type ArchiveOpener func(dir string) (*storage.Archive, error)

// Container holds all the dependencies for the application
type Container struct {
	config        *config.Config
	logger        *zap.Logger
	registry      *keyword.Registry
	metrics       *metrics.Metrics
	archiveOpener ArchiveOpener
}

// NewContainer creates a new dependency injection container. A nil config
// or logger is replaced by the defaults.
func NewContainer(cfg *config.Config, logger *zap.Logger) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Container{
		config:   cfg,
		logger:   logger,
		registry: keyword.DefaultRegistry(),
		metrics:  metrics.New(),
		archiveOpener: func(dir string) (*storage.Archive, error) {
			return storage.Open(dir, storage.Options{})
		},
	}
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Registry returns the keyword registry shared by every reader
func (c *Container) Registry() *keyword.Registry {
	return c.registry
}

// Metrics returns the metrics every reader and writer records to
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// NewReader returns a reader configured from the reader section. Readers are
// not safe for concurrent use; create one per goroutine.
func (c *Container) NewReader() (*deck.Reader, error) {
	cfg, err := c.config.Reader.DeckConfig()
	if err != nil {
		return nil, err
	}
	cfg.Registry = c.registry
	cfg.Logger = c.logger.Named("reader")
	cfg.Recorder = c.metrics
	return deck.NewReader(cfg), nil
}

// WriterConfig returns the writer configuration from the writer section,
// for callers that adjust it before calling NewWriterWith.
func (c *Container) WriterConfig() (deck.WriterConfig, error) {
	cfg, err := c.config.Writer.DeckConfig()
	if err != nil {
		return deck.WriterConfig{}, err
	}
	cfg.Logger = c.logger.Named("writer")
	cfg.Recorder = c.metrics
	return cfg, nil
}

// NewWriter returns a writer configured from the writer section.
func (c *Container) NewWriter() (*deck.Writer, error) {
	cfg, err := c.WriterConfig()
	if err != nil {
		return nil, err
	}
	return deck.NewWriter(cfg), nil
}

// OpenArchive opens the archive directory from the configuration.
func (c *Container) OpenArchive() (*storage.Archive, error) {
	return c.archiveOpener(c.config.Archive.Dir)
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// SetArchiveOpener allows overriding how the archive is opened (for testing)
func (c *Container) SetArchiveOpener(opener ArchiveOpener) {
	c.archiveOpener = opener
}
