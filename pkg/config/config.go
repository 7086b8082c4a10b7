package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/keydeck/pkg/codec"
	"github.com/ssargent/keydeck/pkg/deck"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the keydeck configuration
type Config struct {
	Reader  Reader  `yaml:"reader"`
	Writer  Writer  `yaml:"writer"`
	Logging Logging `yaml:"logging"`
	Archive Archive `yaml:"archive"`
}

// Reader contains deck reading options
type Reader struct {
	FollowIncludes bool   `yaml:"follow_includes"`
	BaseDir        string `yaml:"base_dir"`
	Format         string `yaml:"format"`
	StopOnError    bool   `yaml:"stop_on_error"`
}

// Writer contains deck writing options
type Writer struct {
	Format      string `yaml:"format"`
	EmitKeyword bool   `yaml:"emit_keyword"`
	EmitTitle   bool   `yaml:"emit_title"`
	EmitEnd     bool   `yaml:"emit_end"`
	LineEnding  string `yaml:"line_ending"`
}

// Logging contains logging configuration
type Logging struct {
	Level      string `yaml:"level"`
	Encoding   string `yaml:"encoding"`
	OutputPath string `yaml:"output_path"`
}

// Archive contains the deck archive location
type Archive struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Reader: Reader{
			FollowIncludes: true,
			Format:         "standard",
		},
		Writer: Writer{
			Format:      "standard",
			EmitKeyword: true,
			EmitTitle:   true,
			EmitEnd:     true,
			LineEnding:  "lf",
		},
		Logging: Logging{
			Level:    "error",
			Encoding: "console",
		},
		Archive: Archive{
			Dir: defaultArchiveDir(),
		},
	}
}

// Validate checks every enumerated option.
func (c *Config) Validate() error {
	if _, err := codec.ParseFormat(c.Reader.Format); err != nil {
		return fmt.Errorf("%w: reader.format: %w", ErrInvalidConfig, err)
	}
	if _, err := codec.ParseFormat(c.Writer.Format); err != nil {
		return fmt.Errorf("%w: writer.format: %w", ErrInvalidConfig, err)
	}
	if _, err := lineEnding(c.Writer.LineEnding); err != nil {
		return fmt.Errorf("%w: writer.line_ending: %w", ErrInvalidConfig, err)
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: logging.encoding: %q", ErrInvalidConfig, c.Logging.Encoding)
	}
	return nil
}

// DeckConfig converts the reader section. Logger, registry and recorder are
// left for the caller.
func (r Reader) DeckConfig() (deck.ReaderConfig, error) {
	f, err := codec.ParseFormat(r.Format)
	if err != nil {
		return deck.ReaderConfig{}, err
	}
	cfg := deck.DefaultReaderConfig()
	cfg.FollowIncludes = r.FollowIncludes
	cfg.BaseDir = r.BaseDir
	cfg.DefaultFormat = f
	cfg.StopOnError = r.StopOnError
	return cfg, nil
}

// DeckConfig converts the writer section.
func (w Writer) DeckConfig() (deck.WriterConfig, error) {
	f, err := codec.ParseFormat(w.Format)
	if err != nil {
		return deck.WriterConfig{}, err
	}
	eol, err := lineEnding(w.LineEnding)
	if err != nil {
		return deck.WriterConfig{}, err
	}
	return deck.WriterConfig{
		Format:      f,
		EmitKeyword: w.EmitKeyword,
		EmitTitle:   w.EmitTitle,
		EmitEnd:     w.EmitEnd,
		LineEnding:  eol,
	}, nil
}

func lineEnding(name string) (string, error) {
	switch name {
	case "", "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	}
	return "", fmt.Errorf("unknown line ending %q", name)
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadOrDefault loads configPath, or the default path when configPath is
// empty. A missing default file yields DefaultConfig.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}
	configPath = GetDefaultConfigPath()
	if !ConfigExists(configPath) {
		return DefaultConfig(), nil
	}
	return LoadConfig(configPath)
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./keydeck.yaml"
	}

	// ~/.config/keydeck/config.yaml
	return filepath.Join(homeDir, ".config", "keydeck", "config.yaml")
}

func defaultArchiveDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./keydeck-archive"
	}
	return filepath.Join(homeDir, ".local", "share", "keydeck", "archive")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
