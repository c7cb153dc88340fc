package inlay

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrConfigNotFound is returned when no config file exists in dir or any parent.
	ErrConfigNotFound = errors.New("no inlay config file found")
	// ErrNoServerCommand is returned when no language server command is configured.
	ErrNoServerCommand = errors.New("no language server command configured (use --server or inlay.yaml)")
)

// Protocol selects the request used to fetch hints from the language server.
type Protocol string

const (
	// ProtocolLegacy uses the rust-analyzer/inlayHints custom request.
	ProtocolLegacy Protocol = "legacy"
	// ProtocolStandard uses the LSP 3.17 textDocument/inlayHint request.
	ProtocolStandard Protocol = "standard"
)

// Config represents the .inlay.yaml configuration file.
type Config struct {
	// Language server to fetch hints from
	Server ServerConfig `yaml:"server"`

	// Language IDs whose documents are tracked. Empty tracks every document.
	Languages []string `yaml:"languages"`

	// Drop registry entries when their document is closed.
	PruneClosed bool `yaml:"pruneClosed"`

	// Rendering options
	InlayHints Settings `yaml:"inlayHints"`
}

// ServerConfig describes how to reach the language server.
type ServerConfig struct {
	// Command and arguments used to spawn the server (e.g., ["rust-analyzer"])
	Command []string `yaml:"command"`

	// Request flavour, "legacy" or "standard"
	Protocol Protocol `yaml:"protocol"`

	// Attempts per hint request when the server reports a transient failure
	MaxRetries uint `yaml:"maxRetries"`

	// First backoff interval between retries
	RetryInitialInterval time.Duration `yaml:"retryInitialInterval"`
}

// Settings holds the user-facing inlay hint options.
type Settings struct {
	TypeHints              bool   `yaml:"typeHints" json:"typeHints"`
	ChainingHints          bool   `yaml:"chainingHints" json:"chainingHints"`
	TypeHintsSeparator     string `yaml:"typeHintsSeparator" json:"typeHintsSeparator"`
	ChainingHintsSeparator string `yaml:"chainingHintsSeparator" json:"chainingHintsSeparator"`
	RefreshOnInsertMode    bool   `yaml:"refreshOnInsertMode" json:"refreshOnInsertMode"`
}

// Enabled reports whether any renderable hint kind is switched on.
func (s Settings) Enabled() bool {
	return s.TypeHints || s.ChainingHints
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		TypeHints:              true,
		ChainingHints:          true,
		TypeHintsSeparator:     "‣ ",
		ChainingHintsSeparator: "‣ ",
		RefreshOnInsertMode:    false,
	}
}

// DefaultConfig returns a config with every field at its default.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Command:              []string{"rust-analyzer"},
			Protocol:             ProtocolLegacy,
			MaxRetries:           3,
			RetryInitialInterval: 100 * time.Millisecond,
		},
		Languages:  []string{"rust"},
		InlayHints: DefaultSettings(),
	}
}

// Tracks reports whether documents with the given language ID are tracked.
func (c *Config) Tracks(languageID string) bool {
	if len(c.Languages) == 0 {
		return true
	}

	return slices.Contains(c.Languages, languageID)
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".inlay.yaml", ".inlay.yml", "inlay.yaml", "inlay.yml"}

// LoadConfig finds and loads the nearest .inlay.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
// Keys missing from the file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
