package inlay_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/rlch/inlay"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    func() *inlay.Config
	}{
		{
			name:    "empty file keeps defaults",
			content: "",
			want:    inlay.DefaultConfig,
		},
		{
			name: "partial inlay hints override",
			content: `
inlayHints:
  typeHints: false
  chainingHintsSeparator: " » "
`,
			want: func() *inlay.Config {
				cfg := inlay.DefaultConfig()
				cfg.InlayHints.TypeHints = false
				cfg.InlayHints.ChainingHintsSeparator = " » "

				return cfg
			},
		},
		{
			name: "server and languages",
			content: `
server:
  command: [ra-multiplex, client]
  protocol: standard
  maxRetries: 5
  retryInitialInterval: 250ms
languages: [rust, toml]
pruneClosed: true
`,
			want: func() *inlay.Config {
				cfg := inlay.DefaultConfig()
				cfg.Server.Command = []string{"ra-multiplex", "client"}
				cfg.Server.Protocol = inlay.ProtocolStandard
				cfg.Server.MaxRetries = 5
				cfg.Server.RetryInitialInterval = 250 * time.Millisecond
				cfg.Languages = []string{"rust", "toml"}
				cfg.PruneClosed = true

				return cfg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), ".inlay.yaml")
			writeFile(t, path, tt.content)

			got, err := inlay.LoadConfigFile(path)
			if err != nil {
				t.Fatalf("LoadConfigFile() error: %v", err)
			}

			diff := cmp.Diff(tt.want(), got)
			if diff != "" {
				t.Errorf("LoadConfigFile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindConfig_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "inlay.yml"), "pruneClosed: true\n")

	nested := filepath.Join(root, "crates", "core", "src")
	err := os.MkdirAll(nested, 0o750)
	if err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}

	path, err := inlay.FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig() error: %v", err)
	}

	if path != filepath.Join(root, "inlay.yml") {
		t.Errorf("FindConfig() = %q, want %q", path, filepath.Join(root, "inlay.yml"))
	}

	cfg, err := inlay.LoadConfig(nested)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if !cfg.PruneClosed {
		t.Error("expected pruneClosed from parent config")
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	// TempDir lives under the system temp dir, which carries no inlay config.
	_, err := inlay.LoadConfig(t.TempDir())
	if !errors.Is(err, inlay.ErrConfigNotFound) {
		t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
	}
}

func TestConfig_Tracks(t *testing.T) {
	t.Parallel()

	cfg := inlay.DefaultConfig()
	if !cfg.Tracks("rust") {
		t.Error("default config should track rust")
	}

	if cfg.Tracks("go") {
		t.Error("default config should not track go")
	}

	cfg.Languages = nil
	if !cfg.Tracks("go") {
		t.Error("empty language list should track everything")
	}
}

func TestSettings_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typeHints, chainingHints bool
		want                     bool
	}{
		{true, true, true},
		{true, false, true},
		{false, true, true},
		{false, false, false},
	}

	for _, tt := range tests {
		s := inlay.Settings{TypeHints: tt.typeHints, ChainingHints: tt.chainingHints}
		got := s.Enabled()
		if got != tt.want {
			t.Errorf("Settings{%v, %v}.Enabled() = %v, want %v", tt.typeHints, tt.chainingHints, got, tt.want)
		}
	}
}

func TestKind_Known(t *testing.T) {
	t.Parallel()

	for _, k := range []inlay.Kind{inlay.KindType, inlay.KindParameter, inlay.KindChaining} {
		if !k.Known() {
			t.Errorf("%q.Known() = false", k)
		}
	}

	if inlay.Kind("LifetimeHint").Known() {
		t.Error("unexpected known kind LifetimeHint")
	}
}
