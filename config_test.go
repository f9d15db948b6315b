package studybuddy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("got %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	content := `model = "gpt-4o-mini"
db_path = "/tmp/test.db"
verbose = true
`
	path := filepath.Join(t.TempDir(), "studybuddy.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Model != "gpt-4o-mini" || cfg.DBPath != "/tmp/test.db" || !cfg.Verbose {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Unset keys keep their defaults.
	if cfg.ListenAddr != DefaultConfig().ListenAddr {
		t.Errorf("ListenAddr = %q, want default", cfg.ListenAddr)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("model = ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed config accepted")
	}
}
