package studybuddy

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds application settings loaded from a TOML file.
type Config struct {
	Model      string `toml:"model"`
	DBPath     string `toml:"db_path"`
	PromptFile string `toml:"prompt_file"`
	ListenAddr string `toml:"listen_addr"`
	Verbose    bool   `toml:"verbose"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Model:      "gpt-4o",
		DBPath:     "./studybuddy.db",
		PromptFile: "prompts.txt",
		ListenAddr: ":8180",
	}
}

// LoadConfig reads a TOML config file over the defaults. A missing file is
// not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}
