package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	pkgerrors "voyager/pkg/errors"
)

// SettingsDir returns the directory holding the persisted settings file
func SettingsDir() string {
	if dir := os.Getenv("VOYAGER_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".voyager"
	}
	return filepath.Join(home, ".config", "voyager")
}

// SettingsPath returns the persisted settings file path
func SettingsPath() string {
	return filepath.Join(SettingsDir(), "settings.toml")
}

// LoadSettingsFile folds persisted settings into the config. Values
// already present from the environment keep precedence; the file only
// fills blanks. A missing file is not an error. Secrets are never
// stored in the file, so none are read from it.
func LoadSettingsFile(cfg *Config, path string) error {
	var stored Config
	if _, err := toml.DecodeFile(path, &stored); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return pkgerrors.NewIOError("read settings", err)
	}

	fillString(&cfg.DocumentPath, stored.DocumentPath)
	fillString(&cfg.SAPServer, stored.SAPServer)
	fillString(&cfg.SAPUser, stored.SAPUser)
	fillString(&cfg.LangChainProject, stored.LangChainProject)
	fillString(&cfg.LangChainEndpoint, stored.LangChainEndpoint)
	if cfg.RecursionLimit == DefaultRecursionLimit && stored.RecursionLimit > 0 {
		cfg.RecursionLimit = stored.RecursionLimit
	}
	if cfg.Provider == ProviderNone {
		cfg.Provider = stored.Provider
	}
	fillString(&cfg.Azure.APIVersion, stored.Azure.APIVersion)
	fillString(&cfg.Azure.Endpoint, stored.Azure.Endpoint)
	fillString(&cfg.Azure.DeploymentName, stored.Azure.DeploymentName)
	fillString(&cfg.Groq.Model, stored.Groq.Model)
	fillString(&cfg.Anthropic.Model, stored.Anthropic.Model)

	return cfg.Validate()
}

// SaveSettingsFile persists the non-secret settings as TOML
func SaveSettingsFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return pkgerrors.NewIOError("create settings directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.NewIOError("write settings", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return pkgerrors.NewIOError("encode settings", err)
	}
	return nil
}

func fillString(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}
