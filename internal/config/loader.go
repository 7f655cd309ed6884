package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration from files and environment variables.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "oai"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "OAI"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return expandEnvVars(cfg), nil
}

// setDefaults registers configuration defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.key", "")
	v.SetDefault("api.baseURL", "https://api.openai.com/v1")
	v.SetDefault("api.timeout", "60s")
	v.SetDefault("api.model", "gpt-4")
	v.SetDefault("api.systemPrompt", "")

	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "")

	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.maxSizeMB", 50)
	v.SetDefault("logging.maxBackups", 3)
	v.SetDefault("logging.redactAPIKeys", true)
}

// expandEnvVars expands ${VAR} and $VAR syntax in configuration strings,
// so config files can reference secrets without embedding them.
func expandEnvVars(cfg Config) Config {
	cfg.API.Key = expandEnvString(cfg.API.Key)
	cfg.API.BaseURL = expandEnvString(cfg.API.BaseURL)
	cfg.API.Model = expandEnvString(cfg.API.Model)
	cfg.API.SystemPrompt = expandEnvString(cfg.API.SystemPrompt)
	cfg.Store.Path = expandEnvString(cfg.Store.Path)
	cfg.Logging.File = expandEnvString(cfg.Logging.File)
	return cfg
}

func expandEnvString(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return os.ExpandEnv(s)
}

// locateConfigFile searches the candidate paths for a config file with
// a supported extension, returning the first match.
func locateConfigFile(name string, paths []string) string {
	extensions := []string{"yaml", "yml", "json", "toml"}
	for _, dir := range paths {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+"."+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}
