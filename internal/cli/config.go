package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Authorizer  string `yaml:"authorizer"   mapstructure:"authorizer"`
	BaseURL     string `yaml:"base_url"     mapstructure:"base_url"`
	SessionFile string `yaml:"session_file" mapstructure:"session_file"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sessionkit"), nil
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("authorizer", "bearer")
	v.SetDefault("base_url", "http://localhost:8094")
	v.SetDefault("session_file", "")

	// Env overrides: SESSIONKIT_AUTHORIZER, SESSIONKIT_BASE_URL, etc.
	v.SetEnvPrefix("SESSIONKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Read file if it exists, otherwise return defaults without error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func saveConfig(path string, c *Config) error {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("authorizer", c.Authorizer)
	v.Set("base_url", c.BaseURL)
	v.Set("session_file", c.SessionFile)

	if err := v.WriteConfigAs(path); err != nil {
		return err
	}

	// Restrict perms to owner
	_ = os.Chmod(path, 0o600)
	return nil
}

// effectiveConfig applies flag overrides on top of the loaded file.
func effectiveConfig() (*Config, error) {
	c, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	if authorizerID != "" {
		c.Authorizer = authorizerID
	}
	if sessionFile != "" {
		c.SessionFile = sessionFile
	}
	if c.SessionFile == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.SessionFile = filepath.Join(dir, "session.json")
	}
	return c, nil
}
