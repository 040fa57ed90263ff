// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the executor DSN goes to the OS keychain.
//
// Settings are layered: defaults, then config.json, then a .env file in the
// working directory, then SQLBRIDGE_* environment variables. Command-line flags
// are applied on top by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	sberrors "sqlbridge/cli/internal/errors"
	"sqlbridge/cli/internal/logging"
	"sqlbridge/cli/internal/xdg"

	"github.com/joho/godotenv"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel  string         `json:"log_level"`
	Bridge    BridgeConfig   `json:"bridge"`
	Server    ServerConfig   `json:"server"`
	Executor  ExecutorConfig `json:"executor"`
	BatchFile string         `json:"batch_file,omitempty"`
}

// BridgeConfig names the remote executor.
type BridgeConfig struct {
	Endpoint     string `json:"endpoint"`
	FunctionName string `json:"function_name"`
}

// ServerConfig configures `sqlbridge serve`.
type ServerConfig struct {
	Listen string `json:"listen"`
	// RefreshSchedule is a cron spec; empty disables scheduled refreshes.
	RefreshSchedule string `json:"refresh_schedule,omitempty"`
}

// ExecutorConfig configures the local reference executor.
type ExecutorConfig struct {
	Listen       string `json:"listen"`
	FunctionName string `json:"function_name"`
}

// Default returns the built-in settings, which target a local executor.
func Default() Config {
	return Config{
		LogLevel: "info",
		Bridge: BridgeConfig{
			Endpoint:     "http://127.0.0.1:8090/invoke",
			FunctionName: "sql-executor",
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
		Executor: ExecutorConfig{
			Listen:       "127.0.0.1:8090",
			FunctionName: "sql-executor",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration and applies .env and environment overrides.
// A missing config file yields defaults.
func Load() (Config, error) {
	c := Default()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, sberrors.Wrap(sberrors.ConfigInvalid, "parse "+p, err)
		}
	}

	// A missing .env is normal; existing variables win over the file.
	_ = godotenv.Load()
	c.ApplyEnv()
	return c, nil
}

// ApplyEnv overrides settings from SQLBRIDGE_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.LogLevel, "SQLBRIDGE_LOG_LEVEL")
	set(&c.Bridge.Endpoint, "SQLBRIDGE_ENDPOINT")
	set(&c.Bridge.FunctionName, "SQLBRIDGE_FUNCTION")
	set(&c.Server.Listen, "SQLBRIDGE_LISTEN")
	set(&c.Server.RefreshSchedule, "SQLBRIDGE_REFRESH")
	set(&c.Executor.Listen, "SQLBRIDGE_EXECUTOR_LISTEN")
	set(&c.Executor.FunctionName, "SQLBRIDGE_EXECUTOR_FUNCTION")
	set(&c.BatchFile, "SQLBRIDGE_BATCH")
}

// Validate reports settings that cannot be used to reach an executor.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return sberrors.Wrap(sberrors.ConfigInvalid, "log_level", err)
	}
	endpoint := strings.TrimSpace(c.Bridge.Endpoint)
	if endpoint == "" {
		return sberrors.New(sberrors.ConfigInvalid, "bridge endpoint is empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return sberrors.Wrap(sberrors.ConfigInvalid, "bridge endpoint", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return sberrors.New(sberrors.ConfigInvalid, fmt.Sprintf("bridge endpoint %q must be an http(s) URL", endpoint))
	}
	if strings.TrimSpace(c.Bridge.FunctionName) == "" {
		return sberrors.New(sberrors.ConfigInvalid, "bridge function name is empty")
	}
	return nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
