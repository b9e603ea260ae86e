package cli

// This file loads wheelpub's own configuration: environment variables
// (CLIConfig) and the optional ~/.wheelpub/config.yaml (ToolConfig).
// Command flags take precedence over both.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"wheelpub/internal/pypirc"
)

// Environment variables read by LoadCLIConfig.
const (
	EnvToken      = "WHEELPUB_PYPI_TOKEN"
	EnvPassword   = "WHEELPUB_PASSWORD"
	EnvPypirc     = "WHEELPUB_PYPIRC"
	EnvConfig     = "WHEELPUB_CONFIG"
	EnvNoKeyring  = "WHEELPUB_NO_KEYRING"
	toolConfigDir = ".wheelpub"
	toolConfigFn  = "config.yaml"
)

// CLIConfig holds settings taken from the environment. Empty strings mean unset.
type CLIConfig struct {
	Token      string
	Password   string
	PypircPath string
	ConfigPath string
	NoKeyring  bool
}

// DefaultCLIConfig is loaded once at startup.
var DefaultCLIConfig = LoadCLIConfig()

// LoadCLIConfig reads CLIConfig from the environment.
func LoadCLIConfig() *CLIConfig {
	return &CLIConfig{
		Token:      os.Getenv(EnvToken),
		Password:   os.Getenv(EnvPassword),
		PypircPath: os.Getenv(EnvPypirc),
		ConfigPath: os.Getenv(EnvConfig),
		NoKeyring:  envBool(EnvNoKeyring),
	}
}

// envBool treats any value except an empty or false-like one as true.
func envBool(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}

// ToolConfig is the optional wheelpub config file.
type ToolConfig struct {
	Repository   string `yaml:"repository,omitempty"`
	Username     string `yaml:"username,omitempty"`
	SkipExisting bool   `yaml:"skip_existing,omitempty"`
	Pypirc       string `yaml:"pypirc,omitempty"`
	NoKeyring    bool   `yaml:"no_keyring,omitempty"`
}

func toolConfigPath() (string, error) {
	if DefaultCLIConfig.ConfigPath != "" {
		return DefaultCLIConfig.ConfigPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", wrapWithSentinel(ErrGetHomeDirectoryFailed, err, fmt.Sprintf("failed to get home directory: %v", err))
	}
	return filepath.Join(home, toolConfigDir, toolConfigFn), nil
}

// loadToolConfig returns an empty config when the file does not exist.
func loadToolConfig() (*ToolConfig, error) {
	path, err := toolConfigPath()
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- path is scoped to the user's config directory or set explicitly.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ToolConfig{}, nil
		}
		return nil, wrapWithSentinelAndContext(ErrReadToolConfigFailed, err,
			fmt.Sprintf("failed to read wheelpub config: %v", err), map[string]any{"path": path})
	}
	var cfg ToolConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, wrapWithSentinelAndContext(ErrUnmarshalToolConfigFailed, err,
			fmt.Sprintf("failed to unmarshal wheelpub config: %v", err), map[string]any{"path": path})
	}
	return &cfg, nil
}

// resolvePypircPath returns the .pypirc location using precedence:
// environment (WHEELPUB_PYPIRC) > config file > ~/.pypirc.
func resolvePypircPath(file *ToolConfig) (string, error) {
	if DefaultCLIConfig.PypircPath != "" {
		return DefaultCLIConfig.PypircPath, nil
	}
	if file != nil && file.Pypirc != "" {
		return file.Pypirc, nil
	}
	path, err := pypirc.DefaultPath()
	if err != nil {
		return "", wrapWithSentinel(ErrGetHomeDirectoryFailed, err, fmt.Sprintf("failed to get home directory: %v", err))
	}
	return path, nil
}
