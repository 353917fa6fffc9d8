package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
}

// DefaultConfig builds a Config from WDGAME_* variables. Process
// environment wins over the env file named by WDGAME_CONFIG
// (default ~/.wdgame/config.env), which wins over built-in defaults.
func DefaultConfig() *Config {
	env := envLookup(getEnvOrDefault(os.Getenv, "WDGAME_CONFIG", filepath.Join(stateDir(), "config.env")))

	return &Config{
		ServerURL: getEnvOrDefault(env, "WDGAME_SERVER", "http://localhost:8080"),
		Token:     env("WDGAME_TOKEN"),
		TokenFile: getEnvOrDefault(env, "WDGAME_TOKEN_FILE", filepath.Join(stateDir(), "token")),
		Output:    getEnvOrDefault(env, "WDGAME_OUTPUT", "text"),
	}
}

// envLookup layers the process environment over the env file at path.
// A missing or unreadable file contributes nothing.
func envLookup(path string) func(string) string {
	file, err := godotenv.Read(path)
	if err != nil {
		file = nil
	}
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return file[key]
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

// ClearToken forgets the token and removes the token file
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wdgame"
	}
	return filepath.Join(home, ".wdgame")
}

func getEnvOrDefault(env func(string) string, key, defaultVal string) string {
	if val := env(key); val != "" {
		return val
	}
	return defaultVal
}
