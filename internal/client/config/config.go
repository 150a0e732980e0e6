// Package config loads runtime configuration for the Recovery Vault CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. VAULT_CLI_* environment variables, optionally from a .env file.
//  4. Command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Config holds runtime settings for the CLI.
//
//   - DataDir holds the local preference database, the log file and exports
//     unless those are set explicitly.
//   - UploadWorkers bounds parallel media uploads during a commit.
//   - RequestTimeout applies to every RPC.
//   - InboxDir, when set, is watched and new files are staged automatically.
type Config struct {
	ServerEndpointAddr  string
	DataDir             string
	DBPath              string
	LogFile             string
	LogLevel            string
	UploadWorkers       int
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	InboxDir            string
	ExportDir           string
	Author              string
	VaultMode           string
}

// homeDir is a seam for tests.
var homeDir = homedir.Dir

// LoadDefaults populates c with defaults rooted at ~/.recoveryvault.
func (c *Config) LoadDefaults() {
	home, err := homeDir()
	if err != nil {
		home = "."
	}

	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DataDir = filepath.Join(home, ".recoveryvault")
	c.LogLevel = "info"
	c.UploadWorkers = 4
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.VaultMode = "Sandbox"
}

// resolvePaths fills paths that were left empty from DataDir.
func (c *Config) resolvePaths() {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "prefs.db")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "cli.log")
	}
	if c.ExportDir == "" {
		c.ExportDir = filepath.Join(c.DataDir, "exports")
	}
	if c.UploadWorkers < 1 {
		c.UploadWorkers = 1
	}
}

// LoadConfig applies defaults, file, environment and flags. It panics on
// malformed input.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg, args)
	cfg.resolvePaths()
	return cfg
}
