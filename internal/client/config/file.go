package config

import (
	"github.com/dmitrijs2005/recoveryvault/internal/confx"
	"github.com/dmitrijs2005/recoveryvault/internal/flagx"
	"github.com/dmitrijs2005/recoveryvault/internal/timex"
)

// FileConfig is the on-disk shape. Durations accept "15s" or nanoseconds.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	DataDir             string         `json:"data_dir" yaml:"data_dir"`
	DBPath              string         `json:"db_path" yaml:"db_path"`
	LogFile             string         `json:"log_file" yaml:"log_file"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	UploadWorkers       int            `json:"upload_workers" yaml:"upload_workers"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	InboxDir            string         `json:"inbox_dir" yaml:"inbox_dir"`
	ExportDir           string         `json:"export_dir" yaml:"export_dir"`
	Author              string         `json:"author" yaml:"author"`
	VaultMode           string         `json:"vault_mode" yaml:"vault_mode"`
}

func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	fc := &FileConfig{}
	if err := confx.DecodeFile(path, fc); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	set(&cfg.DataDir, fc.DataDir)
	set(&cfg.DBPath, fc.DBPath)
	set(&cfg.LogFile, fc.LogFile)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.InboxDir, fc.InboxDir)
	set(&cfg.ExportDir, fc.ExportDir)
	set(&cfg.Author, fc.Author)
	set(&cfg.VaultMode, fc.VaultMode)

	if fc.UploadWorkers > 0 {
		cfg.UploadWorkers = fc.UploadWorkers
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
}
