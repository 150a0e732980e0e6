package config

import "github.com/dmitrijs2005/recoveryvault/internal/confx"

const (
	envServerAddr     = "VAULT_CLI_SERVER_ADDR"
	envDataDir        = "VAULT_CLI_DATA_DIR"
	envDBPath         = "VAULT_CLI_DB_PATH"
	envLogFile        = "VAULT_CLI_LOG_FILE"
	envLogLevel       = "VAULT_CLI_LOG_LEVEL"
	envUploadWorkers  = "VAULT_CLI_UPLOAD_WORKERS"
	envRequestTimeout = "VAULT_CLI_REQUEST_TIMEOUT"
	envInboxDir       = "VAULT_CLI_INBOX_DIR"
	envExportDir      = "VAULT_CLI_EXPORT_DIR"
	envAuthor         = "VAULT_CLI_AUTHOR"
	envVaultMode      = "VAULT_CLI_MODE"
)

var dotEnvFiles = []string{".env"}

func parseEnv(cfg *Config, lookup confx.Lookup) {
	if err := confx.LoadDotEnv(dotEnvFiles...); err != nil {
		panic(err)
	}

	confx.String(lookup, envServerAddr, &cfg.ServerEndpointAddr)
	confx.String(lookup, envDataDir, &cfg.DataDir)
	confx.String(lookup, envDBPath, &cfg.DBPath)
	confx.String(lookup, envLogFile, &cfg.LogFile)
	confx.String(lookup, envLogLevel, &cfg.LogLevel)
	confx.String(lookup, envInboxDir, &cfg.InboxDir)
	confx.String(lookup, envExportDir, &cfg.ExportDir)
	confx.String(lookup, envAuthor, &cfg.Author)
	confx.String(lookup, envVaultMode, &cfg.VaultMode)

	if err := confx.Int(lookup, envUploadWorkers, &cfg.UploadWorkers); err != nil {
		panic(err)
	}
	if err := confx.Duration(lookup, envRequestTimeout, &cfg.RequestTimeout); err != nil {
		panic(err)
	}
}
