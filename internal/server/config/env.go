package config

import (
	"strings"

	"github.com/dmitrijs2005/recoveryvault/internal/confx"
)

// Environment variables read by parseEnv. PINs are VAULT_PIN_<ROLE>.
const (
	envGRPCAddr          = "VAULT_GRPC_ADDR"
	envDatabaseDSN       = "VAULT_DATABASE_DSN"
	envSecretKey         = "VAULT_SECRET_KEY"
	envGateTokenValidity = "VAULT_GATE_TOKEN_VALIDITY"
	envUnlockRate        = "VAULT_UNLOCK_RATE"
	envS3User            = "VAULT_S3_USER"
	envS3Password        = "VAULT_S3_PASSWORD"
	envS3Bucket          = "VAULT_S3_BUCKET"
	envS3Region          = "VAULT_S3_REGION"
	envS3Endpoint        = "VAULT_S3_ENDPOINT"
	envPresignExpiry     = "VAULT_PRESIGN_EXPIRY"
	envLogLevel          = "VAULT_LOG_LEVEL"
	envPinPrefix         = "VAULT_PIN_"
)

// dotEnvFiles are loaded before the environment is read.
var dotEnvFiles = []string{".env"}

func parseEnv(config *Config, lookup confx.Lookup, environ []string) {
	if err := confx.LoadDotEnv(dotEnvFiles...); err != nil {
		panic(err)
	}

	confx.String(lookup, envGRPCAddr, &config.EndpointAddrGRPC)
	confx.String(lookup, envDatabaseDSN, &config.DatabaseDSN)
	confx.String(lookup, envSecretKey, &config.SecretKey)
	confx.String(lookup, envUnlockRate, &config.UnlockRate)
	confx.String(lookup, envS3User, &config.S3RootUser)
	confx.String(lookup, envS3Password, &config.S3RootPassword)
	confx.String(lookup, envS3Bucket, &config.S3Bucket)
	confx.String(lookup, envS3Region, &config.S3Region)
	confx.String(lookup, envS3Endpoint, &config.S3BaseEndpoint)
	confx.String(lookup, envLogLevel, &config.LogLevel)

	if err := confx.Duration(lookup, envGateTokenValidity, &config.GateTokenValidity); err != nil {
		panic(err)
	}
	if err := confx.Duration(lookup, envPresignExpiry, &config.PresignExpiry); err != nil {
		panic(err)
	}

	for role, h := range confx.Prefixed(environ, envPinPrefix) {
		config.setPin(strings.ToLower(role), h)
	}
}
