package config

import (
	"github.com/dmitrijs2005/recoveryvault/internal/confx"
	"github.com/dmitrijs2005/recoveryvault/internal/flagx"
	"github.com/dmitrijs2005/recoveryvault/internal/timex"
)

// FileConfig is the on-disk shape of the configuration. Unset fields keep
// the value from the previous layer.
type FileConfig struct {
	EndpointAddrGRPC  string            `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN       string            `json:"database_dsn" yaml:"database_dsn"`
	SecretKey         string            `json:"secret_key" yaml:"secret_key"`
	GateTokenValidity timex.Duration    `json:"gate_token_validity" yaml:"gate_token_validity"`
	PinHashes         map[string]string `json:"pin_hashes" yaml:"pin_hashes"`
	UnlockRate        string            `json:"unlock_rate" yaml:"unlock_rate"`
	S3RootUser        string            `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword    string            `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket          string            `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region          string            `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint    string            `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	PresignExpiry     timex.Duration    `json:"presign_expiry" yaml:"presign_expiry"`
	LogLevel          string            `json:"log_level" yaml:"log_level"`
}

// parseFile overlays the file named by -c/-config, if any.
func parseFile(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	c := &FileConfig{}
	if err := confx.DecodeFile(path, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.UnlockRate, c.UnlockRate)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)

	if c.GateTokenValidity.Duration > 0 {
		config.GateTokenValidity = c.GateTokenValidity.Duration
	}
	if c.PresignExpiry.Duration > 0 {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	for role, h := range c.PinHashes {
		config.setPin(role, h)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) setPin(role, hash string) {
	if c.PinHashes == nil {
		c.PinHashes = map[string]string{}
	}
	c.PinHashes[role] = hash
}
