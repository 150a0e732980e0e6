package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/flagx"
)

// parseFlags overlays command-line flags.
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-d string   PostgreSQL DSN
//	-s string   gate token HMAC secret
//	-t int      gate token validity, minutes
//	-pin r=h    argon2id PIN hash for role r, repeatable
//	-rate s     unlock rate, e.g. "5-M"
//	-u, -p      S3 user and password
//	-b, -g, -e  S3 bucket, region and base endpoint
//	-x int      presigned URL expiry, minutes
//	-l string   log level
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{
		"-a", "-d", "-s", "-t", "-pin", "-rate", "-u", "-p", "-b", "-g", "-e", "-x", "-l",
	})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "gate token secret key")
	tokenMinutes := fs.Int("t", int(config.GateTokenValidity.Minutes()), "gate token validity (in minutes)")
	fs.Func("pin", "role=argon2id-hash, repeatable", func(v string) error {
		role, hash, ok := strings.Cut(v, "=")
		if !ok || role == "" || hash == "" {
			return fmt.Errorf("want role=hash, got %q", v)
		}
		config.setPin(strings.ToLower(role), hash)
		return nil
	})
	fs.StringVar(&config.UnlockRate, "rate", config.UnlockRate, "unlock attempts rate")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	presignMinutes := fs.Int("x", int(config.PresignExpiry.Minutes()), "presigned URL expiry (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// minute flags only override when given, so file and env values keep
	// their sub-minute precision
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.GateTokenValidity = time.Duration(*tokenMinutes) * time.Minute
		case "x":
			config.PresignExpiry = time.Duration(*presignMinutes) * time.Minute
		}
	})
}
