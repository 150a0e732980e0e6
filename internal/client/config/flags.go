package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/flagx"
)

// parseFlags overlays command-line flags.
//
//	-a string   server address
//	-data dir   data directory
//	-w int      parallel upload workers
//	-t int      request timeout, seconds
//	-i int      online check interval, seconds
//	-inbox dir  directory watched for new media
//	-author s   author shown on new entries
//	-mode s     Sandbox or Forensic
//	-l string   log level
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-data", "-w", "-t", "-i", "-inbox", "-author", "-mode", "-l"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory")
	fs.IntVar(&cfg.UploadWorkers, "w", cfg.UploadWorkers, "parallel upload workers")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.InboxDir, "inbox", cfg.InboxDir, "inbox directory to watch")
	fs.StringVar(&cfg.Author, "author", cfg.Author, "author name")
	fs.StringVar(&cfg.VaultMode, "mode", cfg.VaultMode, "vault mode (Sandbox or Forensic)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		}
	})
}
