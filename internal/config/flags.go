package config

import (
	"flag"
	"os"
	"time"

	"github.com/votofacil/votofacil/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p string   backend project id (default from Config)
//	-k string   Identity Toolkit web API key
//	-b string   candidate photo bucket
//	-d string   local cache database path
//	-i int      online check interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-k", "-b", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "backend project id")
	fs.StringVar(&cfg.WebAPIKey, "k", cfg.WebAPIKey, "Identity Toolkit web API key")
	fs.StringVar(&cfg.StorageBucket, "b", cfg.StorageBucket, "candidate photo bucket")
	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "local cache database path")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
