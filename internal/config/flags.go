package config

import (
	"flag"
	"os"
	"time"

	"github.com/crewdesk/crewdesk-go/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the CrewDesk API (default from Config)
//	-d string   path of the local storage database
//	-r int      refresh timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the CrewDesk API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local storage database")
	refreshTimeout := fs.Int("r", int(cfg.RefreshTimeout.Seconds()), "refresh timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RefreshTimeout = time.Duration(*refreshTimeout) * time.Second
}
