package config

import (
	"flag"
	"os"

	"github.com/hopitalsej/sejour/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   server base URL (e.g., "http://127.0.0.1:8080")
//	-f string   local session store file
//	-r          remember the entered credentials locally
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-f", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "e", config.ServerEndpointAddr, "server base URL")
	fs.StringVar(&config.DatabaseDSN, "f", config.DatabaseDSN, "local session store file")
	fs.BoolVar(&config.RememberMe, "r", config.RememberMe, "remember entered credentials")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
