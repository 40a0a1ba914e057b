package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmkoval/metools/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., "127.0.0.1:8000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-w int      verify token validity, hours
//	-i int      sweep interval, seconds
//	-u string   public service URL used in verification links
//	-m bool     run migrations at startup
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-w", "-i", "-u", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.ServiceURL, "u", config.ServiceURL, "public service URL")
	fs.BoolVar(&config.AutoMigrate, "m", config.AutoMigrate, "run migrations at startup")

	sessionTokenValidity := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session_token_validity_duration (in minutes)")
	verifyTokenValidity := fs.Int("w", int(config.VerifyTokenValidityDuration.Hours()), "verify_token_validity_duration (in hours)")
	sweepInterval := fs.Int("i", int(config.SweepInterval.Seconds()), "sweep_interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidity) * time.Minute
	config.VerifyTokenValidityDuration = time.Duration(*verifyTokenValidity) * time.Hour
	config.SweepInterval = time.Duration(*sweepInterval) * time.Second
}
