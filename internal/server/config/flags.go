package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/tasknest/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-l int      confirmation/reset link validity, minutes
//	-f string   frontend base URL
//	-mh string  SMTP host
//	-mp int     SMTP port
//	-mu string  SMTP username
//	-mw string  SMTP password
//	-ms string  SMTP sender address
//	-g string   log level
//
// Args are filtered through flagx.FilterArgs first so the -c config flag
// does not trip the parser.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-l", "-f", "-mh", "-mp", "-mu", "-mw", "-ms", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTTL := fs.Int("t", int(config.SessionTokenTTL.Minutes()), "session token validity (in minutes)")
	linkTTL := fs.Int("l", int(config.LinkTokenTTL.Minutes()), "email link token validity (in minutes)")

	fs.StringVar(&config.FrontendURL, "f", config.FrontendURL, "frontend base URL")
	fs.StringVar(&config.SMTPHost, "mh", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "mp", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUsername, "mu", config.SMTPUsername, "SMTP username")
	fs.StringVar(&config.SMTPPassword, "mw", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.SMTPSender, "ms", config.SMTPSender, "SMTP sender")
	fs.StringVar(&config.LogLevel, "g", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Minute granularity would truncate sub-minute values from the file,
	// so durations are only replaced when the flag was given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.SessionTokenTTL = time.Duration(*sessionTTL) * time.Minute
		case "l":
			config.LinkTokenTTL = time.Duration(*linkTTL) * time.Minute
		}
	})
}
