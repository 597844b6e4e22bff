package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token/pepper secret key
//	-t int      session token validity, minutes
//	-r int      reset token validity, minutes
//	-m string   mailer mode ("smtp" or "log")
//	-l string   reset-link base URL
//	-p string   pomodoro (second backend) base URL
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-m", "-l", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTokenValidityDuration := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session_token_validity_duration (in minutes)")
	resetTokenValidityDuration := fs.Int("r", int(config.ResetTokenValidityDuration.Minutes()), "reset_token_validity_duration (in minutes)")

	fs.StringVar(&config.MailerMode, "m", config.MailerMode, "mailer mode: smtp or log")
	fs.StringVar(&config.ResetLinkBaseURL, "l", config.ResetLinkBaseURL, "password reset link base URL")
	fs.StringVar(&config.PomodoroBaseURL, "p", config.PomodoroBaseURL, "pomodoro backend base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidityDuration) * time.Minute
	config.ResetTokenValidityDuration = time.Duration(*resetTokenValidityDuration) * time.Minute
}
