// Package logging builds the log/slog loggers used across mockwire.
//
// Components take a *slog.Logger in their constructor or through an option
// and fall back to Nop when none is given:
//
//	log := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	log.Info("listening", "addr", "127.0.0.1:4280")
//
// Text output suits local test runs; JSON output suits CI log collection.
// MultiHandler fans records out to several handlers, which the CLI uses to
// mirror logs into a file.
package logging
