// Package logging configures the shared logrus logger for the CLI.
// The assistant is an interactive tool, so the default level is warn and
// everything goes to stderr; protocol-level debug output is opted into via
// the SHELLPILOT_LOG environment variable.
package logging

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// logLevelEnv selects the logrus level, e.g. SHELLPILOT_LOG=debug.
const logLevelEnv = "SHELLPILOT_LOG"

// SetupBaseLogger initializes the global logrus instance used across the
// application. Safe to call more than once.
func SetupBaseLogger() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(resolveLevel(os.Getenv(logLevelEnv)))
}

func resolveLevel(raw string) log.Level {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return log.WarnLevel
	}
	level, err := log.ParseLevel(raw)
	if err != nil {
		return log.WarnLevel
	}
	return level
}
