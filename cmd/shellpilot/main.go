// Package main provides the entry point for the shellpilot CLI, a terminal
// assistant that turns a natural-language task description into a single
// shell command, proposes it, and executes it on approval.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/router-for-me/shellpilot/internal/buildinfo"
	"github.com/router-for-me/shellpilot/internal/cmd"
	"github.com/router-for-me/shellpilot/internal/logging"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

func main() {
	// A local .env can supply SHELLPILOT_LOG and similar knobs.
	_ = godotenv.Load()
	os.Exit(cmd.Execute())
}
