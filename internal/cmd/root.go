// Package cmd wires the CLI surface: the root run command plus login and
// version subcommands. The root command drives the whole flow: ensure a
// valid token, build the prompt, request a completion, decode the proposal,
// confirm, execute.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	copilotauth "github.com/router-for-me/shellpilot/internal/auth/copilot"
	"github.com/router-for-me/shellpilot/internal/auth/store"
	"github.com/router-for-me/shellpilot/internal/config"
	"github.com/router-for-me/shellpilot/internal/copilot"
	"github.com/router-for-me/shellpilot/internal/prompt"
	"github.com/router-for-me/shellpilot/internal/render"
	"github.com/router-for-me/shellpilot/internal/shell"
	"github.com/router-for-me/shellpilot/internal/spinner"
)

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitf(code int, format string, args ...any) *exitError {
	return &exitError{code: code, msg: fmt.Sprintf(format, args...)}
}

var rootCmd = &cobra.Command{
	Use:   "shellpilot <task description>",
	Short: "Turn a task description into a shell command",
	Long: "shellpilot asks GitHub Copilot to plan a single shell command for the given\n" +
		"task, shows the proposal, and executes it on approval.",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, versionCmd)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(os.Stderr, ee.msg)
		}
		return ee.code
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func runTask(ctx context.Context, args []string) error {
	task := strings.TrimSpace(strings.Join(args, " "))
	if task == "" {
		return exitf(1, "Usage: shellpilot <task description>")
	}

	cfg, err := config.Load()
	if err != nil {
		return exitf(1, "Failed to load configuration: %v", err)
	}

	st := store.NewFileStore()
	auth := copilotauth.NewAuthenticator(st)

	token, reason := auth.Access(ctx)
	if reason != copilotauth.ReasonNone {
		fmt.Println("No valid Copilot token found. Initiating login...")
		if err = runLogin(ctx, auth); err != nil {
			return exitf(1, "Login failed: %v", err)
		}
		token, reason = auth.Access(ctx)
		if reason != copilotauth.ReasonNone {
			return exitf(1, "Login completed but no usable Copilot token was issued.")
		}
	}

	sp := spinner.Start("Planning command…")
	defer sp.Stop()

	reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
	defer cancel()

	client := copilot.NewClient(cfg)
	messages := prompt.BuildMessages(task, prompt.GatherContext())
	prop, err := client.RequestCommand(reqCtx, token, messages)
	sp.Stop()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return exitf(1, "API request timed out.")
		}
		return exitf(1, "Failed to query API: %v", err)
	}
	if prop == nil {
		return exitf(1, "No command proposal returned. Please try rephrasing the request.")
	}

	render.Proposal(prop)

	if !requestApproval() {
		fmt.Println("Command execution cancelled.")
		return nil
	}

	code, err := shell.Run(prop.Command)
	if err != nil {
		return exitf(code, "Command execution failed: %v", err)
	}
	return nil
}

// requestApproval asks for a y/N confirmation on the terminal. Anything that
// does not start with y declines.
func requestApproval() bool {
	fmt.Print("  -> Execute this command? (y/N): ")
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y")
}
