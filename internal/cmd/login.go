package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	copilotauth "github.com/router-for-me/shellpilot/internal/auth/copilot"
	"github.com/router-for-me/shellpilot/internal/auth/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with GitHub Copilot via the device flow",
	Long: "Starts the GitHub device authorization flow, even when a valid token is\n" +
		"already stored. The issued credential replaces the current one.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		auth := copilotauth.NewAuthenticator(store.NewFileStore())
		if err := runLogin(cmd.Context(), auth); err != nil {
			return exitf(1, "Login failed: %v", err)
		}
		return nil
	},
}

// runLogin drives one device authorization session to a terminal outcome.
// The provider controls the polling interval; slow-down responses at least
// double it, and the session's own expiry bounds the loop.
func runLogin(ctx context.Context, auth *copilotauth.Authenticator) error {
	flow, err := auth.Authorize(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Please visit %s and enter code: %s\n", flow.VerificationURI, flow.UserCode)
	if err = browser.OpenURL(flow.VerificationURI); err != nil {
		log.Debugf("login: could not open browser: %v", err)
	}

	for {
		if flow.Expired(time.Now()) {
			return errors.New("device code expired before authorization completed")
		}

		result, err := auth.Poll(ctx, flow.DeviceCode)
		if err != nil {
			return err
		}
		switch result.Status {
		case copilotauth.PollComplete:
			fmt.Println("Login successful!")
			return nil
		case copilotauth.PollFailed:
			return errors.New(result.Reason)
		case copilotauth.PollSlowDown:
			flow.SlowDown()
		case copilotauth.PollPending:
			// keep waiting
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(flow.Interval) * time.Second):
		}
	}
}
