// Package copilot implements authentication for GitHub Copilot: the OAuth
// device authorization grant against github.com and the exchange of the
// resulting long-lived OAuth token for short-lived Copilot API tokens.
package copilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/router-for-me/shellpilot/internal/auth/store"
)

const (
	// GitHub device flow endpoints.
	deviceCodeEndpoint  = "https://github.com/login/device/code"
	accessTokenEndpoint = "https://github.com/login/oauth/access_token"
	// userEndpoint validates a stored OAuth token with one cheap request.
	userEndpoint = "https://api.github.com/user"
	// copilotTokenEndpoint exchanges the OAuth token for a Copilot API token.
	copilotTokenEndpoint = "https://api.github.com/copilot_internal/v2/token"

	// clientID is the Copilot chat client identifier.
	clientID = "Iv1.b507a08c87ecfe98"
	scope    = "read:user"

	grantType = "urn:ietf:params:oauth:grant-type:device_code"

	userAgent           = "GitHubCopilotChat/0.26.7"
	editorVersion       = "vscode/1.99.3"
	editorPluginVersion = "copilot-chat/0.26.7"

	// Provider is the credential store key for this provider.
	Provider = "github-copilot"

	// maxPollInterval caps slow-down growth of the polling interval.
	maxPollInterval = 60
)

// Authenticator manages the Copilot credential lifecycle against a Store.
type Authenticator struct {
	httpClient *http.Client
	store      store.Store

	// Endpoint fields default to the production URLs; tests point them at
	// local servers.
	deviceCodeURL   string
	accessTokenURL  string
	userURL         string
	copilotTokenURL string

	now func() time.Time
}

// NewAuthenticator creates an Authenticator backed by the given store.
func NewAuthenticator(st store.Store) *Authenticator {
	return &Authenticator{
		httpClient:      &http.Client{},
		store:           st,
		deviceCodeURL:   deviceCodeEndpoint,
		accessTokenURL:  accessTokenEndpoint,
		userURL:         userEndpoint,
		copilotTokenURL: copilotTokenEndpoint,
		now:             time.Now,
	}
}

// DeviceFlow is one device authorization session. It is created by Authorize,
// consumed by repeated Poll calls, and discarded on any terminal outcome.
type DeviceFlow struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`

	started time.Time
}

// Expired reports whether the provider-supplied session lifetime has elapsed.
// The provider would eventually reject the device code anyway; checking
// locally just fails faster.
func (f *DeviceFlow) Expired(now time.Time) bool {
	if f.ExpiresIn <= 0 {
		return false
	}
	return now.After(f.started.Add(time.Duration(f.ExpiresIn) * time.Second))
}

// SlowDown raises the polling interval after a slow_down response: at least
// double the current value, capped at maxPollInterval seconds.
func (f *DeviceFlow) SlowDown() {
	next := f.Interval * 2
	if f.Interval < 1 {
		next = 2
	}
	if next > maxPollInterval {
		next = maxPollInterval
	}
	f.Interval = next
}

// PollStatus classifies one poll attempt.
type PollStatus int

const (
	// PollPending means authorization has not been granted yet; wait the
	// session interval and poll again.
	PollPending PollStatus = iota
	// PollSlowDown means the provider wants a longer interval. Not terminal.
	PollSlowDown
	// PollComplete means a token was issued and persisted.
	PollComplete
	// PollFailed is terminal; Reason carries the provider's error verbatim.
	PollFailed
)

// PollResult is the outcome of one Poll call.
type PollResult struct {
	Status PollStatus
	Reason string
}

type accessTokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Authorize starts the device authorization flow with one request to the
// device-code endpoint. Network and malformed-response failures are fatal to
// the login attempt and surfaced to the caller; there is no retry.
func (a *Authenticator) Authorize(ctx context.Context) (*DeviceFlow, error) {
	body, err := a.postJSON(ctx, a.deviceCodeURL, map[string]string{
		"client_id": clientID,
		"scope":     scope,
	})
	if err != nil {
		return nil, fmt.Errorf("device authorization request failed: %w", err)
	}

	var flow DeviceFlow
	if err = json.Unmarshal(body, &flow); err != nil {
		return nil, fmt.Errorf("failed to parse device flow response: %w", err)
	}
	if flow.DeviceCode == "" {
		return nil, fmt.Errorf("device authorization failed: device_code not found in response")
	}
	if flow.Interval < 1 {
		flow.Interval = 5
	}
	flow.started = a.now()
	return &flow, nil
}

// Poll makes one token request with the device code and classifies the
// response. On success the long-lived OAuth token is persisted (kind oauth,
// refresh set, access/expires cleared) before Poll returns. Poll never
// retries internally; the login loop owns the sleep between attempts.
func (a *Authenticator) Poll(ctx context.Context, deviceCode string) (PollResult, error) {
	body, err := a.postJSON(ctx, a.accessTokenURL, map[string]string{
		"client_id":   clientID,
		"device_code": deviceCode,
		"grant_type":  grantType,
	})
	if err != nil {
		return PollResult{}, fmt.Errorf("token poll request failed: %w", err)
	}

	var resp accessTokenResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return PollResult{}, fmt.Errorf("failed to parse token response: %w", err)
	}

	if resp.AccessToken != "" {
		record := &store.Record{
			Kind:    store.KindOAuth,
			Refresh: resp.AccessToken,
		}
		if err = a.store.Save(Provider, record); err != nil {
			return PollResult{}, fmt.Errorf("failed to persist oauth token: %w", err)
		}
		return PollResult{Status: PollComplete}, nil
	}

	switch resp.Error {
	case "authorization_pending":
		return PollResult{Status: PollPending}, nil
	case "slow_down":
		return PollResult{Status: PollSlowDown}, nil
	case "":
		return PollResult{Status: PollFailed, Reason: "unknown error"}, nil
	default:
		return PollResult{Status: PollFailed, Reason: resp.Error}, nil
	}
}

// postJSON sends one JSON POST with the Copilot client headers and returns
// the response body for 2xx statuses.
func (a *Authenticator) postJSON(ctx context.Context, url string, payload map[string]string) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("copilot auth: close response body error: %v", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
