package copilot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/router-for-me/shellpilot/internal/auth/store"
)

// NoTokenReason explains why Access produced no usable token. Callers other
// than tests should only care whether the reason is ReasonNone: every other
// value means "(re)authenticate", regardless of cause.
type NoTokenReason int

const (
	// ReasonNone means a usable token was returned.
	ReasonNone NoTokenReason = iota
	// ReasonUnauthenticated means no oauth record or no refresh credential
	// is stored for the provider.
	ReasonUnauthenticated
	// ReasonExpired means the provider rejected the refresh credential or
	// the exchange request; the credential is expired or revoked.
	ReasonExpired
	// ReasonTransportFailure means a network-level failure prevented
	// validation or exchange.
	ReasonTransportFailure
	// ReasonProtocolMismatch means the provider answered with an unexpected
	// shape.
	ReasonProtocolMismatch
)

func (r NoTokenReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonExpired:
		return "expired"
	case ReasonTransportFailure:
		return "transport failure"
	case ReasonProtocolMismatch:
		return "protocol mismatch"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// copilotTokenResponse is the downstream token endpoint's payload. ExpiresAt
// is in seconds since epoch; the store keeps milliseconds.
type copilotTokenResponse struct {
	Token     string          `json:"token"`
	ExpiresAt int64           `json:"expires_at"`
	RefreshIn int64           `json:"refresh_in"`
	Endpoints json.RawMessage `json:"endpoints"`
}

// Access produces a Copilot API token, or explains why it cannot.
//
// The lookup is a three-tier cache: stored record, remote validation of the
// refresh credential, then either the unexpired cached access token (no
// network) or a fresh exchange. Every failure mode collapses to "no token"
// rather than an error because an expired, revoked, or never-issued
// credential is an expected operational state — the caller's answer is always
// the same: run the device flow again.
func (a *Authenticator) Access(ctx context.Context) (string, NoTokenReason) {
	record, ok := a.store.Load(Provider)
	if !ok || record.Kind != store.KindOAuth {
		return "", ReasonUnauthenticated
	}
	if record.Refresh == "" {
		// Should not happen for an oauth record, but an empty refresh can
		// only mean re-login.
		return "", ReasonUnauthenticated
	}

	if reason := a.validate(ctx, record.Refresh); reason != ReasonNone {
		log.Debugf("copilot auth: refresh credential validation failed: %s", reason)
		return "", reason
	}

	// Fast path: cached access token still strictly ahead of now.
	if record.Access != "" && record.Expires > a.now().UnixMilli() {
		return record.Access, ReasonNone
	}

	return a.exchange(ctx, record)
}

// validate makes one lightweight authenticated request against the identity
// provider. Any failure, transport or status, invalidates the credential.
func (a *Authenticator) validate(ctx context.Context, refresh string) NoTokenReason {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userURL, nil)
	if err != nil {
		return ReasonTransportFailure
	}
	req.Header.Set("Authorization", "Bearer "+refresh)
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return ReasonTransportFailure
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ReasonExpired
	}
	return ReasonNone
}

// exchange trades the refresh credential for a new Copilot API token and
// persists it, preserving the refresh credential and converting the
// provider's seconds-since-epoch expiry to the store's milliseconds.
func (a *Authenticator) exchange(ctx context.Context, record *store.Record) (string, NoTokenReason) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.copilotTokenURL, nil)
	if err != nil {
		return "", ReasonTransportFailure
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+record.Refresh)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Editor-Version", editorVersion)
	req.Header.Set("Editor-Plugin-Version", editorPluginVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", ReasonTransportFailure
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("copilot auth: close response body error: %v", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ReasonTransportFailure
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debugf("copilot auth: token exchange status %d: %s", resp.StatusCode, string(body))
		return "", ReasonExpired
	}

	var tokenResp copilotTokenResponse
	if err = json.Unmarshal(body, &tokenResp); err != nil || tokenResp.Token == "" {
		return "", ReasonProtocolMismatch
	}

	updated := &store.Record{
		Kind:    store.KindOAuth,
		Refresh: record.Refresh,
		Access:  tokenResp.Token,
		Expires: tokenResp.ExpiresAt * 1000,
	}
	if err = a.store.Save(Provider, updated); err != nil {
		// The token is usable this invocation even if it could not be
		// cached; the next run will just exchange again.
		log.Warnf("copilot auth: failed to persist access token: %v", err)
	}
	return tokenResp.Token, ReasonNone
}
