// Package copilot is the chat-completions client for the GitHub Copilot API.
package copilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/router-for-me/shellpilot/internal/config"
	"github.com/router-for-me/shellpilot/internal/prompt"
	"github.com/router-for-me/shellpilot/internal/proposal"
)

const (
	// copilotEndpoint is the base URL for the GitHub Copilot API.
	copilotEndpoint = "https://api.githubcopilot.com"

	userAgent           = "GitHubCopilotChat/0.26.7"
	editorVersion       = "vscode/1.99.3"
	editorPluginVersion = "copilot-chat/0.26.7"
)

// Client requests command proposals from the Copilot completion endpoint.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
	endpoint   string
}

// NewClient creates a completion client using the given configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		endpoint:   copilotEndpoint,
	}
}

type completionPayload struct {
	Model       string           `json:"model"`
	Messages    []prompt.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
	Stream      bool             `json:"stream"`
}

// RequestCommand sends one streaming completion request and decodes the
// response into a proposal. The response is buffered to the end of the stream
// before decoding; the system never acts on a partial proposal. A nil
// proposal with a nil error means the model produced no usable command,
// which the caller reports rather than retries. The caller bounds the whole
// call through ctx.
func (c *Client) RequestCommand(ctx context.Context, token string, messages []prompt.Message) (*proposal.Proposal, error) {
	payload, err := json.Marshal(completionPayload{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Editor-Version", editorVersion)
	req.Header.Set("Editor-Plugin-Version", editorPluginVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("copilot client: close response body error: %v", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read completion stream: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// A rejected request is reported once and degrades to "no
		// proposal"; the orchestrator exits without executing anything.
		log.Errorf("completion request failed: %d %s", resp.StatusCode, string(bytes.TrimSpace(body)))
		return nil, nil
	}

	if p, ok := proposal.DecodeStream(body); ok {
		return p, nil
	}
	return nil, nil
}
