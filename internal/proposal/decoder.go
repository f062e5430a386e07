// Package proposal reconstructs a structured command proposal from a
// buffered event-stream completion response. The stream arrives as
// "data: "-framed JSON fragments carrying incremental text deltas; the
// accumulated text is expected to be one JSON object, possibly truncated by
// the completion token limit or wrapped in stray model chatter. Every failure
// degrades to "no proposal" rather than an error.
package proposal

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	// deltaPath locates the incremental text inside one stream fragment.
	deltaPath = "choices.0.delta.content"
)

// Proposal is a decoded command proposal. Immutable after construction.
type Proposal struct {
	// Command is the shell command to run; always non-empty after trimming.
	Command string
	// Explanation describes what the command does. Optional.
	Explanation string
	// Summary is present only for multi-step or surprising commands. Optional.
	Summary string
}

// DecodeStream decodes a fully-buffered event stream into a Proposal. The
// second return is false when no well-formed proposal could be recovered,
// which is a normal outcome (the model may decline to produce a command).
func DecodeStream(buf []byte) (*Proposal, bool) {
	text := accumulate(buf)
	if text == "" {
		return nil, false
	}
	return Extract(text)
}

// accumulate walks the buffered stream line by line, strips the event-data
// prefix, and concatenates the text deltas of every parseable fragment.
// Non-data lines, the end-of-stream sentinel, and malformed fragments are
// skipped; providers interleave keep-alives and occasional garbage and none
// of that should abort the decode.
func accumulate(buf []byte) string {
	var sb strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	scanner.Buffer(nil, 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.HasPrefix(line, []byte(dataPrefix)) {
			continue
		}
		payload := bytes.TrimPrefix(line, []byte(dataPrefix))
		if string(payload) == doneSentinel {
			continue
		}
		if len(bytes.TrimSpace(payload)) == 0 {
			continue
		}
		if !gjson.ValidBytes(payload) {
			continue
		}
		if delta := gjson.GetBytes(payload, deltaPath); delta.Type == gjson.String {
			sb.WriteString(delta.String())
		}
	}
	return sb.String()
}

// Extract recovers a Proposal from accumulated completion text.
func Extract(text string) (*Proposal, bool) {
	raw, ok := recoverObject(text)
	if !ok {
		return nil, false
	}

	command := strings.TrimSpace(gjson.Get(raw, "command").String())
	if command == "" {
		return nil, false
	}
	return &Proposal{
		Command:     command,
		Explanation: strings.TrimSpace(gjson.Get(raw, "explanation").String()),
		Summary:     strings.TrimSpace(gjson.Get(raw, "summary").String()),
	}, true
}

// recoverObject finds parseable JSON in the text using a three-tier
// fallback: the whole trimmed text, the text with a single closing brace
// appended (a max_tokens cutoff usually loses exactly the final brace), and
// finally the substring between the first '{' and the last '}' (stray
// leading or trailing prose).
func recoverObject(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if gjson.Valid(trimmed) {
		return trimmed, true
	}

	if repaired := trimmed + "}"; gjson.Valid(repaired) {
		return repaired, true
	}

	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start >= 0 && end > start {
		if window := trimmed[start : end+1]; gjson.Valid(window) {
			return window, true
		}
	}
	return "", false
}
