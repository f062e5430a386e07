package proposal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sse frames each payload the way the completion endpoint does.
func sse(payloads ...string) []byte {
	var sb strings.Builder
	for _, p := range payloads {
		sb.WriteString("data: ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

func delta(content string) string {
	return `{"choices":[{"delta":{"content":` + quote(content) + `}}]}`
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func TestDecodeStream_AccumulatesDeltas(t *testing.T) {
	buf := sse(
		delta(`{"command": `),
		delta(`"ls -la", `),
		delta(`"explanation": "list files"}`),
		"[DONE]",
	)
	p, ok := DecodeStream(buf)
	require.True(t, ok)
	assert.Equal(t, "ls -la", p.Command)
	assert.Equal(t, "list files", p.Explanation)
	assert.Empty(t, p.Summary)
}

func TestDecodeStream_SkipsMalformedFragments(t *testing.T) {
	lines := []string{
		"data: not json keep-alive",
		"data: " + delta(`{"command": "pwd"`),
		": comment line",
		"",
		"data: {\"choices\":[]}",
		"data: " + delta(`}`),
		"data: [DONE]",
	}
	p, ok := DecodeStream([]byte(strings.Join(lines, "\n")))
	require.True(t, ok)
	assert.Equal(t, "pwd", p.Command)
}

func TestDecodeStream_NoDeltas(t *testing.T) {
	_, ok := DecodeStream(sse(`{"choices":[{"delta":{}}]}`, "[DONE]"))
	assert.False(t, ok)

	_, ok = DecodeStream(nil)
	assert.False(t, ok)
}

func TestExtract_TruncationRecovery(t *testing.T) {
	// max_tokens cutoffs drop the closing brace.
	p, ok := Extract(`{"command": "ls -la", "explanation": "list files"`)
	require.True(t, ok)
	assert.Equal(t, "ls -la", p.Command)
	assert.Equal(t, "list files", p.Explanation)
}

func TestExtract_NoiseTolerance(t *testing.T) {
	text := "Sure, here is the command you asked for:\n" +
		`{"command": "pwd"}` + "\ntrailing garbage after"
	p, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "pwd", p.Command)
}

func TestExtract_EmptyCommandRejected(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "whitespace command", text: `{"command": "   "}`},
		{name: "missing command", text: `{"explanation": "nothing to do"}`},
		{name: "empty command", text: `{"command": ""}`},
		{name: "non-object", text: `42`},
		{name: "unrecoverable garbage", text: `%%% not even close %%%`},
		{name: "empty text", text: "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Extract(tt.text)
			assert.False(t, ok, "Extract(%q) = %+v", tt.text, p)
		})
	}
}

func TestExtract_FullProposal(t *testing.T) {
	p, ok := Extract(`{"command": " git gc --aggressive ", "explanation": " repack ", "summary": " slow on big repos "}`)
	require.True(t, ok)
	assert.Equal(t, "git gc --aggressive", p.Command)
	assert.Equal(t, "repack", p.Explanation)
	assert.Equal(t, "slow on big repos", p.Summary)
}
