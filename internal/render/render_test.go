package render

import (
	"strings"
	"testing"

	"github.com/router-for-me/shellpilot/internal/proposal"
)

func TestWriteProposal(t *testing.T) {
	tests := []struct {
		name     string
		p        proposal.Proposal
		contains []string
		omits    []string
	}{
		{
			name:     "command only",
			p:        proposal.Proposal{Command: "pwd"},
			contains: []string{"command:", "pwd"},
			omits:    []string{"reason:", "summary:"},
		},
		{
			name: "full proposal",
			p: proposal.Proposal{
				Command:     "git gc",
				Explanation: "repack the repository",
				Summary:     "may take a while",
			},
			contains: []string{"command:", "git gc", "reason:", "repack the repository", "summary:", "may take a while"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			writeProposal(&sb, &tt.p)
			out := sb.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
			for _, banned := range tt.omits {
				if strings.Contains(out, banned) {
					t.Errorf("output %q unexpectedly contains %q", out, banned)
				}
			}
		})
	}
}
