// Package render prints decoded proposals for user review.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/router-for-me/shellpilot/internal/proposal"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	detailStyle  = lipgloss.NewStyle().Faint(true)
)

// Proposal prints the proposal to stdout.
func Proposal(p *proposal.Proposal) {
	writeProposal(os.Stdout, p)
}

func writeProposal(w io.Writer, p *proposal.Proposal) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("command:"), commandStyle.Render(p.Command))
	if p.Explanation != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("reason:"), detailStyle.Render(p.Explanation))
	}
	if p.Summary != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("summary:"), detailStyle.Render(p.Summary))
	}
	fmt.Fprintln(w)
}
