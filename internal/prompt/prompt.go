// Package prompt builds the message list for a command-planning request.
package prompt

import (
	"fmt"
	"os"
)

// systemPrompt pins the model to a JSON-only contract: one object with
// command/explanation/summary fields and nothing else, so the streaming
// decoder has a fighting chance even when the response is truncated.
const systemPrompt = `You are a terminal command planner. Given a user request and project context, respond with ONLY a JSON object containing fields: "command", "explanation", and optionally "summary". Do not include any other text, explanations, or formatting. The "command" must be a single shell command. Example: {"command": "ls", "explanation": "Lists files in the current directory"}. Return "summary" only when the command involves multiple steps, non-trivial options, or could surprise the user; otherwise omit it. You must always propose a best-effort command even if information is missing—do not ask follow-up questions. If critical context is unavailable, make a reasonable assumption and mention it in "explanation". You cannot execute additional tools yourself; suggest only the command a user should run. If a safe command truly cannot be produced, return JSON with an empty "command" and a short explanation.`

// Message is one chat message in the completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildMessages assembles the system and user messages for a task.
func BuildMessages(task, context string) []Message {
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Task: %s\n\nContext:\n%s", task, context)},
	}
}

// GatherContext collects the environment context included with every task.
// Currently just the working directory.
func GatherContext() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	return fmt.Sprintf("current working directory: %s", cwd)
}
