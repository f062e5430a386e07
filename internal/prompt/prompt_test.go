package prompt

import (
	"strings"
	"testing"
)

func TestBuildMessages(t *testing.T) {
	messages := BuildMessages("find large files", "current working directory: /srv")
	if len(messages) != 2 {
		t.Fatalf("BuildMessages() returned %d messages, want 2", len(messages))
	}
	if messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "ONLY a JSON object") {
		t.Error("system message missing the JSON-only contract")
	}
	if messages[1].Role != "user" {
		t.Errorf("second message role = %q, want user", messages[1].Role)
	}
	if !strings.Contains(messages[1].Content, "Task: find large files") {
		t.Errorf("user message = %q, missing task", messages[1].Content)
	}
	if !strings.Contains(messages[1].Content, "current working directory: /srv") {
		t.Errorf("user message = %q, missing context", messages[1].Content)
	}
}

func TestGatherContext(t *testing.T) {
	ctx := GatherContext()
	if !strings.HasPrefix(ctx, "current working directory: ") {
		t.Errorf("GatherContext() = %q, want working directory line", ctx)
	}
}
