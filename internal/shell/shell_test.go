package shell

import (
	"runtime"
	"testing"
)

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	tests := []struct {
		name     string
		command  string
		wantCode int
		wantErr  bool
	}{
		{name: "success", command: "true", wantCode: 0},
		{name: "nonzero exit", command: "exit 3", wantCode: 3, wantErr: true},
		{name: "failing pipeline", command: "false", wantCode: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Run(tt.command)
			if code != tt.wantCode {
				t.Errorf("Run(%q) code = %d, want %d", tt.command, code, tt.wantCode)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("Run(%q) err = %v, wantErr %v", tt.command, err, tt.wantErr)
			}
		})
	}
}
