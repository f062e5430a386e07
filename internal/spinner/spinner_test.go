package spinner

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// syncWriter lets the test read what the spinner goroutine wrote.
type syncWriter struct {
	mu sync.Mutex
	sb strings.Builder
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sb.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sb.String()
}

func TestSpinner_DrawsAndClears(t *testing.T) {
	out := &syncWriter{}
	s := start(out, "working", true)
	time.Sleep(2 * redrawInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "working") {
		t.Errorf("output %q missing label", got)
	}
	if !strings.HasSuffix(got, "\r\x1b[K") {
		t.Errorf("output %q does not end with a line clear", got)
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	out := &syncWriter{}
	s := start(out, "working", true)
	s.Stop()
	before := out.String()
	s.Stop()
	s.Stop()
	if after := out.String(); after != before {
		t.Errorf("repeated Stop() wrote more output: %q -> %q", before, after)
	}
}

func TestSpinner_DisabledWritesNothing(t *testing.T) {
	out := &syncWriter{}
	s := start(out, "working", false)
	time.Sleep(redrawInterval)
	s.Stop()
	if got := out.String(); got != "" {
		t.Errorf("disabled spinner wrote %q, want nothing", got)
	}
}
