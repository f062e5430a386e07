// Package spinner renders a progress indicator while the completion request
// is in flight. The indicator runs on its own goroutine and is stopped
// cooperatively: Stop closes a channel the redraw loop observes at every
// tick, waits for the loop to finish, and clears the line. Stop is safe to
// call from any exit path, any number of times.
package spinner

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// redrawInterval is the frame cadence.
const redrawInterval = 140 * time.Millisecond

var frames = []string{":", "⁖", "⁘", "⁛", "⁙", "⁛", "⁘", "⁖"}

var frameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

// Spinner is a running progress indicator.
type Spinner struct {
	out      io.Writer
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
	enabled  bool
}

// Start begins rendering on stderr. When stderr is not a terminal the
// spinner is inert: Start and Stop still work but nothing is drawn.
func Start(label string) *Spinner {
	enabled := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return start(os.Stderr, label, enabled)
}

func start(out io.Writer, label string, enabled bool) *Spinner {
	s := &Spinner{
		out:      out,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		enabled:  enabled,
	}
	if !enabled {
		close(s.finished)
		return s
	}
	go s.run(label)
	return s
}

func (s *Spinner) run(label string) {
	defer close(s.finished)
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	index := 0
	for {
		fmt.Fprintf(s.out, "\r%s %s", frameStyle.Render(frames[index]), label)
		index = (index + 1) % len(frames)
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the indicator and clears its line. Idempotent; blocks until the
// redraw goroutine has exited so no frame is drawn after Stop returns.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		<-s.finished
		if s.enabled {
			fmt.Fprint(s.out, "\r\x1b[K")
		}
	})
}
