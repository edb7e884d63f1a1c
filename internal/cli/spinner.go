package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/extrasrequire/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// buildSpinner animates a status line while a build runs. It implements
// observability.DirectiveHooks so the line shows how many directives have
// been expanded and which document is being read.
type buildSpinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu       sync.Mutex
	doc      string
	expanded int
	failed   int
	width    int // widest line written, for clearing
}

var _ observability.DirectiveHooks = (*buildSpinner)(nil)

func newBuildSpinner(w io.Writer, message string) *buildSpinner {
	return &buildSpinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start animates until Stop is called or ctx is done.
func (s *buildSpinner) Start(ctx context.Context) {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *buildSpinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}

// status returns the text shown after the spinner frame.
func (s *buildSpinner) status() string {
	text := s.message
	if s.expanded > 0 || s.failed > 0 {
		text += fmt.Sprintf(" %d done", s.expanded)
		if s.failed > 0 {
			text += fmt.Sprintf(", %d failed", s.failed)
		}
	}
	if s.doc != "" {
		text += " (" + s.doc + ")"
	}
	return text
}

func (s *buildSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.status()
	if n := len(text) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

func (s *buildSpinner) OnResolve(context.Context, string, string, int, time.Duration, error) {}

func (s *buildSpinner) OnDirective(_ context.Context, docname, _ string, _ bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = docname
	if err != nil {
		s.failed++
		return
	}
	s.expanded++
}
