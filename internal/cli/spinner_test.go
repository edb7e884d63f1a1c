package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBuildSpinner(t *testing.T) {
	var out syncBuffer
	s := newBuildSpinner(&out, "Expanding...")
	s.Start(context.Background())
	s.OnDirective(context.Background(), "api/foobar", "docs", true, nil)
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	if got := out.String(); !strings.Contains(got, "Expanding... 1 done (api/foobar)") {
		t.Errorf("spinner output %q lacks progress", got)
	}
}

func TestBuildSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newBuildSpinner(&syncBuffer{}, "Expanding...")
	s.Start(ctx)
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	s.Stop()
}

func TestBuildSpinnerStatus(t *testing.T) {
	s := newBuildSpinner(&syncBuffer{}, "Expanding...")
	if got := s.status(); got != "Expanding..." {
		t.Errorf("initial status = %q", got)
	}

	s.OnDirective(context.Background(), "index", "test", true, nil)
	s.OnDirective(context.Background(), "index", "test", false, nil)
	s.OnDirective(context.Background(), "usage", "docs", false, errors.New("no source"))
	if got, want := s.status(), "Expanding... 2 done, 1 failed (usage)"; got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
}
