package cli

import (
	"io"
	"sync"
)

// stderrTailLimit bounds the captured stderr kept for error reports.
const stderrTailLimit = 8 * 1024

// stderrTail keeps the last stderrTailLimit bytes of the process's
// stderr for ProcessError reports, forwarding everything to the
// configured writer.
type stderrTail struct {
	mu      sync.Mutex
	forward io.Writer
	buf     []byte
}

func newStderrTail(forward io.Writer) *stderrTail {
	return &stderrTail{forward: forward}
}

func (s *stderrTail) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.buf = append(s.buf, p...)
	if len(s.buf) > stderrTailLimit {
		s.buf = s.buf[len(s.buf)-stderrTailLimit:]
	}
	s.mu.Unlock()

	if s.forward != nil {
		// A broken forward writer must not stop stderr capture.
		_, _ = s.forward.Write(p)
	}

	return len(p), nil
}

// Tail returns the captured stderr suffix.
func (s *stderrTail) Tail() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return string(s.buf)
}

// wait reaps the process exactly once; concurrent callers share the
// result. Returns nil when the process was never started.
func (t *Transport) wait() error {
	t.mu.Lock()
	done := t.waitDone
	cmd := t.cmd
	t.mu.Unlock()

	if done == nil {
		return nil
	}

	t.waitOnce.Do(func() {
		if cmd != nil {
			t.waitErr = cmd.Wait()
		}
		close(done)
	})
	<-done

	return t.waitErr
}
