// Package cli implements the subprocess transport: it spawns the sage
// CLI with stream-json stdio and speaks the wire protocol over its
// pipes.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

const defaultMaxBufferSize = 1024 * 1024 // 1MB per JSON message

// Transport runs the sage CLI as a child process. A nil prompt selects
// streaming mode (bidirectional stdin/stdout); a non-nil prompt selects
// one-shot mode where the prompt travels on the command line.
type Transport struct {
	opts          *options.Options
	prompt        *string
	logger        *slog.Logger
	maxBufferSize int

	mu     sync.Mutex
	ready  bool
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr *stderrTail

	waitOnce sync.Once
	waitDone chan struct{}
	waitErr  error
}

var _ ports.Transport = (*Transport)(nil)

// New creates a disconnected CLI transport.
func New(opts *options.Options, prompt *string) *Transport {
	if opts == nil {
		opts = &options.Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBuf := opts.MaxBufferSize
	if maxBuf <= 0 {
		maxBuf = defaultMaxBufferSize
	}

	return &Transport{
		opts:          opts,
		prompt:        prompt,
		logger:        logger,
		maxBufferSize: maxBuf,
	}
}

// Connect discovers the sage binary, builds the command line and starts
// the process. The process lifetime is bound to the transport, not to
// ctx: Disconnect ends it.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ready {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cliPath, err := findCLI(t.opts.CLIPath)
	if err != nil {
		return err
	}

	args, err := buildArgs(t.opts, t.prompt)
	if err != nil {
		return err
	}

	cmd := exec.Command(cliPath, args...)
	cmd.Env = buildEnv(t.opts, t.prompt == nil)
	if t.opts.Cwd != "" {
		cmd.Dir = t.opts.Cwd
	}

	stderr := newStderrTail(t.opts.Stderr)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return sagerrs.NewProcessError(sagerrs.ErrCodeSpawnFailed, "stdin pipe", err, -1, "")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return sagerrs.NewProcessError(sagerrs.ErrCodeSpawnFailed, "stdout pipe", err, -1, "")
	}

	if err := cmd.Start(); err != nil {
		return sagerrs.NewProcessError(sagerrs.ErrCodeSpawnFailed, "failed to start sage CLI", err, -1, "")
	}
	t.logger.Debug("sage CLI started", "path", cliPath, "pid", cmd.Process.Pid)

	// One-shot mode takes no input; let the CLI see EOF immediately.
	if t.prompt != nil {
		_ = stdin.Close()
		stdin = nil
	}

	t.cmd = cmd
	t.stdin = stdin
	t.stdout = stdout
	t.stderr = stderr
	t.waitDone = make(chan struct{})
	t.ready = true

	return nil
}

// Disconnect ends the process and reaps it. Safe to call repeatedly.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	if !t.ready {
		t.mu.Unlock()

		return nil
	}
	t.ready = false
	stdin := t.stdin
	t.stdin = nil
	cmd := t.cmd
	t.mu.Unlock()

	if stdin != nil {
		_ = stdin.Close()
	}
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = t.wait()

	return nil
}

// Connected reports whether the process is started and not yet
// disconnected.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.ready
}

// buildEnv extends the inherited environment with the configured
// variables and the SDK entrypoint tag.
func buildEnv(opts *options.Options, streaming bool) []string {
	env := os.Environ()
	for k, v := range opts.Env {
		env = append(env, k+"="+v)
	}
	tag := "sdk-go"
	if streaming {
		tag = "sdk-go-client"
	}

	return append(env, "SAGE_ENTRYPOINT="+tag)
}
