package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/devbush/tubekit/internal/domain"
	"github.com/devbush/tubekit/internal/ports"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultMaxOutput bounds each captured stream.
	DefaultMaxOutput int64 = 256 << 20

	// Streamed runs keep only this much stderr, for error reports.
	stderrTailSize = 64 << 10

	// How long Wait may block on open pipes after the child exits or is killed.
	waitDelay = 5 * time.Second
)

// Options configures an Executor
type Options struct {
	Logger    hclog.Logger
	MaxOutput int64         // per-stream capture cap, DefaultMaxOutput when zero
	Timeout   time.Duration // applied to requests that carry none
	Stdout    io.Writer     // streamed output, os.Stdout when nil
	Stderr    io.Writer     // streamed and passthrough stderr, os.Stderr when nil
}

// Executor implements ports.Runner with os/exec. It holds only immutable
// configuration and is safe for concurrent use.
type Executor struct {
	logger    hclog.Logger
	maxOutput int64
	timeout   time.Duration
	stdout    io.Writer
	stderr    io.Writer
}

// NewExecutor creates a new process executor
func NewExecutor(opts Options) *Executor {
	e := &Executor{
		logger:    opts.Logger,
		maxOutput: opts.MaxOutput,
		timeout:   opts.Timeout,
		stdout:    opts.Stdout,
		stderr:    opts.Stderr,
	}
	if e.logger == nil {
		e.logger = hclog.NewNullLogger()
	}
	if e.maxOutput <= 0 {
		e.maxOutput = DefaultMaxOutput
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	return e
}

// Run launches req.Binary and waits for it to exit.
func (e *Executor) Run(ctx context.Context, req *domain.ExecRequest) (*domain.ExecResult, error) {
	switch req.Mode {
	case domain.OutputStreamed:
		return e.runStreamed(ctx, req)
	case domain.OutputQuiet:
		return e.runQuietBuffered(ctx, req)
	default:
		return e.runBuffered(ctx, req)
	}
}

// runBuffered captures both streams and echoes stderr to the console.
func (e *Executor) runBuffered(ctx context.Context, req *domain.ExecRequest) (*domain.ExecResult, error) {
	return e.capture(ctx, req, e.stderr)
}

// runQuietBuffered captures both streams with no passthrough.
func (e *Executor) runQuietBuffered(ctx context.Context, req *domain.ExecRequest) (*domain.ExecResult, error) {
	return e.capture(ctx, req, nil)
}

func (e *Executor) capture(ctx context.Context, req *domain.ExecRequest, passthrough io.Writer) (*domain.ExecResult, error) {
	stdout := newCappedBuffer(e.maxOutput)
	stderr := newCappedBuffer(e.maxOutput)

	var stderrW io.Writer = stderr
	if passthrough != nil {
		stderrW = io.MultiWriter(stderr, passthrough)
	}

	if err := e.exec(ctx, req, stdout, stderrW, stderr.String); err != nil {
		return nil, err
	}

	return &domain.ExecResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.truncated || stderr.truncated,
	}, nil
}

// runStreamed connects the child to the executor's writers. Stdout is never
// buffered; a short stderr tail is kept for the exit error.
func (e *Executor) runStreamed(ctx context.Context, req *domain.ExecRequest) (*domain.ExecResult, error) {
	tail := newTailBuffer(stderrTailSize)

	if err := e.exec(ctx, req, e.stdout, io.MultiWriter(e.stderr, tail), tail.String); err != nil {
		return nil, err
	}

	return &domain.ExecResult{}, nil
}

func (e *Executor) exec(ctx context.Context, req *domain.ExecRequest, stdout, stderr io.Writer, stderrText func() string) error {
	bin, err := Resolve(req.Binary)
	if err != nil {
		return &domain.ProcessLaunchError{Binary: req.Binary, Err: err}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, bin, req.Args...)
	cmd.Dir = req.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	if req.Detached {
		detach(cmd)
	}

	e.logger.Debug("running command",
		"binary", bin,
		"args", strings.Join(req.Args, " "),
		"dir", req.Dir,
		"mode", req.Mode.String(),
		"detached", req.Detached,
	)
	started := time.Now()

	err = cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		// exited cleanly but a grandchild kept the output pipes open
		e.logger.Warn("output pipes still open after exit", "binary", bin)
		err = nil
	}
	if err == nil {
		e.logger.Debug("command finished", "binary", bin, "elapsed", time.Since(started))
		return nil
	}

	if timeout > 0 && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		e.logger.Debug("command timed out", "binary", bin, "timeout", timeout)
		return &domain.TimeoutError{Binary: req.Binary, Timeout: timeout}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", req.Binary, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e.logger.Debug("command failed", "binary", bin, "exit_code", exitErr.ExitCode())
		return &domain.ProcessExitError{
			Binary:   req.Binary,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderrText()),
		}
	}

	return &domain.ProcessLaunchError{Binary: req.Binary, Err: err}
}

// Resolve locates binary. Anything containing a path separator is treated
// as a filesystem path and must exist; a bare name is looked up in PATH.
func Resolve(binary string) (string, error) {
	if binary == "" {
		return "", fmt.Errorf("empty binary name: %w", domain.ErrBinaryNotFound)
	}

	if strings.ContainsRune(binary, '/') || strings.ContainsRune(binary, filepath.Separator) {
		abs, err := filepath.Abs(binary)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%s does not exist: %w", binary, domain.ErrBinaryNotFound)
		}
		return abs, nil
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", binary, domain.ErrBinaryNotFound)
	}
	return path, nil
}

// Ensure Executor implements the Runner port
var _ ports.Runner = (*Executor)(nil)
