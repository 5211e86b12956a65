package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devbush/tubekit/internal/domain"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func newTestExecutor(stdout, stderr *bytes.Buffer) *Executor {
	return NewExecutor(Options{Stdout: stdout, Stderr: stderr})
}

func shell(mode domain.OutputMode, script string) *domain.ExecRequest {
	return &domain.ExecRequest{
		Binary: "sh",
		Args:   []string{"-c", script},
		Mode:   mode,
	}
}

func TestExecutor_BufferedCapturesStdout(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	e := newTestExecutor(&stdout, &stderr)

	result, err := e.Run(context.Background(), shell(domain.OutputBuffered, "printf hello; printf warn >&2"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stdout != "hello" {
		t.Errorf("Stdout = %q, want hello", result.Stdout)
	}
	if result.Stderr != "warn" {
		t.Errorf("Stderr = %q, want warn", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if stdout.Len() != 0 {
		t.Errorf("buffered run leaked stdout to console: %q", stdout.String())
	}
	if stderr.String() != "warn" {
		t.Errorf("buffered run should pass stderr through, got %q", stderr.String())
	}
}

func TestExecutor_QuietHasNoPassthrough(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	e := newTestExecutor(&stdout, &stderr)

	result, err := e.Run(context.Background(), shell(domain.OutputQuiet, "printf out; printf err >&2"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stdout != "out" || result.Stderr != "err" {
		t.Errorf("Run() = %+v, want captured out/err", result)
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("quiet run wrote to console: stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
}

func TestExecutor_StreamedDoesNotBuffer(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	e := newTestExecutor(&stdout, &stderr)

	result, err := e.Run(context.Background(), shell(domain.OutputStreamed, "printf progress; printf note >&2"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stdout != "" {
		t.Errorf("streamed result Stdout = %q, want empty", result.Stdout)
	}
	if stdout.String() != "progress" {
		t.Errorf("console stdout = %q, want progress", stdout.String())
	}
	if stderr.String() != "note" {
		t.Errorf("console stderr = %q, want note", stderr.String())
	}
}

func TestExecutor_ExitCodeMapping(t *testing.T) {
	requireShell(t)

	modes := []domain.OutputMode{domain.OutputBuffered, domain.OutputQuiet, domain.OutputStreamed}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			e := newTestExecutor(&stdout, &stderr)

			_, err := e.Run(context.Background(), shell(mode, "echo boom >&2; exit 1"))

			var exitErr *domain.ProcessExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Run() error = %v, want *ProcessExitError", err)
			}
			if exitErr.ExitCode != 1 {
				t.Errorf("ExitCode = %d, want 1", exitErr.ExitCode)
			}
			if exitErr.Stderr != "boom" {
				t.Errorf("Stderr = %q, want boom", exitErr.Stderr)
			}
		})
	}
}

func TestExecutor_OutputCap(t *testing.T) {
	requireShell(t)
	e := NewExecutor(Options{MaxOutput: 4, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	result, err := e.Run(context.Background(), shell(domain.OutputQuiet, "printf 0123456789"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stdout != "0123" {
		t.Errorf("Stdout = %q, want 0123", result.Stdout)
	}
	if !result.Truncated {
		t.Error("Truncated = false, want true")
	}
}

func TestExecutor_WorkingDirectory(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	e := newTestExecutor(&bytes.Buffer{}, &bytes.Buffer{})

	req := shell(domain.OutputQuiet, "pwd")
	req.Dir = dir
	result, err := e.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(result.Stdout))
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestExecutor_ArgumentsAreNotShellInterpreted(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "pwned")
	e := newTestExecutor(&bytes.Buffer{}, &bytes.Buffer{})

	// $1 is echoed verbatim; the embedded command must never run
	hostile := "video.mp4; touch " + marker
	req := &domain.ExecRequest{
		Binary: "sh",
		Args:   []string{"-c", `printf '%s' "$1"`, "sh", hostile},
		Mode:   domain.OutputQuiet,
	}
	result, err := e.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stdout != hostile {
		t.Errorf("Stdout = %q, want %q", result.Stdout, hostile)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Error("argument was interpreted by a shell")
	}
}

func TestExecutor_MissingBinary(t *testing.T) {
	tests := []struct {
		name   string
		binary string
	}{
		{"absolute path", "/nonexistent/bin/ffmpeg"},
		{"relative path", "./nonexistent/ffprobe"},
		{"bare name", "tubekit-no-such-binary"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExecutor(&bytes.Buffer{}, &bytes.Buffer{})
			_, err := e.Run(context.Background(), &domain.ExecRequest{Binary: tt.binary, Mode: domain.OutputQuiet})

			var launchErr *domain.ProcessLaunchError
			if !errors.As(err, &launchErr) {
				t.Fatalf("Run() error = %v, want *ProcessLaunchError", err)
			}
			if !errors.Is(err, domain.ErrBinaryNotFound) {
				t.Errorf("Run() error = %v, want ErrBinaryNotFound", err)
			}
		})
	}
}

func TestExecutor_Timeout(t *testing.T) {
	requireShell(t)

	for _, detached := range []bool{false, true} {
		name := "attached"
		if detached {
			name = "detached"
		}
		t.Run(name, func(t *testing.T) {
			e := newTestExecutor(&bytes.Buffer{}, &bytes.Buffer{})
			req := shell(domain.OutputQuiet, "exec sleep 10")
			req.Timeout = 100 * time.Millisecond
			req.Detached = detached

			start := time.Now()
			_, err := e.Run(context.Background(), req)

			if !errors.Is(err, domain.ErrTimeout) {
				t.Fatalf("Run() error = %v, want ErrTimeout", err)
			}
			var timeoutErr *domain.TimeoutError
			if !errors.As(err, &timeoutErr) || timeoutErr.Timeout != 100*time.Millisecond {
				t.Errorf("Run() error = %v, want TimeoutError carrying the deadline", err)
			}
			if elapsed := time.Since(start); elapsed > 4*time.Second {
				t.Errorf("Run() took %s after the deadline", elapsed)
			}
		})
	}
}

func TestExecutor_DefaultTimeout(t *testing.T) {
	requireShell(t)
	e := NewExecutor(Options{Timeout: 100 * time.Millisecond, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	_, err := e.Run(context.Background(), shell(domain.OutputQuiet, "exec sleep 10"))
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
}

func TestExecutor_ParentCancellation(t *testing.T) {
	requireShell(t)
	e := newTestExecutor(&bytes.Buffer{}, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, shell(domain.OutputQuiet, "exec sleep 10"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, domain.ErrTimeout) {
		t.Error("cancellation must not be reported as a timeout")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(bin)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", bin, err)
	}
	if got != bin {
		t.Errorf("Resolve(%q) = %q", bin, got)
	}

	if _, err := Resolve(dir); !errors.Is(err, domain.ErrBinaryNotFound) {
		t.Errorf("Resolve(dir) error = %v, want ErrBinaryNotFound", err)
	}
}
