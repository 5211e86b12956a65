package domain

import "time"

// OutputMode selects how a child process's output is handled
type OutputMode int

const (
	// OutputBuffered captures stdout and stderr; stderr is also passed through.
	OutputBuffered OutputMode = iota
	// OutputStreamed connects the child to the caller's own streams.
	OutputStreamed
	// OutputQuiet captures both streams with no passthrough.
	OutputQuiet
)

func (m OutputMode) String() string {
	switch m {
	case OutputBuffered:
		return "buffered"
	case OutputStreamed:
		return "streamed"
	case OutputQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ExecRequest describes a single subprocess invocation
type ExecRequest struct {
	Binary   string   // absolute/relative path, or bare name resolved via PATH
	Args     []string // passed as argv, never through a shell
	Dir      string   // working directory, empty for the current one
	Mode     OutputMode
	Detached bool          // run in its own process group
	Timeout  time.Duration // zero means no deadline beyond the context
}

// ExecResult is the outcome of a subprocess that exited with code zero
type ExecResult struct {
	ExitCode  int
	Stdout    string // always empty for OutputStreamed
	Stderr    string
	Truncated bool // output exceeded the capture cap
}

// RunOptions are the per-call options accepted by every tool facade
type RunOptions struct {
	Quiet    bool
	Detached bool
	Dir      string
	Timeout  time.Duration
}

// Mode maps the options onto an output mode: quiet calls are captured
// silently, everything else is streamed to the console.
func (o RunOptions) Mode() OutputMode {
	if o.Quiet {
		return OutputQuiet
	}
	return OutputStreamed
}

// Request builds an ExecRequest for binary with args using these options
func (o RunOptions) Request(binary string, args []string) *ExecRequest {
	return &ExecRequest{
		Binary:   binary,
		Args:     args,
		Dir:      o.Dir,
		Mode:     o.Mode(),
		Detached: o.Detached,
		Timeout:  o.Timeout,
	}
}
