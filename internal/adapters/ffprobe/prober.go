package ffprobe

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/devbush/tubekit/internal/domain"
	"github.com/devbush/tubekit/internal/ports"
	"github.com/hashicorp/go-hclog"
)

// DefaultFrameRate is what GetFrameRate reports when the lookup fails.
const DefaultFrameRate = 30.0

const toolName = "ffprobe"

// Prober implements ports.MediaProber using ffprobe
type Prober struct {
	runner      ports.Runner
	binPath     string
	fallbackFPS float64
	logger      hclog.Logger
}

// NewProber creates a new ffprobe facade. An empty binPath resolves
// ffprobe through PATH.
func NewProber(runner ports.Runner, binPath string, logger hclog.Logger) *Prober {
	if binPath == "" {
		binPath = BinaryName()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Prober{
		runner:      runner,
		binPath:     binPath,
		fallbackFPS: DefaultFrameRate,
		logger:      logger,
	}
}

// WithFallbackFrameRate returns a copy of p whose best-effort frame rate
// lookup reports fps on failure.
func (p *Prober) WithFallbackFrameRate(fps float64) *Prober {
	cp := *p
	if fps > 0 {
		cp.fallbackFPS = fps
	}
	return &cp
}

// BinaryName is the platform-specific ffprobe executable name
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "ffprobe.exe"
	}
	return "ffprobe"
}

func (p *Prober) GetBinaryPath() string {
	return p.binPath
}

func (p *Prober) run(ctx context.Context, args ...string) (string, error) {
	result, err := p.runner.Run(ctx, &domain.ExecRequest{
		Binary: p.binPath,
		Args:   args,
		Mode:   domain.OutputQuiet,
	})
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

func (p *Prober) GetVersion(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "-version")
	if err != nil {
		return "", err
	}
	return firstLine(out), nil
}

// GetInfo reports codec, geometry and frame rate of the first video stream
// plus container metadata, parsed from ffprobe's JSON on stdout.
func (p *Prober) GetInfo(ctx context.Context, path string) (*domain.MediaInfo, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}

	out, err := p.run(ctx,
		"-v", "error",
		"-print_format", "json",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,bit_rate,r_frame_rate:format=duration,filename,nb_streams,size",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseInfo([]byte(out))
}

// GetDuration returns the container duration in seconds.
func (p *Prober) GetDuration(ctx context.Context, path string) (float64, error) {
	if err := checkPath(path); err != nil {
		return 0, err
	}

	out, err := p.run(ctx,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, &domain.ParseError{Tool: toolName, Field: "format.duration", Err: err}
	}
	return duration, nil
}

// FrameRate returns the first video stream's frame rate, failing on any
// execution or parse error.
func (p *Prober) FrameRate(ctx context.Context, path string) (float64, error) {
	if err := checkPath(path); err != nil {
		return 0, err
	}

	out, err := p.run(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return domain.ParseFraction(firstLine(out))
}

// GetFrameRate is the best-effort variant of FrameRate: frame rate is
// treated as advisory metadata, so any failure is logged and the fallback
// rate (DefaultFrameRate unless overridden) is returned instead.
func (p *Prober) GetFrameRate(ctx context.Context, path string) float64 {
	fps, err := p.FrameRate(ctx, path)
	if err != nil {
		p.logger.Warn("frame rate lookup failed, using fallback", "path", path, "fallback", p.fallbackFPS, "error", err)
		return p.fallbackFPS
	}
	return fps
}

func checkPath(path string) error {
	switch {
	case path == "":
		return domain.Invalid("input", "path is empty")
	case strings.HasPrefix(path, "-"):
		return domain.Invalid("input", fmt.Sprintf("path %q starts with '-' (use ./%s)", path, path))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Ensure Prober implements the port
var _ ports.MediaProber = (*Prober)(nil)
