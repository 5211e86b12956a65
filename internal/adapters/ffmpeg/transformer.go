package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/devbush/tubekit/internal/domain"
	"github.com/devbush/tubekit/internal/ports"
	"github.com/hashicorp/go-hclog"
)

// CompressCRF is the fixed x264 quality factor used by Compress.
const CompressCRF = 28

// Transformer implements ports.MediaTransformer using ffmpeg
type Transformer struct {
	runner    ports.Runner
	binPath   string
	durations ports.DurationProber
	logger    hclog.Logger
}

// NewTransformer creates a new ffmpeg facade. durations is consulted by
// CreateSlice to bound the requested range. An empty binPath resolves
// ffmpeg through PATH.
func NewTransformer(runner ports.Runner, binPath string, durations ports.DurationProber, logger hclog.Logger) *Transformer {
	if binPath == "" {
		binPath = BinaryName()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Transformer{
		runner:    runner,
		binPath:   binPath,
		durations: durations,
		logger:    logger,
	}
}

// BinaryName is the platform-specific ffmpeg executable name
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (t *Transformer) GetBinaryPath() string {
	return t.binPath
}

func (t *Transformer) GetVersion(ctx context.Context) (string, error) {
	result, err := t.runner.Run(ctx, &domain.ExecRequest{
		Binary: t.binPath,
		Args:   []string{"-version"},
		Mode:   domain.OutputQuiet,
	})
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(result.Stdout), "\n")
	return strings.TrimSpace(line), nil
}

// Compress re-encodes video with x264 at CompressCRF and copies audio.
func (t *Transformer) Compress(ctx context.Context, input, output string, opts domain.RunOptions) error {
	if err := checkPaths(input, output); err != nil {
		return err
	}
	return t.run(ctx, "compress", opts, newArgs(input).
		add("-c:v", "libx264", "-crf", strconv.Itoa(CompressCRF)).
		add("-c:a", "copy").
		build(output))
}

// CreateSlice cuts r out of input. The range is checked before probing
// and again against the probed duration; ffmpeg only runs when both pass.
// Without slice.Encode streams are copied, so cuts snap to keyframes.
func (t *Transformer) CreateSlice(ctx context.Context, input, output string, r domain.TimeRange, slice ports.SliceOptions, opts domain.RunOptions) (string, error) {
	if err := checkPaths(input, output); err != nil {
		return "", err
	}
	if err := r.CheckBounds(); err != nil {
		return "", err
	}

	duration, err := t.durations.GetDuration(ctx, input)
	if err != nil {
		return "", fmt.Errorf("slice: probing duration: %w", err)
	}
	if err := r.Validate(duration); err != nil {
		return "", err
	}

	args := &argBuilder{args: []string{
		"-y",
		"-ss", domain.FormatSeconds(r.In),
		"-t", domain.FormatSeconds(r.Length()),
		"-i", input,
	}}
	if slice.Encode {
		args.add("-c:v", "libx264", "-c:a", "copy")
	} else {
		args.add("-c", "copy")
	}

	if err := t.run(ctx, "slice", opts, args.build(output)); err != nil {
		return "", err
	}
	return output, nil
}

// Crop cuts a Width x Height window whose top-left corner is (X, Y).
func (t *Transformer) Crop(ctx context.Context, input, output string, rect ports.CropRect, opts domain.RunOptions) error {
	if err := checkPaths(input, output); err != nil {
		return err
	}
	if rect.Width <= 0 || rect.Height <= 0 {
		return domain.Invalid("crop", fmt.Sprintf("size %dx%d must be positive", rect.Width, rect.Height))
	}
	if rect.X < 0 || rect.Y < 0 {
		return domain.Invalid("crop", fmt.Sprintf("offset %d,%d must not be negative", rect.X, rect.Y))
	}

	filter := fmt.Sprintf("crop=%d:%d:%d:%d", rect.Width, rect.Height, rect.X, rect.Y)
	return t.run(ctx, "crop", opts, newArgs(input).
		add("-vf", filter).
		add("-c:v", "libx264", "-c:a", "copy").
		build(output))
}

// Resize scales the video to width x height.
func (t *Transformer) Resize(ctx context.Context, input, output string, width, height int, opts domain.RunOptions) error {
	if err := checkPaths(input, output); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return domain.Invalid("size", fmt.Sprintf("%dx%d must be positive", width, height))
	}

	return t.run(ctx, "resize", opts, newArgs(input).
		add("-s", fmt.Sprintf("%dx%d", width, height)).
		add("-c:v", "libx264", "-c:a", "copy").
		build(output))
}

// ChangeFrameRate re-encodes the video at fps frames per second.
func (t *Transformer) ChangeFrameRate(ctx context.Context, input, output string, fps float64, opts domain.RunOptions) error {
	if err := checkPaths(input, output); err != nil {
		return err
	}
	if !(fps > 0) {
		return domain.Invalid("frame rate", fmt.Sprintf("%v must be positive", fps))
	}

	return t.run(ctx, "framerate", opts, newArgs(input).
		add("-r", strconv.FormatFloat(fps, 'f', -1, 64)).
		add("-c:v", "libx264", "-c:a", "copy").
		build(output))
}

// SaveThumbnail writes the frame at `at` seconds as a single image. The
// image codec follows the output extension.
func (t *Transformer) SaveThumbnail(ctx context.Context, input, output string, at float64, opts domain.RunOptions) error {
	if err := checkPaths(input, output); err != nil {
		return err
	}
	if at < 0 {
		return domain.Invalid("timestamp", fmt.Sprintf("%s must not be negative", domain.FormatSeconds(at)))
	}

	args := &argBuilder{args: []string{"-y", "-ss", domain.FormatSeconds(at), "-i", input}}
	return t.run(ctx, "thumbnail", opts, args.
		add("-frames:v", "1", "-an").
		add("-c:v", imageCodec(output)).
		build(output))
}

func (t *Transformer) run(ctx context.Context, op string, opts domain.RunOptions, args []string) error {
	t.logger.Debug("transform", "op", op, "args", strings.Join(args, " "))
	if _, err := t.runner.Run(ctx, opts.Request(t.binPath, args)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func imageCodec(output string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".png":
		return "png"
	case ".webp":
		return "libwebp"
	case ".bmp":
		return "bmp"
	default:
		return "mjpeg"
	}
}

// checkPaths rejects empty paths and paths ffmpeg would parse as options
func checkPaths(input, output string) error {
	for _, p := range [][2]string{{"input", input}, {"output", output}} {
		switch {
		case p[1] == "":
			return domain.Invalid(p[0], "path is empty")
		case strings.HasPrefix(p[1], "-"):
			return domain.Invalid(p[0], fmt.Sprintf("path %q starts with '-' (use ./%s)", p[1], p[1]))
		}
	}
	return nil
}

// Ensure Transformer implements the port
var _ ports.MediaTransformer = (*Transformer)(nil)
