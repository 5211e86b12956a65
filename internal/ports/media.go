package ports

import (
	"context"

	"github.com/devbush/tubekit/internal/domain"
)

// DurationProber reports the container duration of a media file in seconds.
type DurationProber interface {
	GetDuration(ctx context.Context, path string) (float64, error)
}

// MediaProber inspects media files without transforming them.
type MediaProber interface {
	DurationProber

	// GetInfo returns first-video-stream and container metadata.
	GetInfo(ctx context.Context, path string) (*domain.MediaInfo, error)

	// GetFrameRate is best-effort: it never fails and returns a fallback
	// rate when the lookup does.
	GetFrameRate(ctx context.Context, path string) float64

	GetVersion(ctx context.Context) (string, error)
}

// SliceOptions configures CreateSlice
type SliceOptions struct {
	Encode bool // re-encode video instead of stream-copying
}

// CropRect is a crop window in pixels
type CropRect struct {
	X, Y          int
	Width, Height int
}

// MediaTransformer rewrites media files.
type MediaTransformer interface {
	Compress(ctx context.Context, input, output string, opts domain.RunOptions) error
	CreateSlice(ctx context.Context, input, output string, r domain.TimeRange, slice SliceOptions, opts domain.RunOptions) (string, error)
	Crop(ctx context.Context, input, output string, rect CropRect, opts domain.RunOptions) error
	Resize(ctx context.Context, input, output string, width, height int, opts domain.RunOptions) error
	ChangeFrameRate(ctx context.Context, input, output string, fps float64, opts domain.RunOptions) error
	SaveThumbnail(ctx context.Context, input, output string, at float64, opts domain.RunOptions) error
	GetVersion(ctx context.Context) (string, error)
}
