package ports

import (
	"context"

	"github.com/devbush/tubekit/internal/domain"
)

// VideoDownloader handles video download from YouTube.
type VideoDownloader interface {
	// DownloadVideo validates the URL, then fetches the video into req.Dir.
	DownloadVideo(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error)

	// yt-dlp management

	// GetBinaryPath returns the configured path, or the bare binary name
	// when it is resolved through PATH.
	GetBinaryPath() string

	// GetVersion returns the yt-dlp version string.
	GetVersion(ctx context.Context) (string, error)

	// Update updates yt-dlp to the latest version.
	Update(ctx context.Context) error
}
