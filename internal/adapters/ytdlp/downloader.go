package ytdlp

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/devbush/tubekit/internal/domain"
	"github.com/devbush/tubekit/internal/ports"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

const (
	// Requested for QualityHigh: best mp4 video + m4a audio, merged as mp4
	highQualityFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

	// Relative to the working directory, which is the destination
	outputTemplate = "%(id)s.%(ext)s"
)

// Downloader implements VideoDownloader using yt-dlp
type Downloader struct {
	runner  ports.Runner
	binPath string
	fs      afero.Fs
	logger  hclog.Logger
}

// NewDownloader creates a new yt-dlp downloader. With an empty binPath the
// binary is resolved through PATH on first use. A non-empty binPath must
// exist now; construction fails otherwise.
func NewDownloader(runner ports.Runner, binPath string, fs afero.Fs, logger hclog.Logger) (*Downloader, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if binPath == "" {
		binPath = binaryName()
	} else if info, err := fs.Stat(binPath); err != nil || info.IsDir() {
		return nil, fmt.Errorf("yt-dlp at %s: %w", binPath, domain.ErrBinaryNotFound)
	}

	return &Downloader{
		runner:  runner,
		binPath: binPath,
		fs:      fs,
		logger:  logger,
	}, nil
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "yt-dlp.exe"
	}
	return "yt-dlp"
}

func (d *Downloader) GetBinaryPath() string {
	return d.binPath
}

func (d *Downloader) GetVersion(ctx context.Context) (string, error) {
	result, err := d.runner.Run(ctx, &domain.ExecRequest{
		Binary: d.binPath,
		Args:   []string{"--version"},
		Mode:   domain.OutputQuiet,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

func (d *Downloader) Update(ctx context.Context) error {
	_, err := d.runner.Run(ctx, &domain.ExecRequest{
		Binary: d.binPath,
		Args:   []string{"-U"},
		Mode:   domain.OutputStreamed,
	})
	return err
}

// DownloadVideo fetches the video behind req.URL into req.Dir. The URL is
// validated before anything runs; yt-dlp receives the canonical watch URL.
func (d *Downloader) DownloadVideo(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	videoID, err := domain.ParseVideoURL(req.URL)
	if err != nil {
		return nil, err
	}

	destDir := req.Dir
	if destDir == "" {
		destDir = "."
	}
	if err := d.fs.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	url := domain.WatchURL(videoID)
	args := buildArgs(url, req)

	opts := req.Options
	opts.Dir = destDir

	d.logger.Info("downloading video", "id", videoID, "dir", destDir, "quality", string(req.Quality))
	result, err := d.runner.Run(ctx, opts.Request(d.binPath, args))
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed for %s: %w", videoID, err)
	}

	videoPath, err := d.locate(destDir, videoID)
	if err != nil {
		d.logger.Warn("downloaded file not found", "id", videoID, "dir", destDir, "error", err)
	}

	return &domain.DownloadResult{
		VideoID:   videoID,
		URL:       url,
		Dir:       destDir,
		Output:    result.Stdout,
		VideoPath: videoPath,
	}, nil
}

func buildArgs(url string, req domain.DownloadRequest) []string {
	args := []string{"--no-playlist"}

	if req.Overwrite {
		args = append(args, "--force-overwrites")
	} else {
		args = append(args, "--no-overwrites")
	}

	if req.Quality == domain.QualityHigh {
		args = append(args,
			"-f", highQualityFormat,
			"--merge-output-format", "mp4",
		)
	}

	return append(args, "-o", outputTemplate, url)
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
	".mov":  true,
	".m4a":  true,
}

// locate finds <id>.<ext> in dir, skipping yt-dlp's partial files and
// per-format intermediates such as <id>.f137.mp4. Entries are matched by
// name so dir may contain glob metacharacters.
func (d *Downloader) locate(dir, videoID string) (string, error) {
	entries, err := afero.ReadDir(d.fs, dir)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if strings.TrimSuffix(name, ext) == videoID && videoExtensions[strings.ToLower(ext)] {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fmt.Errorf("no video file for %s in %s", videoID, dir)
}

// Ensure Downloader implements the port
var _ ports.VideoDownloader = (*Downloader)(nil)
