package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Quality selects the yt-dlp format preference
type Quality string

const (
	QualityDefault Quality = "default"
	QualityHigh    Quality = "high"
)

// ParseQuality accepts "", "default" or "high"
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(QualityDefault):
		return QualityDefault, nil
	case string(QualityHigh):
		return QualityHigh, nil
	default:
		return "", Invalid("quality", fmt.Sprintf("%q (use default or high)", s))
	}
}

// DownloadRequest describes a single video download
type DownloadRequest struct {
	URL       string
	Dir       string
	Overwrite bool
	Quality   Quality
	Options   RunOptions
}

// DownloadResult is what a finished download produced
type DownloadResult struct {
	VideoID   string
	URL       string // canonical watch URL passed to the downloader
	Dir       string
	Output    string // captured tool output, empty when streamed
	VideoPath string // downloaded file, empty if it could not be located
}

var (
	// Matches watch?v=ID (anywhere in the query), youtu.be/ID and /shorts/ID
	watchURLPattern = regexp.MustCompile(`^https?://(?:www\.|m\.)?youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]+)`)
	shortURLPattern = regexp.MustCompile(`^https?://(?:youtu\.be/|(?:www\.|m\.)?youtube\.com/shorts/)([A-Za-z0-9_-]+)`)
)

// ParseVideoURL extracts the video ID from a YouTube URL
func ParseVideoURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid("url", "empty input", ErrInvalidURL)
	}

	if matches := watchURLPattern.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1], nil
	}
	if matches := shortURLPattern.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1], nil
	}

	return "", invalid("url", fmt.Sprintf("%s is not a YouTube video URL", raw), ErrInvalidURL)
}

// WatchURL builds the canonical URL for a video ID
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
