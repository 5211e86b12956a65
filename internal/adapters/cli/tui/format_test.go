package tui

import (
	"strings"
	"testing"

	"github.com/devbush/tubekit/internal/domain"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatBytes(tt.input)
			if result != tt.expected {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatBitRate(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "unknown"},
		{800, "800 b/s"},
		{128000, "128.0 kb/s"},
		{1500000, "1.5 Mb/s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatBitRate(tt.input)
			if result != tt.expected {
				t.Errorf("FormatBitRate(%d) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{-1, "---"},
		{0, "00:00.0"},
		{12.5, "00:12.5"},
		{61.04, "01:01.0"},
		{3725.25, "1:02:05.3"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatDuration(tt.input)
			if result != tt.expected {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatFrameRate(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{30, "30 fps"},
		{29.97002997, "29.97 fps"},
		{23.976, "23.976 fps"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatFrameRate(tt.input)
			if result != tt.expected {
				t.Errorf("FormatFrameRate(%v) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatMediaInfo(t *testing.T) {
	info := &domain.MediaInfo{
		CodecName:   "vp9",
		Width:       1920,
		Height:      1080,
		BitRate:     2500000,
		FrameRate:   30,
		Filename:    "clip.webm",
		Duration:    12.5,
		StreamCount: 2,
		Size:        4 * 1024 * 1024,
	}

	result := FormatMediaInfo(info)

	for _, want := range []string{"clip.webm", "vp9", "1920x1080", "30 fps", "00:12.5", "2.5 Mb/s", "4.0 MB"} {
		if !strings.Contains(result, want) {
			t.Errorf("FormatMediaInfo missing %q:\n%s", want, result)
		}
	}
	if lines := strings.Count(result, "\n"); lines != 8 {
		t.Errorf("expected 8 lines, got %d", lines)
	}
}
