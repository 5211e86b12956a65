package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MediaInfo holds the first video stream and container metadata of a file
type MediaInfo struct {
	CodecName   string
	Width       int
	Height      int
	BitRate     int64   // bits/sec, 0 when the container does not report it
	FrameRate   float64 // decimal value of r_frame_rate
	Filename    string
	Duration    float64 // seconds
	StreamCount int
	Size        int64 // bytes
}

// Resolution returns "WxH", or "unknown" when either side is missing
func (m *MediaInfo) Resolution() string {
	if m.Width <= 0 || m.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// ParseFraction converts a rational string such as "30000/1001" to a
// decimal. Both parts are integers; the numerator must not be negative
// and the denominator must be positive.
func ParseFraction(s string) (float64, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, &InvalidFractionError{Input: s}
	}

	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil || n < 0 {
		return 0, &InvalidFractionError{Input: s}
	}
	d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err != nil || d <= 0 {
		return 0, &InvalidFractionError{Input: s}
	}

	return float64(n) / float64(d), nil
}

// TimeRange is a [In, Out) window in seconds
type TimeRange struct {
	In  float64
	Out float64
}

// Length returns Out - In
func (r TimeRange) Length() float64 {
	return r.Out - r.In
}

// CheckBounds validates the part of the range that does not depend on the
// source: 0 <= In < Out.
func (r TimeRange) CheckBounds() error {
	if !finite(r.In) || !finite(r.Out) {
		return invalid("range", fmt.Sprintf("in point %s and out point %s must be finite numbers",
			FormatSeconds(r.In), FormatSeconds(r.Out)), ErrInvalidRange)
	}
	if r.In >= r.Out {
		return invalid("range", fmt.Sprintf("in point %s must be less than out point %s",
			FormatSeconds(r.In), FormatSeconds(r.Out)), ErrInvalidRange)
	}
	if r.In < 0 {
		return invalid("range", "in point must be greater than or equal to 0", ErrInvalidRange)
	}
	return nil
}

// Validate enforces 0 <= In < Out <= duration.
func (r TimeRange) Validate(duration float64) error {
	if err := r.CheckBounds(); err != nil {
		return err
	}
	if !finite(duration) || duration < 0 {
		return invalid("range", fmt.Sprintf("video duration %s is unusable", FormatSeconds(duration)), ErrInvalidRange)
	}
	if r.Out > duration || r.In > duration {
		return invalid("range", fmt.Sprintf("out point %s exceeds the video duration %s",
			FormatSeconds(r.Out), FormatSeconds(duration)), ErrInvalidRange)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatSeconds renders seconds the way ffmpeg accepts them on the command
// line: shortest decimal form, no exponent.
func FormatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
