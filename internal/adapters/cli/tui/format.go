package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/devbush/tubekit/internal/domain"
)

// FormatBytes renders a byte count with binary units, e.g. "1.5 MB"
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatBitRate renders bits/sec with decimal units
// Examples: 0 -> "unknown", 800 -> "800 b/s", 1500000 -> "1.5 Mb/s"
func FormatBitRate(bps int64) string {
	switch {
	case bps <= 0:
		return "unknown"
	case bps >= 1000000:
		return fmt.Sprintf("%.1f Mb/s", float64(bps)/1000000)
	case bps >= 1000:
		return fmt.Sprintf("%.1f kb/s", float64(bps)/1000)
	default:
		return fmt.Sprintf("%d b/s", bps)
	}
}

// FormatDuration renders seconds as [h:]mm:ss.s
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		return "---"
	}
	tenths := int64(math.Round(seconds * 10))
	h := tenths / 36000
	m := (tenths / 600) % 60
	s := float64(tenths%600) / 10
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%04.1f", h, m, s)
	}
	return fmt.Sprintf("%02d:%04.1f", m, s)
}

// FormatFrameRate trims trailing zeros: 30 -> "30 fps", 29.97 -> "29.97 fps"
func FormatFrameRate(fps float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", fps), "0"), ".") + " fps"
}

// FormatMediaInfo renders probe results as aligned label/value lines
func FormatMediaInfo(info *domain.MediaInfo) string {
	rows := [][2]string{
		{"File", info.Filename},
		{"Codec", info.CodecName},
		{"Resolution", info.Resolution()},
		{"Frame rate", FormatFrameRate(info.FrameRate)},
		{"Duration", FormatDuration(info.Duration)},
		{"Bit rate", FormatBitRate(info.BitRate)},
		{"Streams", fmt.Sprintf("%d", info.StreamCount)},
		{"Size", FormatBytes(info.Size)},
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(labelStyle.Render(row[0]))
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}
	return sb.String()
}
