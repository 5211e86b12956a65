package ffprobe

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/devbush/tubekit/internal/domain"
)

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  *ffprobeFormat  `json:"format"`
}

type ffprobeStream struct {
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	BitRate    string `json:"bit_rate"`
	RFrameRate string `json:"r_frame_rate"`
}

type ffprobeFormat struct {
	Filename  string `json:"filename"`
	NbStreams int    `json:"nb_streams"`
	Duration  string `json:"duration"`
	Size      string `json:"size"`
}

// ParseInfo converts ffprobe JSON output into MediaInfo. It expects a
// "streams" array whose first element is the video stream and a "format"
// object; anything else is a ParseError.
func ParseInfo(data []byte) (*domain.MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ParseError{Tool: toolName, Field: "json", Err: err}
	}

	if len(raw.Streams) == 0 {
		return nil, &domain.ParseError{Tool: toolName, Field: "streams"}
	}
	if raw.Format == nil {
		return nil, &domain.ParseError{Tool: toolName, Field: "format"}
	}

	stream := raw.Streams[0]
	if stream.CodecName == "" {
		return nil, &domain.ParseError{Tool: toolName, Field: "streams[0].codec_name"}
	}

	frameRate, err := domain.ParseFraction(stream.RFrameRate)
	if err != nil {
		return nil, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(raw.Format.Duration), 64)
	if err != nil {
		return nil, &domain.ParseError{Tool: toolName, Field: "format.duration", Err: err}
	}

	return &domain.MediaInfo{
		CodecName:   stream.CodecName,
		Width:       stream.Width,
		Height:      stream.Height,
		BitRate:     parseInt64(stream.BitRate),
		FrameRate:   frameRate,
		Filename:    raw.Format.Filename,
		Duration:    duration,
		StreamCount: raw.Format.NbStreams,
		Size:        parseInt64(raw.Format.Size),
	}, nil
}

// ffprobe reports most numbers as strings; absent or "N/A" values read as 0
func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
