package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/devbush/tubekit/internal/domain"
	"github.com/devbush/tubekit/internal/ports"
)

// ErrVideoNotLocated is returned when yt-dlp succeeded but the downloaded
// file could not be found for post-processing.
var ErrVideoNotLocated = errors.New("downloaded video not found")

// Step identifies a stage of the fetch pipeline
type Step int

const (
	StepDownload Step = iota
	StepProbe
	StepSlice
	StepThumbnail
	StepCompress
)

func (s Step) String() string {
	switch s {
	case StepDownload:
		return "Downloading video"
	case StepProbe:
		return "Reading media info"
	case StepSlice:
		return "Slicing"
	case StepThumbnail:
		return "Saving thumbnail"
	case StepCompress:
		return "Compressing"
	default:
		return "Unknown step"
	}
}

// StepEvent reports a step starting (Done=false) or finishing
type StepEvent struct {
	Step Step
	Done bool
	Err  error
}

// FetchOptions configures the fetch pipeline
type FetchOptions struct {
	URL       string
	Dir       string
	Overwrite bool
	Quality   domain.Quality

	Range       *domain.TimeRange // slice the download when set
	Encode      bool              // re-encode the slice instead of stream-copying
	Thumbnail   bool
	ThumbnailAt float64 // seconds into the (sliced) video
	Compress    bool

	Options  domain.RunOptions // applied to every external process
	Progress func(StepEvent)   // optional
}

// FetchResult lists what the pipeline produced
type FetchResult struct {
	Download      *domain.DownloadResult
	Info          *domain.MediaInfo
	SlicePath     string
	ThumbnailPath string
	CompressPath  string
}

// Steps returns the steps opts will run, in order
func (o FetchOptions) Steps() []Step {
	steps := []Step{StepDownload, StepProbe}
	if o.Range != nil {
		steps = append(steps, StepSlice)
	}
	if o.Thumbnail {
		steps = append(steps, StepThumbnail)
	}
	if o.Compress {
		steps = append(steps, StepCompress)
	}
	return steps
}

// FetchService downloads a video and post-processes it
type FetchService struct {
	downloader  ports.VideoDownloader
	prober      ports.MediaProber
	transformer ports.MediaTransformer
}

// NewFetchService creates a new fetch service
func NewFetchService(
	downloader ports.VideoDownloader,
	prober ports.MediaProber,
	transformer ports.MediaTransformer,
) *FetchService {
	return &FetchService{
		downloader:  downloader,
		prober:      prober,
		transformer: transformer,
	}
}

// Fetch runs download, probe, then the optional slice, thumbnail and
// compress steps sequentially, stopping at the first failure. Each step
// works on the previous step's video: the slice when one was cut.
func (s *FetchService) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	if opts.Range != nil {
		if err := opts.Range.CheckBounds(); err != nil {
			return nil, err
		}
	}
	if opts.ThumbnailAt < 0 {
		return nil, domain.Invalid("timestamp", "must not be negative")
	}

	result := &FetchResult{}

	err := s.step(opts, StepDownload, func() error {
		dl, err := s.downloader.DownloadVideo(ctx, domain.DownloadRequest{
			URL:       opts.URL,
			Dir:       opts.Dir,
			Overwrite: opts.Overwrite,
			Quality:   opts.Quality,
			Options:   opts.Options,
		})
		if err != nil {
			return err
		}
		result.Download = dl
		if dl.VideoPath == "" {
			return fmt.Errorf("%s in %s: %w", dl.VideoID, dl.Dir, ErrVideoNotLocated)
		}
		return nil
	})
	if err != nil {
		if result.Download == nil {
			return nil, err
		}
		return result, err
	}

	source := result.Download.VideoPath
	err = s.step(opts, StepProbe, func() error {
		info, err := s.prober.GetInfo(ctx, source)
		result.Info = info
		return err
	})
	if err != nil {
		return result, err
	}

	if opts.Range != nil {
		out := siblingPath(source, fmt.Sprintf("_%s-%s",
			domain.FormatSeconds(opts.Range.In), domain.FormatSeconds(opts.Range.Out)), ".mp4")
		err = s.step(opts, StepSlice, func() error {
			path, err := s.transformer.CreateSlice(ctx, source, out, *opts.Range,
				ports.SliceOptions{Encode: opts.Encode}, opts.Options)
			result.SlicePath = path
			return err
		})
		if err != nil {
			return result, err
		}
		source = result.SlicePath
	}

	if opts.Thumbnail {
		out := siblingPath(result.Download.VideoPath, "", ".jpg")
		err = s.step(opts, StepThumbnail, func() error {
			if err := s.transformer.SaveThumbnail(ctx, source, out, opts.ThumbnailAt, opts.Options); err != nil {
				return err
			}
			result.ThumbnailPath = out
			return nil
		})
		if err != nil {
			return result, err
		}
	}

	if opts.Compress {
		out := siblingPath(source, "_compressed", ".mp4")
		err = s.step(opts, StepCompress, func() error {
			if err := s.transformer.Compress(ctx, source, out, opts.Options); err != nil {
				return err
			}
			result.CompressPath = out
			return nil
		})
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (s *FetchService) step(opts FetchOptions, step Step, fn func() error) error {
	if opts.Progress != nil {
		opts.Progress(StepEvent{Step: step})
	}
	err := fn()
	if opts.Progress != nil {
		opts.Progress(StepEvent{Step: step, Done: true, Err: err})
	}
	return err
}

// siblingPath returns path with its extension replaced by suffix+ext
func siblingPath(path, suffix, ext string) string {
	base := path[:len(path)-len(filepath.Ext(path))]
	return base + suffix + ext
}
