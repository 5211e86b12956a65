package cli

import (
	"encoding/json"
	"fmt"

	"github.com/devbush/tubekit/internal/adapters/cli/tui"
	"github.com/devbush/tubekit/internal/domain"
	"github.com/devbush/tubekit/internal/ports"
	"github.com/spf13/cobra"
)

// mediaInfoJSON is the --json shape of `info`
type mediaInfoJSON struct {
	Filename    string  `json:"filename"`
	CodecName   string  `json:"codec_name"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	FrameRate   float64 `json:"frame_rate"`
	Duration    float64 `json:"duration"`
	BitRate     int64   `json:"bit_rate"`
	StreamCount int     `json:"nb_streams"`
	Size        int64   `json:"size"`
}

// NewInfoCmd creates the info command
func NewInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Show codec, resolution, frame rate and duration of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			return printInfo(cmd, app, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printInfo(cmd *cobra.Command, app *App, path string, asJSON bool) error {
	info, err := app.Prober.GetInfo(cmd.Context(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !asJSON {
		fmt.Fprint(out, tui.FormatMediaInfo(info))
		return nil
	}

	data, err := json.MarshalIndent(mediaInfoJSON{
		Filename:    info.Filename,
		CodecName:   info.CodecName,
		Width:       info.Width,
		Height:      info.Height,
		FrameRate:   info.FrameRate,
		Duration:    info.Duration,
		BitRate:     info.BitRate,
		StreamCount: info.StreamCount,
		Size:        info.Size,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// NewDurationCmd creates the duration command
func NewDurationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duration FILE",
		Short: "Print the duration of a video in seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			d, err := app.Prober.GetDuration(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.FormatSeconds(d))
			return nil
		},
	}
}

// NewFrameRateCmd creates the framerate command
func NewFrameRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "framerate FILE",
		Short: "Print the frame rate of a video",
		Long: `Print the frame rate of a video.

This never fails: when the rate cannot be read the configured fallback
(30 by default) is printed and a warning is logged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			fps := app.Prober.GetFrameRate(cmd.Context(), args[0])
			fmt.Fprintln(cmd.OutOrStdout(), domain.FormatSeconds(fps))
			return nil
		},
	}
}

// NewCompressCmd creates the compress command
func NewCompressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compress IN OUT",
		Short: "Re-encode a video with H.264 at CRF 28",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			if err := app.Transformer.Compress(cmd.Context(), args[0], args[1], app.RunOptions()); err != nil {
				return err
			}
			return saved(cmd, args[1])
		},
	}
}

// NewSliceCmd creates the slice command
func NewSliceCmd() *cobra.Command {
	var (
		from, to float64
		encode   bool
	)

	cmd := &cobra.Command{
		Use:   "slice IN OUT --from SECONDS --to SECONDS",
		Short: "Cut the [from, to) range out of a video",
		Long: `Cut the [from, to) range out of a video.

The range is checked against the probed duration before ffmpeg runs.
Streams are copied unless --encode is given, so cuts land on keyframes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			return runSlice(cmd, app, args[0], args[1], domain.TimeRange{In: from, Out: to}, encode)
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "Start time in seconds")
	cmd.Flags().Float64Var(&to, "to", 0, "End time in seconds")
	cmd.Flags().BoolVar(&encode, "encode", false, "Re-encode video instead of copying streams")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runSlice(cmd *cobra.Command, app *App, in, out string, r domain.TimeRange, encode bool) error {
	path, err := app.Transformer.CreateSlice(cmd.Context(), in, out, r,
		ports.SliceOptions{Encode: encode}, app.RunOptions())
	if err != nil {
		return err
	}
	return saved(cmd, path)
}

// NewCropCmd creates the crop command
func NewCropCmd() *cobra.Command {
	var rect ports.CropRect

	cmd := &cobra.Command{
		Use:   "crop IN OUT --width W --height H [--x X --y Y]",
		Short: "Crop a video to a rectangle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			if err := app.Transformer.Crop(cmd.Context(), args[0], args[1], rect, app.RunOptions()); err != nil {
				return err
			}
			return saved(cmd, args[1])
		},
	}

	cmd.Flags().IntVar(&rect.X, "x", 0, "Left edge in pixels")
	cmd.Flags().IntVar(&rect.Y, "y", 0, "Top edge in pixels")
	cmd.Flags().IntVar(&rect.Width, "width", 0, "Width in pixels")
	cmd.Flags().IntVar(&rect.Height, "height", 0, "Height in pixels")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

// NewResizeCmd creates the resize command
func NewResizeCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "resize IN OUT --width W --height H",
		Short: "Scale a video to a new resolution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			if err := app.Transformer.Resize(cmd.Context(), args[0], args[1], width, height, app.RunOptions()); err != nil {
				return err
			}
			return saved(cmd, args[1])
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Height in pixels")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

// NewFPSCmd creates the fps command
func NewFPSCmd() *cobra.Command {
	var rate float64

	cmd := &cobra.Command{
		Use:   "fps IN OUT --rate FPS",
		Short: "Change the frame rate of a video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			if err := app.Transformer.ChangeFrameRate(cmd.Context(), args[0], args[1], rate, app.RunOptions()); err != nil {
				return err
			}
			return saved(cmd, args[1])
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", 0, "Target frames per second")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

// NewThumbnailCmd creates the thumbnail command
func NewThumbnailCmd() *cobra.Command {
	var at float64

	cmd := &cobra.Command{
		Use:   "thumbnail IN OUT [--at SECONDS]",
		Short: "Save a single frame as an image",
		Long: `Save a single frame as an image.

The image format follows the output extension (.jpg, .png, .webp, .bmp).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			if err := app.Transformer.SaveThumbnail(cmd.Context(), args[0], args[1], at, app.RunOptions()); err != nil {
				return err
			}
			return saved(cmd, args[1])
		},
	}

	cmd.Flags().Float64Var(&at, "at", 0, "Timestamp in seconds")
	return cmd
}

func saved(cmd *cobra.Command, path string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s\n", path)
	return nil
}
