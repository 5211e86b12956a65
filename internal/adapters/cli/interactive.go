package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/devbush/tubekit/internal/adapters/cli/tui"
	"github.com/devbush/tubekit/internal/domain"
	"github.com/spf13/cobra"
)

// errCancelled ends an interactive flow without reporting a failure
var errCancelled = errors.New("cancelled")

func runInteractiveMenu(cmd *cobra.Command) error {
	options := []tui.MenuOption{
		{Label: "Download a video", Value: "download", Description: "Fetch with yt-dlp, then optionally slice, thumbnail or compress"},
		{Label: "Inspect a video file", Value: "inspect", Description: "Show codec, resolution, frame rate and duration via ffprobe"},
		{Label: "Slice a video file", Value: "slice", Description: "Cut an in/out range out of a local file with ffmpeg"},
		{Label: "Check dependencies", Value: "deps", Description: "Report where ffmpeg, ffprobe and yt-dlp were found"},
	}

	selected, err := tui.RunMenu("What would you like to do?", options)
	if err != nil {
		return err
	}

	switch selected {
	case "download":
		err = runDownloadInteractive(cmd)
	case "inspect":
		err = runInspectInteractive(cmd)
	case "slice":
		err = runSliceInteractive(cmd)
	case "deps":
		err = runDepsStatus(cmd, nil)
	case "":
		err = errCancelled
	}

	if errors.Is(err, errCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}
	return err
}

func runDownloadInteractive(cmd *cobra.Command) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	url, err := prompt("YouTube URL", "https://www.youtube.com/watch?v=...", "", validateURL)
	if err != nil {
		return err
	}

	selected, ok, err := tui.RunCheckbox("What should happen after the download?", []tui.CheckboxOption{
		{Label: "Cut a slice", Value: "slice", Description: "asks for an in/out range"},
		{Label: "Save a thumbnail", Value: "thumbnail", Description: "one JPEG frame"},
		{Label: "Save a compressed copy", Value: "compress", Description: "H.264 at CRF 28"},
		{Label: "High quality (mp4)", Value: "high", Description: "best video+audio merged", Checked: app.Config.Defaults.Quality == string(domain.QualityHigh)},
	}, 0)
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}

	dir, err := prompt("Destination directory", "", app.Config.Defaults.DownloadDir, nil)
	if err != nil {
		return err
	}

	opts := defaultFetchOptions(app, url)
	opts.Dir = dir
	opts.Quality = domain.QualityDefault

	for _, s := range selected {
		switch s {
		case "slice":
			r, err := promptRange()
			if err != nil {
				return err
			}
			opts.Range = &r
		case "thumbnail":
			opts.Thumbnail = true
		case "compress":
			opts.Compress = true
		case "high":
			opts.Quality = domain.QualityHigh
		}
	}

	return runFetch(cmd, app, opts)
}

func runInspectInteractive(cmd *cobra.Command) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	path, err := prompt("Video file", "clip.mp4", "", validateFile)
	if err != nil {
		return err
	}
	return printInfo(cmd, app, path, false)
}

func runSliceInteractive(cmd *cobra.Command) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	in, err := prompt("Video file", "clip.mp4", "", validateFile)
	if err != nil {
		return err
	}
	out, err := prompt("Output file", "slice.mp4", "", validateRequired)
	if err != nil {
		return err
	}
	r, err := promptRange()
	if err != nil {
		return err
	}

	return runSlice(cmd, app, in, out, r, false)
}

func promptRange() (domain.TimeRange, error) {
	from, err := promptSeconds("Slice start (seconds)", "0")
	if err != nil {
		return domain.TimeRange{}, err
	}
	to, err := promptSeconds("Slice end (seconds)", "")
	if err != nil {
		return domain.TimeRange{}, err
	}
	r := domain.TimeRange{In: from, Out: to}
	return r, r.CheckBounds()
}

func promptSeconds(title, initial string) (float64, error) {
	s, err := prompt(title, "12.5", initial, validateSeconds)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// prompt wraps tui.RunPrompt, mapping cancellation to errCancelled
func prompt(title, placeholder, initial string, validate func(string) error) (string, error) {
	value, ok, err := tui.RunPrompt(title, placeholder, initial, validate)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errCancelled
	}
	return value, nil
}

func validateURL(s string) error {
	_, err := domain.ParseVideoURL(s)
	return err
}

func validateRequired(s string) error {
	if s == "" {
		return errors.New("a value is required")
	}
	return nil
}

func validateFile(s string) error {
	if err := validateRequired(s); err != nil {
		return err
	}
	info, err := os.Stat(s)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

func validateSeconds(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%q is not a number of seconds", s)
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}
