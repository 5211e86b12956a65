package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/devbush/tubekit/internal/adapters/cli/tui"
	"github.com/devbush/tubekit/internal/application"
	"github.com/devbush/tubekit/internal/domain"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// downloadFlags are shared by download and batch
type downloadFlags struct {
	dir       string
	overwrite bool
	quality   string
	from      float64
	to        float64
	encode    bool
	thumbnail bool
	at        float64
	compress  bool
}

func (f *downloadFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.dir, "dir", "d", "", "Destination directory (default from config)")
	flags.BoolVar(&f.overwrite, "overwrite", false, "Replace files that already exist")
	flags.StringVar(&f.quality, "quality", "", "Format preference: default or high")
	flags.Float64Var(&f.from, "from", 0, "Slice start in seconds")
	flags.Float64Var(&f.to, "to", 0, "Slice end in seconds")
	flags.BoolVar(&f.encode, "encode", false, "Re-encode the slice instead of copying streams")
	flags.BoolVar(&f.thumbnail, "thumbnail", false, "Save a thumbnail next to the video")
	flags.Float64Var(&f.at, "at", 0, "Thumbnail timestamp in seconds")
	flags.BoolVar(&f.compress, "compress", false, "Save a compressed copy")
}

// options merges flags over configuration defaults. Flags that were not
// given on the command line fall back to the config file.
func (f *downloadFlags) options(app *App, flags *pflag.FlagSet, url string) (application.FetchOptions, error) {
	opts := defaultFetchOptions(app, url)
	opts.Encode = f.encode
	opts.Thumbnail = f.thumbnail
	opts.ThumbnailAt = f.at
	opts.Compress = f.compress

	if flags.Changed("dir") {
		opts.Dir = f.dir
	}
	if flags.Changed("overwrite") {
		opts.Overwrite = f.overwrite
	}

	if flags.Changed("quality") {
		q, err := domain.ParseQuality(f.quality)
		if err != nil {
			return opts, err
		}
		opts.Quality = q
	}

	if flags.Changed("from") || flags.Changed("to") {
		if !flags.Changed("to") {
			return opts, domain.Invalid("range", "--to is required with --from")
		}
		opts.Range = &domain.TimeRange{In: f.from, Out: f.to}
	}

	return opts, nil
}

// defaultFetchOptions builds a download of url using the config defaults.
// An unrecognized configured quality falls back to the default format.
func defaultFetchOptions(app *App, url string) application.FetchOptions {
	quality, err := domain.ParseQuality(app.Config.Defaults.Quality)
	if err != nil {
		app.Logger.Warn("ignoring configured quality", "error", err)
		quality = domain.QualityDefault
	}
	return application.FetchOptions{
		URL:       url,
		Dir:       app.Config.Defaults.DownloadDir,
		Overwrite: app.Config.Defaults.Overwrite,
		Quality:   quality,
		Options:   app.RunOptions(),
	}
}

// NewDownloadCmd creates the download command
func NewDownloadCmd() *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Download a YouTube video and optionally post-process it",
		Long: `Download a YouTube video with yt-dlp, then optionally cut a slice,
save a thumbnail and write a compressed copy.

Example:
  tubekit download https://www.youtube.com/watch?v=abc123
  tubekit download https://youtu.be/abc123 --quality high --from 4 --to 10 --thumbnail`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			opts, err := flags.options(app, cmd.Flags(), args[0])
			if err != nil {
				return err
			}
			return runFetch(cmd, app, opts)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func runFetch(cmd *cobra.Command, app *App, opts application.FetchOptions) error {
	svc, err := app.FetchService()
	if err != nil {
		return err
	}

	steps := opts.Steps()
	names := make([]string, len(steps))
	index := make(map[application.Step]int, len(steps))
	for i, s := range steps {
		names[i] = s.String()
		index[s] = i
	}

	errOut := cmd.ErrOrStderr()
	progress := tui.NewProgressDisplay(errOut, names, !quietFlag && isTerminal(errOut))

	if progress.Enabled() {
		// Tool output would tear the redrawn progress lines
		opts.Options.Quiet = true
	}
	opts.Progress = func(ev application.StepEvent) {
		i := index[ev.Step]
		switch {
		case !ev.Done:
			progress.StartStep(i)
			if !progress.Enabled() && !quietFlag {
				fmt.Fprintf(errOut, "==> %s\n", ev.Step)
			}
		case ev.Err != nil:
			progress.FailStep(i, ev.Err.Error())
		default:
			progress.CompleteStep(i)
		}
	}

	spinnerDone := progress.StartSpinner()
	result, err := svc.Fetch(cmd.Context(), opts)
	close(spinnerDone)
	if err != nil {
		return err
	}

	outputs := fetchOutputs(result)
	if progress.Enabled() {
		progress.Complete(outputs)
		return nil
	}
	for _, o := range outputs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", o.Label, o.Path)
	}
	return nil
}

func fetchOutputs(result *application.FetchResult) []tui.Output {
	outputs := []tui.Output{{Label: "Video", Path: result.Download.VideoPath}}
	if result.SlicePath != "" {
		outputs = append(outputs, tui.Output{Label: "Slice", Path: result.SlicePath})
	}
	if result.ThumbnailPath != "" {
		outputs = append(outputs, tui.Output{Label: "Thumbnail", Path: result.ThumbnailPath})
	}
	if result.CompressPath != "" {
		outputs = append(outputs, tui.Output{Label: "Compressed", Path: result.CompressPath})
	}
	return outputs
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
