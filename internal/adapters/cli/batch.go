package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devbush/tubekit/internal/adapters/cli/tui"
	"github.com/devbush/tubekit/internal/application"
	"github.com/devbush/tubekit/internal/domain"
	"github.com/spf13/cobra"
)

const maxBatchConcurrency = 10

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	var (
		flags       downloadFlags
		file        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch [urls...]",
		Short: "Download several videos concurrently",
		Long: `Download several YouTube videos concurrently.

Provide URLs as arguments and/or via a file with --file. Duplicate
videos are downloaded once. Every video gets the same post-processing
flags as the download command. Tool output is always captured.

Example:
  tubekit batch https://youtu.be/abc123 https://youtu.be/def456
  tubekit batch --file videos.txt --concurrency 4 --thumbnail`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}

			ids, rejected, err := CollectInputs(app.fs, args, file)
			if err != nil {
				return fmt.Errorf("failed to collect inputs: %w", err)
			}
			for _, r := range rejected {
				app.Logger.Warn("skipping input that is not a YouTube video URL", "input", r)
			}
			if len(ids) == 0 {
				return domain.Invalid("url", "no valid YouTube video URLs provided")
			}

			base, err := flags.options(app, cmd.Flags(), "")
			if err != nil {
				return err
			}
			base.Options.Quiet = true

			svc, err := app.FetchService()
			if err != nil {
				return err
			}

			workers := min(max(concurrency, 1), maxBatchConcurrency)
			errOut := cmd.ErrOrStderr()
			progress := tui.NewBatchProgress(errOut, len(ids), !quietFlag && isTerminal(errOut))

			processBatch(cmd.Context(), svc, base, ids, workers, progress)
			progress.Complete()

			if failed := progress.FailureCount(); failed > 0 {
				return fmt.Errorf("%d of %d videos failed", failed, len(ids))
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&file, "file", "f", "", "File with URLs (one per line)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 3, fmt.Sprintf("Max concurrent downloads (max %d)", maxBatchConcurrency))

	return cmd
}

// fetcher is the part of FetchService a batch needs
type fetcher interface {
	Fetch(ctx context.Context, opts application.FetchOptions) (*application.FetchResult, error)
}

// processBatch fetches every id with at most workers in flight
func processBatch(ctx context.Context, svc fetcher, base application.FetchOptions, ids []string, workers int, progress *tui.BatchProgress) {
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}

		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			opts := base
			opts.URL = domain.WatchURL(id)

			result := tui.BatchResult{VideoID: id, Success: true}
			if _, err := svc.Fetch(ctx, opts); err != nil {
				result.Success = false
				result.ErrMsg = batchError(err)
			}
			result.Duration = time.Since(start)
			progress.AddResult(result)
		}(id)
	}

	wg.Wait()
}

// batchError keeps failure lines short: captured stderr can be long
func batchError(err error) string {
	var exitErr *domain.ProcessExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("%s exited with code %d", exitErr.Binary, exitErr.ExitCode)
	}
	return err.Error()
}
