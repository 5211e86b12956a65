package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/devbush/tubekit/internal/adapters/process"
	"github.com/spf13/cobra"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Inspect external tools (ffmpeg, ffprobe, yt-dlp)",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show where each tool is and which version it is",
		Args:  cobra.NoArgs,
		RunE:  runDepsStatus,
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update yt-dlp to the latest version (yt-dlp -U)",
		Args:  cobra.NoArgs,
		RunE:  runDepsUpdate,
	}

	cmd.AddCommand(statusCmd, updateCmd)
	return cmd
}

// versioned is implemented by every tool facade
type versioned interface {
	GetVersion(ctx context.Context) (string, error)
	GetBinaryPath() string
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Dependency Status:")
	fmt.Fprintln(out)

	printToolStatus(cmd.Context(), out, "ffmpeg", app.Transformer)
	printToolStatus(cmd.Context(), out, "ffprobe", app.Prober)

	dl, err := app.Downloader()
	if err != nil {
		fmt.Fprintf(out, "  %-9s not found (%v)\n", "yt-dlp:", err)
	} else {
		printToolStatus(cmd.Context(), out, "yt-dlp", dl)
	}
	fmt.Fprintln(out)

	return nil
}

func printToolStatus(ctx context.Context, out io.Writer, name string, tool versioned) {
	label := name + ":"
	path, err := process.Resolve(tool.GetBinaryPath())
	if err != nil {
		fmt.Fprintf(out, "  %-9s not found\n", label)
		return
	}

	version, err := tool.GetVersion(ctx)
	if err != nil {
		fmt.Fprintf(out, "  %-9s installed (%s), version unknown: %v\n", label, path, err)
		return
	}
	fmt.Fprintf(out, "  %-9s %s (%s)\n", label, version, path)
}

func runDepsUpdate(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	dl, err := app.Downloader()
	if err != nil {
		return err
	}
	if _, err := process.Resolve(dl.GetBinaryPath()); err != nil {
		return fmt.Errorf("yt-dlp is not installed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Updating yt-dlp...")

	if err := dl.Update(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "yt-dlp updated")
	return nil
}
