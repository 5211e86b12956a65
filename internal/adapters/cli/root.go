package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFlag   string
	quietFlag    bool
	detachedFlag bool
	timeoutFlag  string
	verboseFlag  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tubekit",
		Short: "Download YouTube videos and edit them with ffmpeg",
		Long: `tubekit is a CLI tool that downloads YouTube videos with yt-dlp
and slices, crops, resizes, compresses or inspects them with ffmpeg
and ffprobe.

Run without arguments for an interactive menu.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runRoot,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.tubekit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Capture tool output instead of showing it")
	rootCmd.PersistentFlags().BoolVar(&detachedFlag, "detached", false, "Run tools in their own process group")
	rootCmd.PersistentFlags().StringVar(&timeoutFlag, "timeout", "", "Kill tools running longer than this (e.g., 90s, 30m, 2h)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(NewInfoCmd())
	rootCmd.AddCommand(NewDurationCmd())
	rootCmd.AddCommand(NewFrameRateCmd())
	rootCmd.AddCommand(NewCompressCmd())
	rootCmd.AddCommand(NewSliceCmd())
	rootCmd.AddCommand(NewCropCmd())
	rootCmd.AddCommand(NewResizeCmd())
	rootCmd.AddCommand(NewFPSCmd())
	rootCmd.AddCommand(NewThumbnailCmd())
	rootCmd.AddCommand(NewDownloadCmd())
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewDepsCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	return runInteractiveMenu(cmd)
}

// Execute runs the CLI. An interrupt cancels the command context, which
// kills any running tool.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
