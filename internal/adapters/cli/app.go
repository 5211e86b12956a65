package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/devbush/tubekit/internal/adapters/ffmpeg"
	"github.com/devbush/tubekit/internal/adapters/ffprobe"
	"github.com/devbush/tubekit/internal/adapters/process"
	"github.com/devbush/tubekit/internal/adapters/ytdlp"
	"github.com/devbush/tubekit/internal/application"
	"github.com/devbush/tubekit/internal/config"
	"github.com/devbush/tubekit/internal/domain"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// AppOptions are the process-wide settings taken from global flags
type AppOptions struct {
	ConfigPath string
	Timeout    string // overrides defaults.timeout when set
	Verbose    bool
	Quiet      bool
	Detached   bool
	LogOutput  io.Writer
}

// App holds all application dependencies
type App struct {
	Config      *config.Config
	ConfigPath  string
	Logger      hclog.Logger
	Runner      *process.Executor
	Prober      *ffprobe.Prober
	Transformer *ffmpeg.Transformer
	Timeout     time.Duration // per-process deadline, zero for none

	fs     afero.Fs
	opts   AppOptions
	dlOnce sync.Once
	dl     *ytdlp.Downloader
	dlErr  error
}

// NewApp loads configuration and wires up all dependencies
func NewApp(fs afero.Fs, opts AppOptions) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}

	cfg, err := config.Load(fs, path)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, err
	}
	if opts.Timeout != "" {
		if timeout, err = config.ParseDuration(opts.Timeout); err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}
	}

	logOut := opts.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "tubekit",
		Level:  logLevel(cfg.Log.Level, opts.Verbose),
		Output: logOut,
		Color:  hclog.AutoColor,
	})

	runner := process.NewExecutor(process.Options{
		Logger:    logger.Named("process"),
		MaxOutput: cfg.MaxOutputBytes(),
		Timeout:   timeout,
	})

	prober := ffprobe.NewProber(runner, cfg.Paths.FFprobe, logger.Named("ffprobe")).
		WithFallbackFrameRate(cfg.Defaults.FallbackFrameRate)
	transformer := ffmpeg.NewTransformer(runner, cfg.Paths.FFmpeg, prober, logger.Named("ffmpeg"))

	logger.Debug("configuration loaded", "path", path, "timeout", timeout)

	return &App{
		Config:      cfg,
		ConfigPath:  path,
		Logger:      logger,
		Runner:      runner,
		Prober:      prober,
		Transformer: transformer,
		Timeout:     timeout,
		fs:          fs,
		opts:        opts,
	}, nil
}

// Downloader returns the yt-dlp facade. It is built on first use because
// construction checks a configured binary path, which commands that never
// download should not depend on.
func (a *App) Downloader() (*ytdlp.Downloader, error) {
	a.dlOnce.Do(func() {
		a.dl, a.dlErr = ytdlp.NewDownloader(a.Runner, a.Config.Paths.YtDlp, a.fs, a.Logger.Named("ytdlp"))
	})
	return a.dl, a.dlErr
}

// FetchService returns the download pipeline
func (a *App) FetchService() (*application.FetchService, error) {
	dl, err := a.Downloader()
	if err != nil {
		return nil, err
	}
	return application.NewFetchService(dl, a.Prober, a.Transformer), nil
}

// RunOptions returns the per-call options implied by the global flags
func (a *App) RunOptions() domain.RunOptions {
	return domain.RunOptions{
		Quiet:    a.opts.Quiet,
		Detached: a.opts.Detached,
	}
}

func logLevel(configured string, verbose bool) hclog.Level {
	if verbose {
		return hclog.Debug
	}
	level := hclog.LevelFromString(strings.TrimSpace(configured))
	if level == hclog.NoLevel {
		return hclog.Warn
	}
	return level
}

var (
	globalApp *App
	appMu     sync.Mutex
)

// GetApp returns the global app instance, creating it if needed
func GetApp() (*App, error) {
	appMu.Lock()
	defer appMu.Unlock()

	if globalApp == nil {
		app, err := NewApp(afero.NewOsFs(), AppOptions{
			ConfigPath: configFlag,
			Timeout:    timeoutFlag,
			Verbose:    verboseFlag,
			Quiet:      quietFlag,
			Detached:   detachedFlag,
		})
		if err != nil {
			return nil, err
		}
		globalApp = app
	}
	return globalApp, nil
}
