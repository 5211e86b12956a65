package application

import (
	"context"
	"errors"
	"testing"

	"github.com/devbush/tubekit/internal/domain"
	"github.com/devbush/tubekit/internal/ports"
)

// Mock implementations for testing
type mockDownloader struct {
	err       error
	videoPath string
	req       domain.DownloadRequest
}

func (m *mockDownloader) DownloadVideo(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	id, err := domain.ParseVideoURL(req.URL)
	if err != nil {
		return nil, err
	}
	return &domain.DownloadResult{
		VideoID:   id,
		URL:       domain.WatchURL(id),
		Dir:       req.Dir,
		VideoPath: m.videoPath,
	}, nil
}

func (m *mockDownloader) GetBinaryPath() string                          { return "yt-dlp" }
func (m *mockDownloader) GetVersion(ctx context.Context) (string, error) { return "2025.01.01", nil }
func (m *mockDownloader) Update(ctx context.Context) error               { return nil }

type mockProber struct {
	info *domain.MediaInfo
	err  error
}

func (m *mockProber) GetDuration(ctx context.Context, path string) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.info.Duration, nil
}

func (m *mockProber) GetInfo(ctx context.Context, path string) (*domain.MediaInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	info := *m.info
	info.Filename = path
	return &info, nil
}

func (m *mockProber) GetFrameRate(ctx context.Context, path string) float64 { return 30 }
func (m *mockProber) GetVersion(ctx context.Context) (string, error)        { return "ffprobe 7.0", nil }

type transformCall struct {
	op     string
	input  string
	output string
}

type mockTransformer struct {
	calls    []transformCall
	failOn   string
	sliceOpt ports.SliceOptions
	thumbAt  float64
}

func (m *mockTransformer) record(op, input, output string) error {
	m.calls = append(m.calls, transformCall{op: op, input: input, output: output})
	if m.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (m *mockTransformer) Compress(ctx context.Context, input, output string, opts domain.RunOptions) error {
	return m.record("compress", input, output)
}

func (m *mockTransformer) CreateSlice(ctx context.Context, input, output string, r domain.TimeRange, slice ports.SliceOptions, opts domain.RunOptions) (string, error) {
	m.sliceOpt = slice
	if err := m.record("slice", input, output); err != nil {
		return "", err
	}
	return output, nil
}

func (m *mockTransformer) Crop(ctx context.Context, input, output string, rect ports.CropRect, opts domain.RunOptions) error {
	return m.record("crop", input, output)
}

func (m *mockTransformer) Resize(ctx context.Context, input, output string, width, height int, opts domain.RunOptions) error {
	return m.record("resize", input, output)
}

func (m *mockTransformer) ChangeFrameRate(ctx context.Context, input, output string, fps float64, opts domain.RunOptions) error {
	return m.record("fps", input, output)
}

func (m *mockTransformer) SaveThumbnail(ctx context.Context, input, output string, at float64, opts domain.RunOptions) error {
	m.thumbAt = at
	return m.record("thumbnail", input, output)
}

func (m *mockTransformer) GetVersion(ctx context.Context) (string, error) { return "ffmpeg 7.0", nil }

const testURL = "https://www.youtube.com/watch?v=abc123"

func newTestService() (*FetchService, *mockDownloader, *mockTransformer) {
	downloader := &mockDownloader{videoPath: "/videos/abc123.mp4"}
	prober := &mockProber{info: &domain.MediaInfo{CodecName: "vp9", Duration: 12.5}}
	transformer := &mockTransformer{}
	return NewFetchService(downloader, prober, transformer), downloader, transformer
}

func TestFetchService_Fetch_DownloadOnly(t *testing.T) {
	svc, downloader, transformer := newTestService()

	result, err := svc.Fetch(context.Background(), FetchOptions{
		URL:     testURL,
		Dir:     "/videos",
		Quality: domain.QualityHigh,
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if result.Download.VideoID != "abc123" {
		t.Errorf("VideoID = %s, want abc123", result.Download.VideoID)
	}
	if result.Info.CodecName != "vp9" {
		t.Errorf("CodecName = %s, want vp9", result.Info.CodecName)
	}
	if downloader.req.Quality != domain.QualityHigh {
		t.Errorf("Quality = %s, want high", downloader.req.Quality)
	}
	if len(transformer.calls) != 0 {
		t.Errorf("expected no transform calls, got %v", transformer.calls)
	}
}

func TestFetchService_Fetch_AllSteps(t *testing.T) {
	svc, _, transformer := newTestService()

	var events []StepEvent
	result, err := svc.Fetch(context.Background(), FetchOptions{
		URL:         testURL,
		Dir:         "/videos",
		Range:       &domain.TimeRange{In: 4, Out: 10},
		Encode:      true,
		Thumbnail:   true,
		ThumbnailAt: 1.5,
		Compress:    true,
		Progress:    func(ev StepEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := []transformCall{
		{op: "slice", input: "/videos/abc123.mp4", output: "/videos/abc123_4-10.mp4"},
		{op: "thumbnail", input: "/videos/abc123_4-10.mp4", output: "/videos/abc123.jpg"},
		{op: "compress", input: "/videos/abc123_4-10.mp4", output: "/videos/abc123_4-10_compressed.mp4"},
	}
	if len(transformer.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", transformer.calls, want)
	}
	for i := range want {
		if transformer.calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, transformer.calls[i], want[i])
		}
	}

	if !transformer.sliceOpt.Encode {
		t.Error("expected Encode to be forwarded to CreateSlice")
	}
	if transformer.thumbAt != 1.5 {
		t.Errorf("thumbnail at = %v, want 1.5", transformer.thumbAt)
	}
	if result.SlicePath != "/videos/abc123_4-10.mp4" {
		t.Errorf("SlicePath = %s", result.SlicePath)
	}
	if result.ThumbnailPath != "/videos/abc123.jpg" {
		t.Errorf("ThumbnailPath = %s", result.ThumbnailPath)
	}
	if result.CompressPath != "/videos/abc123_4-10_compressed.mp4" {
		t.Errorf("CompressPath = %s", result.CompressPath)
	}

	// start + done per step
	if len(events) != 10 {
		t.Fatalf("got %d progress events, want 10", len(events))
	}
	if events[0].Step != StepDownload || events[0].Done {
		t.Errorf("first event = %+v", events[0])
	}
	if last := events[len(events)-1]; last.Step != StepCompress || !last.Done || last.Err != nil {
		t.Errorf("last event = %+v", last)
	}
}

func TestFetchService_Fetch_StopsAtFirstFailure(t *testing.T) {
	svc, _, transformer := newTestService()
	transformer.failOn = "slice"

	result, err := svc.Fetch(context.Background(), FetchOptions{
		URL:       testURL,
		Range:     &domain.TimeRange{In: 0, Out: 5},
		Thumbnail: true,
		Compress:  true,
	})
	if err == nil {
		t.Fatal("expected error when slicing fails")
	}
	if result == nil || result.Download == nil {
		t.Fatal("expected partial result with the download")
	}
	if len(transformer.calls) != 1 {
		t.Errorf("expected pipeline to stop after slice, got %v", transformer.calls)
	}
}

func TestFetchService_Fetch_InvalidRangeBeforeDownload(t *testing.T) {
	svc, downloader, _ := newTestService()

	_, err := svc.Fetch(context.Background(), FetchOptions{
		URL:   testURL,
		Range: &domain.TimeRange{In: 8, Out: 3},
	})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if downloader.req.URL != "" {
		t.Error("downloader should not be called for an invalid range")
	}
}

func TestFetchService_Fetch_DownloadErrors(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		err       error
		videoPath string
		want      error
	}{
		{name: "invalid url", url: "https://vimeo.com/1", want: domain.ErrInvalidURL},
		{name: "downloader failure", url: testURL, err: &domain.ProcessExitError{Binary: "yt-dlp", ExitCode: 1}},
		{name: "file not located", url: testURL, want: ErrVideoNotLocated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downloader := &mockDownloader{err: tt.err, videoPath: tt.videoPath}
			svc := NewFetchService(downloader, &mockProber{info: &domain.MediaInfo{}}, &mockTransformer{})

			_, err := svc.Fetch(context.Background(), FetchOptions{URL: tt.url})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var exitErr *domain.ProcessExitError
			if tt.err != nil && !errors.As(err, &exitErr) {
				t.Errorf("expected ProcessExitError, got %v", err)
			}
		})
	}
}

func TestFetchService_Fetch_NotLocatedKeepsDownload(t *testing.T) {
	downloader := &mockDownloader{}
	svc := NewFetchService(downloader, &mockProber{info: &domain.MediaInfo{}}, &mockTransformer{})

	result, err := svc.Fetch(context.Background(), FetchOptions{URL: testURL, Dir: "/videos"})
	if !errors.Is(err, ErrVideoNotLocated) {
		t.Fatalf("error = %v, want ErrVideoNotLocated", err)
	}
	if result == nil || result.Download == nil {
		t.Fatal("expected the download result alongside the error")
	}
	if result.Download.VideoID != "abc123" || result.Download.Dir != "/videos" {
		t.Errorf("Download = %+v", result.Download)
	}
}

func TestFetchOptions_Steps(t *testing.T) {
	opts := FetchOptions{Range: &domain.TimeRange{In: 0, Out: 1}, Compress: true}
	steps := opts.Steps()
	want := []Step{StepDownload, StepProbe, StepSlice, StepCompress}
	if len(steps) != len(want) {
		t.Fatalf("Steps() = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, steps[i], want[i])
		}
	}
}
