package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// renderProgressBar creates a text progress bar like [=====>    ]
func renderProgressBar(current, total, width int) string {
	if total <= 0 || current <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}
	if current >= total {
		return "[" + strings.Repeat("=", width) + "]"
	}

	filled := current * width / total
	if filled > width-1 {
		filled = width - 1
	}
	return "[" + strings.Repeat("=", filled) + ">" + strings.Repeat(" ", width-filled-1) + "]"
}

// BatchResult is the outcome of one video in a batch
type BatchResult struct {
	VideoID  string
	Success  bool
	ErrMsg   string
	Duration time.Duration
}

// BatchProgress renders a running batch: a bar plus the last results
type BatchProgress struct {
	out       io.Writer
	total     int
	completed int
	results   []BatchResult
	failures  []BatchResult
	enabled   bool
	mu        sync.Mutex
	lines     int
}

const batchVisibleResults = 10

// NewBatchProgress creates a new batch progress display
func NewBatchProgress(out io.Writer, total int, enabled bool) *BatchProgress {
	if total < 0 {
		total = 0
	}
	return &BatchProgress{
		out:     out,
		total:   total,
		enabled: enabled,
	}
}

// AddResult records a finished video and redraws. Safe for concurrent use.
func (bp *BatchProgress) AddResult(r BatchResult) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.results = append(bp.results, r)
	bp.completed++
	if !r.Success {
		bp.failures = append(bp.failures, r)
	}

	bp.render()
}

func (bp *BatchProgress) render() {
	if !bp.enabled {
		return
	}

	if bp.lines > 0 {
		fmt.Fprintf(bp.out, "\033[%dA", bp.lines)
		fmt.Fprint(bp.out, "\033[J")
	}

	percent := 0
	if bp.total > 0 {
		percent = bp.completed * 100 / bp.total
	}
	fmt.Fprintf(bp.out, "Downloading %d/%d videos %s %d%%\n",
		bp.completed, bp.total, renderProgressBar(bp.completed, bp.total, 20), percent)

	start := max(0, len(bp.results)-batchVisibleResults)
	for _, r := range bp.results[start:] {
		if r.Success {
			fmt.Fprintf(bp.out, "✓ %s (%.1fs)\n", r.VideoID, r.Duration.Seconds())
		} else {
			fmt.Fprintf(bp.out, "✗ %s: %s\n", r.VideoID, r.ErrMsg)
		}
	}

	bp.lines = 1 + len(bp.results) - start
}

// Complete prints the final summary. It is printed even when the live
// display is disabled.
func (bp *BatchProgress) Complete() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	succeeded := bp.completed - len(bp.failures)

	fmt.Fprintln(bp.out)
	fmt.Fprintf(bp.out, "Batch complete: %d/%d succeeded\n", succeeded, bp.total)

	if len(bp.failures) > 0 {
		fmt.Fprintln(bp.out, "\nFailures:")
		for _, f := range bp.failures {
			fmt.Fprintf(bp.out, "  ✗ %s: %s\n", f.VideoID, f.ErrMsg)
		}
	}
}

// FailureCount returns the number of failed results
func (bp *BatchProgress) FailureCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.failures)
}
