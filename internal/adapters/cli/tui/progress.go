package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StepStatus represents the state of a progress step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepError
)

// ProgressStep represents a single step in the progress
type ProgressStep struct {
	Name   string
	Status StepStatus
	Error  string
}

// Output is a labelled file listed once all steps finish
type Output struct {
	Label string
	Path  string
}

// ProgressDisplay manages multi-step progress output. A disabled display
// records state but writes nothing.
type ProgressDisplay struct {
	out        io.Writer
	steps      []ProgressStep
	spinnerIdx int
	enabled    bool
	mu         sync.Mutex
	rendered   bool
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewProgressDisplay creates a new progress display writing to out
func NewProgressDisplay(out io.Writer, steps []string, enabled bool) *ProgressDisplay {
	pd := &ProgressDisplay{
		out:     out,
		steps:   make([]ProgressStep, len(steps)),
		enabled: enabled,
	}
	for i, name := range steps {
		pd.steps[i] = ProgressStep{Name: name, Status: StepPending}
	}
	return pd
}

// Enabled reports whether the display draws anything
func (p *ProgressDisplay) Enabled() bool {
	return p.enabled
}

// StartStep marks a step as running
func (p *ProgressDisplay) StartStep(index int) {
	p.set(index, StepRunning, "")
}

// CompleteStep marks a step as complete
func (p *ProgressDisplay) CompleteStep(index int) {
	p.set(index, StepComplete, "")
}

// FailStep marks a step as failed
func (p *ProgressDisplay) FailStep(index int, err string) {
	p.set(index, StepError, err)
}

// Status returns the current status of a step
func (p *ProgressDisplay) Status(index int) StepStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.steps) {
		return StepPending
	}
	return p.steps[index].Status
}

func (p *ProgressDisplay) set(index int, status StepStatus, errMsg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Status = status
		p.steps[index].Error = errMsg
		p.render()
	}
}

// Tick advances the spinner animation
func (p *ProgressDisplay) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
	p.render()
}

func (p *ProgressDisplay) render() {
	if !p.enabled {
		return
	}

	// Redraw in place: move up over the previous frame and clear it
	if p.rendered {
		fmt.Fprintf(p.out, "\033[%dA", len(p.steps))
		fmt.Fprint(p.out, "\033[J")
	}

	total := len(p.steps)
	for i, step := range p.steps {
		stepNum := fmt.Sprintf("[%d/%d]", i+1, total)

		var status string
		switch step.Status {
		case StepPending:
			status = " "
		case StepRunning:
			status = spinnerFrames[p.spinnerIdx]
		case StepComplete:
			status = "✓"
		case StepError:
			status = errorStyle.Render("✗ " + step.Error)
		}

		fmt.Fprintf(p.out, "%s %s... %s\n", stepNum, step.Name, status)
	}

	p.rendered = true
}

// Complete prints the final success message
func (p *ProgressDisplay) Complete(outputs []Output) {
	if !p.enabled {
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "✓ Complete!")
	for _, o := range outputs {
		fmt.Fprintf(p.out, "  %s: %s\n", o.Label, o.Path)
	}
}

// StartSpinner starts a goroutine that ticks the spinner until done is closed
func (p *ProgressDisplay) StartSpinner() chan struct{} {
	done := make(chan struct{})
	if !p.enabled {
		return done
	}
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.Tick()
			}
		}
	}()
	return done
}
