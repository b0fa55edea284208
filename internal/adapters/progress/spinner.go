package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// pipeline is the display order of lifecycle stages
var pipeline = []usecase.ExecutionStage{
	usecase.StageCompiling,
	usecase.StageSubmitting,
	usecase.StageWaiting,
	usecase.StageRecording,
	usecase.StageCompleted,
}

// SpinnerProgressReporter renders lifecycle progress as a spinner followed by
// the chain of stages seen so far
type SpinnerProgressReporter struct {
	mu             sync.Mutex
	out            io.Writer
	spinner        *spinner.Spinner
	stages         []stageInfo
	currentStage   usecase.ExecutionStage
	stageStartTime time.Time
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Message   string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
// writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
		stages:  []stageInfo{},
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stage := usecase.ExecutionStage(event.Stage)
	if isPipelineStage(stage) && stage != r.currentStage {
		r.enterStage(stage)
	}
	if len(r.stages) > 0 {
		r.stages[len(r.stages)-1].Message = event.Message
	}

	if stage == usecase.StageCompleted {
		r.spinner.Stop()
		r.printSummary(event.Message)
		r.reset()
		return
	}

	if event.Spinner {
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		r.spinner.Suffix = " " + r.display(event.Message)
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printPaused(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.mu.Lock()
	r.reset()
	r.mu.Unlock()
	r.printPaused(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) printPaused(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	c.Fprintln(r.out, message)
	if wasActive {
		r.spinner.Start()
	}
}

// enterStage completes the running stage and starts a new one
func (r *SpinnerProgressReporter) enterStage(stage usecase.ExecutionStage) {
	if len(r.stages) > 0 {
		idx := len(r.stages) - 1
		r.stages[idx].EndTime = time.Now()
		r.stages[idx].Status = "completed"
	}
	r.currentStage = stage
	r.stageStartTime = time.Now()
	r.stages = append(r.stages, stageInfo{
		Stage:     stage,
		StartTime: r.stageStartTime,
		Status:    "running",
	})
}

func (r *SpinnerProgressReporter) reset() {
	r.spinner.Stop()
	r.stages = r.stages[:0]
	r.currentStage = ""
}

// display renders the stage chain followed by the latest message
func (r *SpinnerProgressReporter) display(message string) string {
	var display string
	for i, stage := range r.stages {
		var icon string
		var stageColor *color.Color
		switch stage.Status {
		case "completed":
			icon = "✓"
			stageColor = color.New(color.FgGreen)
		case "running":
			icon = "●"
			stageColor = color.New(color.FgYellow)
		default:
			icon = "○"
			stageColor = color.New(color.FgWhite)
		}

		duration := ""
		if !stage.EndTime.IsZero() {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		} else if stage.Status == "running" {
			duration = fmt.Sprintf(" (%s)", time.Since(stage.StartTime).Round(time.Second))
		}

		if i > 0 {
			display += " → "
		}
		display += fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(string(stage.Stage)), duration)
	}

	if message == "" {
		return display
	}
	if display == "" {
		return message
	}
	return display + "  " + color.New(color.Faint).Sprint(message)
}

func (r *SpinnerProgressReporter) printSummary(message string) {
	if message == "" {
		return
	}
	color.New(color.FgGreen).Fprintf(r.out, "✓ %s\n", message)
}

func isPipelineStage(stage usecase.ExecutionStage) bool {
	return lo.Contains(pipeline, stage)
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
