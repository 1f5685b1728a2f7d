// ABOUTME: Training trigger with an at-most-one in-flight guard
// ABOUTME: Tracks idle, in-flight and done states with the outcome text

package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrTrainingInFlight is returned when a training request is already running.
var ErrTrainingInFlight = errors.New("training already in progress")

// Training status texts.
const (
	trainedPrefix     = "✅ Model trained: "
	failedPrefix      = "❌ Training failed: "
	requestFailedText = "❌ Training failed. Check server logs."
)

// TrainState is the trigger's lifecycle state.
type TrainState int

const (
	TrainIdle TrainState = iota
	TrainInFlight
	TrainDone
)

func (s TrainState) String() string {
	switch s {
	case TrainInFlight:
		return "in-flight"
	case TrainDone:
		return "done"
	default:
		return "idle"
	}
}

// TrainStatus is a snapshot of the trigger.
type TrainStatus struct {
	State     TrainState
	Text      string
	Succeeded bool
}

// InFlight reports whether the action control should be disabled.
func (s TrainStatus) InFlight() bool {
	return s.State == TrainInFlight
}

// Trainer triggers model training on the backend.
type Trainer struct {
	backend Backend
	logger  *slog.Logger

	mu     sync.Mutex
	status TrainStatus
}

// NewTrainer creates an idle trainer.
func NewTrainer(backend Backend) *Trainer {
	return &Trainer{
		backend: backend,
		logger:  slog.Default().With("component", "trainer"),
	}
}

// Snapshot returns the current status.
func (t *Trainer) Snapshot() TrainStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// begin marks the trainer in flight and clears the previous outcome.
func (t *Trainer) begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.State == TrainInFlight {
		return ErrTrainingInFlight
	}
	t.status = TrainStatus{State: TrainInFlight}
	return nil
}

// Run triggers training and waits for the outcome.
func (t *Trainer) Run(ctx context.Context) (TrainStatus, error) {
	if err := t.begin(); err != nil {
		return t.Snapshot(), err
	}
	return t.finish(ctx), nil
}

// Start triggers training in the background. The outcome is read with Snapshot.
func (t *Trainer) Start(ctx context.Context) error {
	if err := t.begin(); err != nil {
		return err
	}
	go t.finish(context.WithoutCancel(ctx))
	return nil
}

func (t *Trainer) finish(ctx context.Context) TrainStatus {
	status := TrainStatus{State: TrainDone}

	result, err := t.backend.Train(ctx)
	switch {
	case err != nil:
		t.logger.Error("training request failed", "error", err)
		status.Text = requestFailedText
	case result.Succeeded():
		status.Succeeded = true
		status.Text = trainedPrefix + firstNonEmpty(result.Stdout, result.Model, "Success")
	default:
		t.logger.Warn("training reported failure", "status", result.Status)
		status.Text = failedPrefix + firstNonEmpty(result.Stderr, "Unknown error")
	}

	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
	return status
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
