package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PendingAssigner retries assignment of tickets created while no technician
// was free.
type PendingAssigner interface {
	AssignPendingTickets(ctx context.Context) (int, error)
}

// AssignmentWorker periodically sweeps pendent tickets.
type AssignmentWorker struct {
	assigner PendingAssigner
	interval time.Duration
	logger   *zap.Logger
}

// NewAssignmentWorker builds the worker. A non-positive interval disables it.
func NewAssignmentWorker(assigner PendingAssigner, interval time.Duration, logger *zap.Logger) *AssignmentWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentWorker{assigner: assigner, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (w *AssignmentWorker) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("pending assignment sweep disabled")
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("pending assignment sweep started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("pending assignment sweep stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *AssignmentWorker) sweep(ctx context.Context) {
	assigned, err := w.assigner.AssignPendingTickets(ctx)
	if err != nil {
		w.logger.Warn("pending assignment sweep failed", zap.Error(err))
		return
	}
	if assigned > 0 {
		w.logger.Info("pending tickets assigned", zap.Int("count", assigned))
	}
}
