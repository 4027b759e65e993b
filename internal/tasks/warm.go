package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pagebuilder_app_echo/internal/logging"
	"pagebuilder_app_echo/internal/models"
	"pagebuilder_app_echo/internal/pagedata"
)

// Refresher re-reads a page from its source and rewrites the shared cache entry
type Refresher interface {
	Refresh(ctx context.Context, path string, opts pagedata.FetchOptions) (*models.PageDescriptor, error)
}

// WarmResult summarizes one warming run
type WarmResult struct {
	Warmed  []string
	Absent  []string
	Failed  map[string]error
	Runtime time.Duration
}

// WarmTask keeps the descriptor cache hot for a fixed set of lookup paths
type WarmTask struct {
	refresher   Refresher
	paths       []string
	concurrency int
}

// NewWarmTask creates a task refreshing paths with at most concurrency requests in flight
func NewWarmTask(refresher Refresher, paths []string, concurrency int) *WarmTask {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WarmTask{refresher: refresher, paths: paths, concurrency: concurrency}
}

// Run refreshes every path once. A failing path does not stop the others.
func (t *WarmTask) Run(ctx context.Context) WarmResult {
	start := time.Now()
	type outcome struct {
		path  string
		found bool
		err   error
	}
	outcomes := make([]outcome, len(t.paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i, path := range t.paths {
		g.Go(func() error {
			desc, err := t.refresher.Refresh(gctx, path, pagedata.FetchOptions{Origin: pagedata.OriginServer})
			outcomes[i] = outcome{path: path, found: desc != nil, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := WarmResult{Failed: make(map[string]error)}
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			result.Failed[o.path] = o.err
			logging.Error("Failed to warm page", zap.String("path", o.path), zap.Error(o.err))
		case o.found:
			result.Warmed = append(result.Warmed, o.path)
		default:
			result.Absent = append(result.Absent, o.path)
		}
	}
	result.Runtime = time.Since(start)

	logging.Info("Page cache warmed",
		zap.Int("warmed", len(result.Warmed)),
		zap.Int("absent", len(result.Absent)),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("runtime", result.Runtime))
	return result
}

// RunOnSchedule runs task immediately and then at every occurrence of schedule
// until ctx is cancelled or the schedule is exhausted
func RunOnSchedule(ctx context.Context, schedule *Schedule, task *WarmTask) {
	task.Run(ctx)

	for {
		next := schedule.Next(time.Now())
		if next.IsZero() {
			logging.Info("Warm schedule exhausted")
			return
		}
		logging.Debug("Next warm run", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			task.Run(ctx)
		}
	}
}
