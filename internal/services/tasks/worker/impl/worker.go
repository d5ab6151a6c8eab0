package impl

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/kestfor/hexspeak/internal/search"
	"github.com/kestfor/hexspeak/internal/services/tasks"
	"github.com/kestfor/hexspeak/internal/services/tasks/notifier"
	workerinterface "github.com/kestfor/hexspeak/internal/services/tasks/worker"
)

type workerImpl struct {
	progress atomic.Pointer[tasks.TaskProgress]
	engine   *search.Engine

	notifiers []notifier.Notifier
}

var _ workerinterface.Worker = (*workerImpl)(nil)

func NewWorker(engine *search.Engine, notifiers []notifier.Notifier) *workerImpl {
	return &workerImpl{
		engine:    engine,
		notifiers: notifiers,
	}
}

func (w *workerImpl) Progress() *tasks.TaskProgress {
	return w.progress.Load()
}

func (w *workerImpl) Do(ctx context.Context, task *tasks.Task) {
	w.progress.Store(&tasks.TaskProgress{
		TaskID: task.TaskID,
		Status: tasks.StatusInProgress,
	})

	start := time.Now()
	result := &tasks.TaskProgress{TaskID: task.TaskID}

	var err error
	switch task.Mode {
	case tasks.ModeList:
		var phrases []search.Phrase
		phrases, err = w.engine.Collect(ctx, task.TargetLength)
		result.Count = uint64(len(phrases))
		for _, p := range phrases {
			result.Phrases = append(result.Phrases, p.String())
		}
	default:
		result.Count, err = w.engine.Count(ctx, task.TargetLength)
	}

	result.ElapsedMS = float64(time.Since(start)) / float64(time.Millisecond)

	switch {
	case err == nil:
		result.Status = tasks.StatusReady
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result.Status = tasks.StatusCancelled
		result.Error = err.Error()
	default:
		result.Status = tasks.StatusError
		result.Error = err.Error()
	}

	if err != nil {
		result.Count = 0
		result.Phrases = nil
	}

	w.progress.Store(result)

	slog.Info("task finished",
		slog.String("task_id", task.TaskID.String()),
		slog.String("status", string(result.Status)),
		slog.Uint64("count", result.Count),
		slog.Float64("elapsed_ms", result.ElapsedMS),
	)

	for _, n := range w.notifiers {
		if err := n.Notify(result); err != nil {
			slog.Warn("notify failed",
				slog.String("task_id", task.TaskID.String()),
				slog.Any("error", err),
			)
		}
	}
}
