package worker

import (
	"context"

	"github.com/kestfor/hexspeak/internal/services/tasks"
)

type Worker interface {
	// Do runs the task to completion or until ctx is done.
	Do(ctx context.Context, task *tasks.Task)
	Progress() *tasks.TaskProgress
}
