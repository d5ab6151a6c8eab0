package cluster

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/services/tasks"
)

// mergeProgress folds shard results, given in shard order, into one.
func mergeProgress(taskID uuid.UUID, progresses ...*tasks.TaskProgress) *tasks.TaskProgress {
	merged := &tasks.TaskProgress{
		TaskID: taskID,
		Status: tasks.StatusNotStarted,
	}

	if len(progresses) == 0 {
		return merged
	}

	var errs []string
	failed := false
	cancelled := false
	allDone := true

	for _, progress := range progresses {
		merged.Count += progress.Count
		merged.Phrases = append(merged.Phrases, progress.Phrases...)
		merged.ElapsedMS = max(merged.ElapsedMS, progress.ElapsedMS)

		switch progress.Status {
		case tasks.StatusReady:
		case tasks.StatusError:
			failed = true
			errs = append(errs, progress.Error)
		case tasks.StatusCancelled:
			cancelled = true
		default:
			allDone = false
		}
	}

	switch {
	case failed:
		merged.Status = tasks.StatusError
		merged.Error = strings.Join(errs, "; ")
	case cancelled:
		merged.Status = tasks.StatusCancelled
	case allDone:
		merged.Status = tasks.StatusReady
	default:
		merged.Status = tasks.StatusInProgress
	}

	if merged.Status != tasks.StatusReady {
		merged.Count = 0
		merged.Phrases = nil
	}

	return merged
}
