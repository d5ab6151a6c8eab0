package tasks

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	CreateTask(ctx context.Context, task *Task) error
	DoTask(ctx context.Context, taskID uuid.UUID) error
	TaskProgress(ctx context.Context, taskID uuid.UUID) (*TaskProgress, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
}
