package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/services/tasks"
)

type Client interface {
	CreateTask(ctx context.Context, task *tasks.Task) (uuid.UUID, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
	DoTask(ctx context.Context, taskID uuid.UUID) error
	TaskProgress(ctx context.Context, taskID uuid.UUID) (*tasks.TaskProgress, error)

	Address() string
}
