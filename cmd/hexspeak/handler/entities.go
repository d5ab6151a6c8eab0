package handler

import (
	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/search"
)

// CreateTaskRequest mirrors tasks.Task; TaskID may be left empty.
type CreateTaskRequest struct {
	TaskID       uuid.UUID    `json:"task_id"`
	Alphabet     string       `json:"alphabet" validate:"required"`
	TargetLength int          `json:"target_length" validate:"gte=0"`
	Mode         string       `json:"mode" validate:"omitempty,oneof=count list"`
	Strategy     string       `json:"strategy" validate:"omitempty,oneof=recursive frontier"`
	Workers      int          `json:"workers" validate:"gte=0,lte=1024"`
	Shard        ShardRequest `json:"shard"`
}

type ShardRequest struct {
	Index int `json:"index" validate:"gte=0"`
	Total int `json:"total" validate:"gte=0"`
}

func (s ShardRequest) shard() search.Shard {
	return search.Shard{Index: s.Index, Total: s.Total}
}

type CreateTaskResponse struct {
	TaskID uuid.UUID `json:"task_id"`
}
