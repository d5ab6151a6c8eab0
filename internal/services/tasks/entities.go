package tasks

import (
	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/search"
)

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusError      Status = "ERROR"
	StatusCancelled  Status = "CANCELLED"
)

type Status string

func (s Status) Finished() bool {
	return s == StatusReady || s == StatusError || s == StatusCancelled
}

const (
	ModeCount Mode = "count"
	ModeList  Mode = "list"
)

type Mode string

// Task is one search request. A zero Shard searches every first word.
type Task struct {
	TaskID       uuid.UUID    `json:"task_id"`
	Alphabet     string       `json:"alphabet"`
	TargetLength int          `json:"target_length"`
	Mode         Mode         `json:"mode"`
	Strategy     string       `json:"strategy,omitempty"`
	Workers      int          `json:"workers,omitempty"`
	Shard        search.Shard `json:"shard"`
}

type TaskProgress struct {
	TaskID    uuid.UUID `json:"task_id"`
	Status    Status    `json:"status"`
	Count     uint64    `json:"count"`
	Phrases   []string  `json:"phrases,omitempty"`
	Error     string    `json:"error,omitempty"`
	ElapsedMS float64   `json:"elapsed_ms"`
}
