package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/services/tasks"
	"github.com/kestfor/hexspeak/pkg/validation"
)

type handler struct {
	service tasks.Service
}

func NewHandler(service tasks.Service) *handler {
	return &handler{
		service: service,
	}
}

func (h *handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	req := &CreateTaskRequest{}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.TaskID == uuid.Nil {
		req.TaskID = uuid.New()
	}

	task := &tasks.Task{
		TaskID:       req.TaskID,
		Alphabet:     req.Alphabet,
		TargetLength: req.TargetLength,
		Mode:         tasks.Mode(req.Mode),
		Strategy:     req.Strategy,
		Workers:      req.Workers,
		Shard:        req.Shard.shard(),
	}

	if err := h.service.CreateTask(r.Context(), task); err != nil {
		switch {
		case errors.Is(err, tasks.ErrInvalidTask):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, tasks.ErrTaskAlreadyExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, CreateTaskResponse{TaskID: task.TaskID})
}

func (h *handler) HandleDoTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	if err := h.service.DoTask(r.Context(), taskID); err != nil {
		switch {
		case errors.Is(err, tasks.ErrTaskNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, tasks.ErrTooManyTasks):
			http.Error(w, err.Error(), http.StatusTooManyRequests)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	progress, err := h.service.TaskProgress(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, progress)
}

func (h *handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		if errors.Is(err, tasks.ErrTaskNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func pathTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID := r.PathValue("task_id")

	if taskID == "" {
		http.Error(w, "task_id is required", http.StatusBadRequest)
		return uuid.Nil, false
	}

	parsed, err := uuid.Parse(taskID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}

	return parsed, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", slog.Any("error", err))
	}
}
