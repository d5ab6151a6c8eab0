package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/cmd/hexspeak/handler"
	"github.com/kestfor/hexspeak/internal/services/tasks"
	"github.com/kestfor/hexspeak/internal/services/tasks/taskservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers the task routes from memory. Every task becomes ready
// after readyAfter progress polls.
type fakeServer struct {
	mu         sync.Mutex
	readyAfter int
	polls      map[uuid.UUID]int
	deleted    []uuid.UUID
}

func newFakeServer(t *testing.T, readyAfter int) (*fakeServer, *httptest.Server) {
	t.Helper()

	f := &fakeServer{readyAfter: readyAfter, polls: make(map[uuid.UUID]int)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/tasks/", func(w http.ResponseWriter, r *http.Request) {
		var task tasks.Task
		if err := json.NewDecoder(r.Body).Decode(&task); err != nil || task.Alphabet == "" {
			http.Error(w, "bad task", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.polls[task.TaskID] = 0
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(createTaskResponse{TaskID: task.TaskID})
	})
	mux.HandleFunc("PUT /api/v1/tasks/{task_id}/do", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/v1/tasks/{task_id}/progress", func(w http.ResponseWriter, r *http.Request) {
		id := uuid.MustParse(r.PathValue("task_id"))

		f.mu.Lock()
		f.polls[id]++
		status := tasks.StatusInProgress
		if f.readyAfter > 0 && f.polls[id] >= f.readyAfter {
			status = tasks.StatusReady
		}
		f.mu.Unlock()

		_ = json.NewEncoder(w).Encode(tasks.TaskProgress{TaskID: id, Status: status, Count: 18})
	})
	mux.HandleFunc("DELETE /api/v1/tasks/{task_id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.deleted = append(f.deleted, uuid.MustParse(r.PathValue("task_id")))
		f.mu.Unlock()
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return f, server
}

func TestRun(t *testing.T) {
	f, server := newFakeServer(t, 3)
	c := NewHTTPClient(server.URL + "/")
	assert.Equal(t, server.URL, c.Address())

	task := &tasks.Task{TaskID: uuid.New(), Alphabet: "abcdef01", TargetLength: 5}
	progress, err := Run(context.Background(), c, task, time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, task.TaskID, progress.TaskID)
	assert.Equal(t, tasks.StatusReady, progress.Status)
	assert.Equal(t, uint64(18), progress.Count)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 3, f.polls[task.TaskID])
	assert.Equal(t, []uuid.UUID{task.TaskID}, f.deleted, "finished task must be freed")
}

func TestRun_FreesFinishedTasks(t *testing.T) {
	svc := taskservice.NewService(&taskservice.Config{MaxParallel: 4}, []string{"ace", "add", "bad", "bed", "cab", "dab", "fade", "a"})
	defer svc.Close()

	taskHandler := handler.NewHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/tasks/", taskHandler.HandleCreateTask)
	mux.HandleFunc("GET /api/v1/tasks/{task_id}/progress", taskHandler.HandleGetProgress)
	mux.HandleFunc("PUT /api/v1/tasks/{task_id}/do", taskHandler.HandleDoTask)
	mux.HandleFunc("DELETE /api/v1/tasks/{task_id}", taskHandler.HandleDeleteTask)

	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewHTTPClient(server.URL)

	for range 3 {
		task := &tasks.Task{TaskID: uuid.New(), Alphabet: "abcdef", TargetLength: 3, Mode: tasks.ModeList}

		progress, err := Run(context.Background(), c, task, time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, tasks.StatusReady, progress.Status)
		assert.NotEmpty(t, progress.Phrases)

		_, err = svc.TaskProgress(context.Background(), task.TaskID)
		assert.ErrorIs(t, err, tasks.ErrTaskNotFound)
	}
}

func TestRun_CancelledDeletesTask(t *testing.T) {
	f, server := newFakeServer(t, 0)
	c := NewHTTPClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	task := &tasks.Task{TaskID: uuid.New(), Alphabet: "abc", TargetLength: 40}
	_, err := Run(ctx, c, task, 5*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []uuid.UUID{task.TaskID}, f.deleted)
}

func TestHTTPClient_StatusError(t *testing.T) {
	_, server := newFakeServer(t, 1)
	c := NewHTTPClient(server.URL)

	_, err := c.CreateTask(context.Background(), &tasks.Task{TaskID: uuid.New()})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Equal(t, "bad task", statusErr.Message)
}

func TestHTTPClient_Unreachable(t *testing.T) {
	_, server := newFakeServer(t, 1)
	c := NewHTTPClient(server.URL)
	server.Close()

	_, err := c.TaskProgress(context.Background(), uuid.New())
	assert.Error(t, err)

	assert.Error(t, c.DoTask(context.Background(), uuid.New()))
}
