package taskservice

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/kestfor/hexspeak/internal/search"
	"github.com/kestfor/hexspeak/internal/services/tasks"
	"github.com/kestfor/hexspeak/internal/services/tasks/notifier"
	workerinterface "github.com/kestfor/hexspeak/internal/services/tasks/worker"
	"github.com/kestfor/hexspeak/internal/services/tasks/worker/impl"
	"github.com/kestfor/hexspeak/internal/wordtable"
)

type entry struct {
	task   *tasks.Task
	worker workerinterface.Worker
	cancel context.CancelFunc
}

type taskService struct {
	config     Config
	dictionary []string
	notifiers  []notifier.Notifier

	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	tables  map[string]*wordtable.Table // alphabet letters -> table
	running int

	wg sync.WaitGroup
}

var _ tasks.Service = (*taskService)(nil)

// NewService serves searches over dictionary, which is filtered once per
// distinct alphabet and kept for the life of the service.
func NewService(config *Config, dictionary []string, notifiers ...notifier.Notifier) *taskService {
	return &taskService{
		config:     *config,
		dictionary: dictionary,
		notifiers:  notifiers,
		entries:    make(map[uuid.UUID]*entry),
		tables:     make(map[string]*wordtable.Table),
	}
}

func (s *taskService) CreateTask(ctx context.Context, task *tasks.Task) error {
	if err := s.normalize(task); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[task.TaskID]; ok {
		return tasks.ErrTaskAlreadyExists
	}

	s.entries[task.TaskID] = &entry{task: task}

	slog.Info("task created",
		slog.String("task_id", task.TaskID.String()),
		slog.String("alphabet", task.Alphabet),
		slog.Int("target_length", task.TargetLength),
		slog.String("mode", string(task.Mode)),
	)

	return nil
}

// DoTask starts the task in the background. Starting a started task is a no-op.
func (s *taskService) DoTask(ctx context.Context, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[taskID]
	if !ok {
		return tasks.ErrTaskNotFound
	}

	if e.worker != nil {
		return nil
	}

	if s.running >= s.config.MaxParallel {
		return tasks.ErrTooManyTasks
	}

	engine, err := s.engine(e.task)
	if err != nil {
		return err
	}

	runCtx, cancel := s.runContext(ctx)

	wrk := impl.NewWorker(engine, s.notifiers)
	e.worker = wrk
	e.cancel = cancel
	s.running++

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		wrk.Do(runCtx, e.task)

		s.mu.Lock()
		s.running--
		s.mu.Unlock()
	}()

	return nil
}

func (s *taskService) TaskProgress(ctx context.Context, taskID uuid.UUID) (*tasks.TaskProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[taskID]
	if !ok {
		return nil, tasks.ErrTaskNotFound
	}

	if e.worker == nil {
		return &tasks.TaskProgress{TaskID: taskID, Status: tasks.StatusNotStarted}, nil
	}

	progress := e.worker.Progress()
	if progress == nil {
		// started but the worker has not published anything yet
		return &tasks.TaskProgress{TaskID: taskID, Status: tasks.StatusInProgress}, nil
	}

	return progress, nil
}

// DeleteTask forgets the task and cancels it when running.
func (s *taskService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[taskID]
	if !ok {
		return tasks.ErrTaskNotFound
	}

	if e.cancel != nil {
		e.cancel()
	}
	delete(s.entries, taskID)

	return nil
}

// SetDictionary replaces the word list for tasks started from now on.
// Running tasks keep the table they started with.
func (s *taskService) SetDictionary(words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dictionary = words
	clear(s.tables)
}

// Close cancels every running task and waits for them to stop.
func (s *taskService) Close() {
	s.mu.Lock()
	for _, e := range s.entries {
		if e.cancel != nil {
			e.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// runContext detaches the task from the request that started it.
func (s *taskService) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if s.config.TaskTimeout > 0 {
		return context.WithTimeout(base, s.config.TaskTimeout)
	}
	return context.WithCancel(base)
}

func (s *taskService) normalize(task *tasks.Task) error {
	if task.TaskID == uuid.Nil {
		return fmt.Errorf("%w: task id is required", tasks.ErrInvalidTask)
	}

	if _, err := wordtable.ParseAlphabet(task.Alphabet); err != nil {
		return fmt.Errorf("%w: %w", tasks.ErrInvalidTask, err)
	}

	if task.TargetLength < 0 {
		return fmt.Errorf("%w: %w: target length must not be negative", tasks.ErrInvalidTask, search.ErrInvalidInput)
	}

	switch task.Mode {
	case "":
		task.Mode = tasks.ModeCount
	case tasks.ModeCount, tasks.ModeList:
	default:
		return fmt.Errorf("%w: unknown mode %q", tasks.ErrInvalidTask, task.Mode)
	}

	if task.Strategy == "" {
		task.Strategy = s.config.Strategy
	}
	strategy, err := search.ParseStrategy(task.Strategy)
	if err != nil {
		return fmt.Errorf("%w: %w", tasks.ErrInvalidTask, err)
	}
	task.Strategy = string(strategy)

	if task.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", tasks.ErrInvalidTask)
	}
	if task.Workers == 0 {
		task.Workers = s.config.Workers
	}

	if err := task.Shard.Validate(); err != nil {
		return fmt.Errorf("%w: %w", tasks.ErrInvalidTask, err)
	}

	return nil
}

// engine must be called with s.mu held.
func (s *taskService) engine(task *tasks.Task) (*search.Engine, error) {
	alphabet, err := wordtable.ParseAlphabet(task.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tasks.ErrInvalidTask, err)
	}

	table, ok := s.tables[alphabet.Letters()]
	if !ok {
		table = wordtable.Build(slices.Values(s.dictionary), alphabet)
		s.tables[alphabet.Letters()] = table

		slog.Debug("word table built",
			slog.String("alphabet", alphabet.String()),
			slog.Int("words", table.Len()),
		)
	}

	return search.NewEngine(table,
		search.WithStrategy(search.Strategy(task.Strategy)),
		search.WithWorkers(task.Workers),
		search.WithShard(task.Shard),
	), nil
}
