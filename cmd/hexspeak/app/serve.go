package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/kestfor/hexspeak/cmd/hexspeak/handler"
	"github.com/kestfor/hexspeak/internal/dictwatch"
	"github.com/kestfor/hexspeak/internal/services/tasks"
	"github.com/kestfor/hexspeak/internal/services/tasks/notifier"
	"github.com/kestfor/hexspeak/internal/services/tasks/taskservice"
	"github.com/kestfor/hexspeak/internal/wordtable"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (a *app) serveCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the search service over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("watch") {
				a.cfg.Search.WatchDictionary = watch
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reload the dictionary when the file changes")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	slog.Info("initializing dependencies...")

	words, err := wordtable.LoadWords(a.cfg.Search.Dictionary)
	if err != nil {
		slog.Error("load dictionary failed", slog.Any("error", err))
		return err
	}

	slog.Info("dictionary loaded",
		slog.String("path", a.cfg.Search.Dictionary),
		slog.Int("words", len(words)),
	)

	var notifiers []notifier.Notifier
	if a.cfg.Notifier.NotifyURL != "" {
		notifiers = append(notifiers, notifier.NewHTTPNotifier(a.cfg.Notifier))
	}

	service := taskservice.NewService(a.serviceConfig(), words, notifiers...)
	defer service.Close()

	slog.Info("dependencies initialized")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runServer(gctx, a.cfg.HTTP, service)
	})

	if a.cfg.Search.WatchDictionary {
		watcher := dictwatch.New(a.cfg.Search.Dictionary, dictwatch.DefaultDebounce, service.SetDictionary)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	return g.Wait()
}

// serviceConfig fills the task defaults the service section leaves unset
// from the search section.
func (a *app) serviceConfig() *taskservice.Config {
	cfg := *a.cfg.Service
	if cfg.Strategy == "" {
		cfg.Strategy = a.cfg.Search.Strategy
	}
	if cfg.Workers == 0 {
		cfg.Workers = a.cfg.Search.Workers
	}
	return &cfg
}

func runServer(ctx context.Context, httpServerConfig *HTTPServerConfig, service tasks.Service) error {
	slog.Info("initializing http server...")

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", httpServerConfig.Port),
		Handler: newRouter(service),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server initialized, serving...", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		slog.Error("failed to start server", slog.Any("error", err))
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down http server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), httpServerConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", slog.Any("error", err))
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("http server stopped")
	return nil
}

func newRouter(service tasks.Service) http.Handler {
	taskHandler := handler.NewHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/tasks/", taskHandler.HandleCreateTask)
	mux.HandleFunc("GET /api/v1/tasks/{task_id}/progress", taskHandler.HandleGetProgress)
	mux.HandleFunc("PUT /api/v1/tasks/{task_id}/do", taskHandler.HandleDoTask)
	mux.HandleFunc("DELETE /api/v1/tasks/{task_id}", taskHandler.HandleDeleteTask)
	mux.HandleFunc("GET /health", healthHandler)

	return recoverMiddleware(mux)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				slog.Error("Unexpected panic", slog.Any("error", err), slog.String("stacktrace", string(debug.Stack())))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
