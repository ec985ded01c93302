package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"build-notifier/internal/config"
	"build-notifier/internal/domain/ports"
)

const shutdownTimeout = 5 * time.Second

// Options carries the lifecycle settings of the App.
type Options struct {
	ListenAddr  string
	PruneCron   string
	HistoryKeep int
}

// App manages the HTTP server, the settings watcher and the history pruning schedule.
type App struct {
	cron     *cron.Cron
	server   *http.Server
	settings *config.Store
	history  ports.BuildHistory
	logger   ports.Logger
	opts     Options
}

// New constructs an App instance.
func New(handler http.Handler, settings *config.Store, history ports.BuildHistory, logger ports.Logger, opts Options) *App {
	return &App{
		cron: cron.New(),
		server: &http.Server{
			Addr:              opts.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		settings: settings,
		history:  history,
		logger:   logger,
		opts:     opts,
	}
}

// Run serves build events until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.scheduleJob(); err != nil {
		return err
	}

	go func() {
		if err := a.settings.Watch(ctx); err != nil {
			a.logger.Error(ctx, "settings watcher stopped", "error", err)
		}
	}()

	a.logger.Info(ctx, "starting scheduler", "cron", a.opts.PruneCron)
	a.cron.Start()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "listening for build events", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(shutdownCtx, "http shutdown failed", "error", err)
	}

	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(shutdownTimeout):
	}
	if err := a.history.Close(); err != nil {
		a.logger.Error(context.Background(), "failed to close history", "error", err)
	}
	a.logger.Info(context.Background(), "notifier stopped")
	return runErr
}

func (a *App) scheduleJob() error {
	_, err := a.cron.AddFunc(a.opts.PruneCron, a.prune)
	if err != nil {
		return err
	}
	return nil
}

func (a *App) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	n, err := a.history.Prune(ctx, a.opts.HistoryKeep)
	if err != nil {
		a.logger.Error(ctx, "scheduled history prune failed", "error", err)
		return
	}
	a.logger.Info(ctx, "history pruned", "deleted", n, "keep_per_project", a.opts.HistoryKeep)
}
