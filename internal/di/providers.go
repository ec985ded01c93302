package di

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"build-notifier/internal/adapter/history"
	"build-notifier/internal/adapter/httpapi"
	"build-notifier/internal/adapter/logging"
	"build-notifier/internal/adapter/zulip"
	"build-notifier/internal/app"
	"build-notifier/internal/config"
	"build-notifier/internal/domain/ports"
	"build-notifier/internal/usecase"
)

func provideSlogLogger(cfg *config.Config) *slog.Logger {
	return logging.NewSlog(os.Stderr, cfg.LogLevel)
}

func provideSettingsStore(cfg *config.Config, logger ports.Logger) (*config.Store, error) {
	return config.NewStore(cfg.SettingsPath, logger)
}

func provideHistory(cfg *config.Config) (ports.BuildHistory, error) {
	return history.Open(context.Background(), cfg.HistoryPath)
}

func provideDispatcher(cfg *config.Config, logger ports.Logger) ports.Dispatcher {
	return zulip.NewClient(cfg.RequestTimeout, cfg.ZulipRate, logger)
}

func provideHandler(notifier *usecase.BuildNotifier, store *config.Store, buildHistory ports.BuildHistory, logger ports.Logger, cfg *config.Config) http.Handler {
	return httpapi.NewHandler(notifier, store, buildHistory, logger, cfg.WebhookToken).Routes()
}

func provideAppOptions(cfg *config.Config) app.Options {
	return app.Options{
		ListenAddr:  cfg.ListenAddr,
		PruneCron:   cfg.PruneCron,
		HistoryKeep: cfg.HistoryKeep,
	}
}
