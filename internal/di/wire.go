//go:build wireinject

package di

import (
	"github.com/google/wire"

	"build-notifier/internal/adapter/logging"
	"build-notifier/internal/app"
	"build-notifier/internal/config"
	"build-notifier/internal/domain/ports"
	"build-notifier/internal/usecase"
)

// InitializeApp wires the application components together.
func InitializeApp() (*app.App, error) {
	wire.Build(
		config.Load,
		provideSlogLogger,
		logging.New,
		wire.Bind(new(ports.Logger), new(*logging.SLogger)),
		provideSettingsStore,
		provideHistory,
		provideDispatcher,
		usecase.NewBuildNotifier,
		provideHandler,
		provideAppOptions,
		app.New,
	)
	return nil, nil
}
