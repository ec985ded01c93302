package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"build-notifier/internal/config"
	"build-notifier/internal/di"
)

var cli struct {
	Serve ServeCmd `cmd:"" default:"1" help:"Receive build events and post notifications."`
	Check CheckCmd `cmd:"" help:"Validate the settings file and print the default destination."`
}

// ServeCmd runs the notifier service.
type ServeCmd struct{}

func (ServeCmd) Run() error {
	application, err := di.InitializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("application runtime error: %w", err)
	}
	return nil
}

// CheckCmd validates configuration without starting the service.
type CheckCmd struct {
	Settings string `help:"Settings file, defaults to NOTIFIER_SETTINGS." type:"path"`
}

func (c CheckCmd) Run() error {
	path := c.Settings
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path = cfg.SettingsPath
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		return err
	}
	topic := settings.Topic
	if topic == "" {
		topic = "<project name>"
	}
	fmt.Printf("settings ok: stream=%q topic=%q jobs=%d smart_notify=%t\n", settings.Stream, topic, len(settings.Jobs), settings.SmartNotify)
	return nil
}

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatal(err)
		}
	}

	ctx := kong.Parse(&cli,
		kong.Name("build-notifier"),
		kong.Description("Posts build results to Zulip streams."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		log.Fatal(err)
	}
}
