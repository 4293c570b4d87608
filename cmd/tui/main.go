package main

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"todolist/internal/adapter/database"
	"todolist/internal/adapter/tui"
	"todolist/internal/core/domain"
	"todolist/internal/core/service"
	"todolist/internal/core/telemetry"
	"todolist/pkg/config"
)

func main() {
	cfg, err := config.Load("")

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// The alternate screen owns stdout and stderr, so logs only go to a file.
	logger := config.NewNopLogger()

	var logSink io.Writer

	if path := os.Getenv("TUI_LOG_FILE"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)

		if err != nil {
			log.Fatal("Failed to open log file: ", err)
		}

		defer file.Close()

		logSink = file
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.AddSync(file), zap.DebugLevel)
		logger = config.WrapLogger(zap.New(core), cfg.ServiceName)
	}

	defer logger.Sync()

	ctx := context.Background()
	probe := telemetry.NewNoOpProbe()

	repo, err := database.NewRepository(ctx, cfg.Storage, probe, logSink)

	if err != nil {
		log.Fatal("Failed to open storage: ", err)
	}

	opts := []service.Option{service.WithTelemetry(probe)}

	if repo != nil {
		defer repo.Close()
		opts = append(opts, service.WithRepository(repo))
	}

	store, err := service.NewTodoStore(ctx, opts...)

	if err != nil {
		log.Fatal("Failed to load todos: ", err)
	}

	logger.Zap().Info("Starting terminal UI", zap.String("storage", cfg.Storage.Driver))

	model := tui.NewModel(ctx, store, domain.NewDefaultFormatter(), cfg.Theme)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		logger.Zap().Error("Terminal UI stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
