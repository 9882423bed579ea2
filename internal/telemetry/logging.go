package telemetry

import (
	"log/slog"
	"os"
)

// LogLevel определяет уровень логирования из переменной окружения.
// Возможные значения: DEBUG, INFO, WARN, ERROR
// По умолчанию: INFO
func LogLevel() slog.Level {
	level := os.Getenv("LOG_LEVEL")
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger инициализирует глобальный логгер.
//
// Формат вывода определяется переменной LOG_FORMAT:
//   - "text" (по умолчанию) — человекочитаемые строки прогресса
//     для оператора, смотрящего docker logs при старте контейнера
//   - "json" — JSON для централизованного сбора логов
//
// Логи пишутся в stderr: stdout принадлежит подготовительным
// командам и workload'у после handoff.
func SetupLogger() *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: LogLevel(),
	}

	format := os.Getenv("LOG_FORMAT")
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithBootID возвращает логгер с добавленным boot_id.
// Один boot — один ID: по нему коррелируются строки одного запуска.
func WithBootID(logger *slog.Logger, bootID string) *slog.Logger {
	return logger.With("boot_id", bootID)
}

// WithStage возвращает логгер с добавленным именем стадии boot.
func WithStage(logger *slog.Logger, stage string) *slog.Logger {
	return logger.With("stage", stage)
}
