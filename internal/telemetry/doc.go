// Package telemetry обеспечивает наблюдаемость boot-последовательности.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики с одноразовым push
//
// Entrypoint-процесс живёт секунды и resident-сервера метрик не
// держит: метрики либо уходят в Pushgateway перед handoff, либо
// остаются только в логах.
package telemetry
