package telemetry

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// BootMetrics — метрики одной boot-последовательности.
//
// Резидентного /metrics endpoint'а у entrypoint-процесса нет и быть
// не может: после handoff процесс перестаёт быть оркестратором.
// Поэтому метрики собираются в собственный Registry и один раз
// отправляются в Pushgateway перед handoff. Без настроенного
// Pushgateway значения просто попадают в итоговую строку лога.
type BootMetrics struct {
	registry *prometheus.Registry

	BootDuration  prometheus.Gauge
	ProbeAttempts *prometheus.GaugeVec
	TaskDuration  *prometheus.GaugeVec
	TaskFailures  *prometheus.CounterVec
}

// NewBootMetrics создаёт метрики с собственным Registry.
func NewBootMetrics(bootID string) *BootMetrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"boot_id": bootID}

	m := &BootMetrics{
		registry: registry,
		BootDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "prelude_boot_duration_seconds",
			Help:        "Total duration of the boot sequence up to handoff.",
			ConstLabels: labels,
		}),
		ProbeAttempts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "prelude_probe_attempts_total",
			Help:        "Number of readiness probe attempts per dependency.",
			ConstLabels: labels,
		}, []string{"target"}),
		TaskDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "prelude_task_duration_seconds",
			Help:        "Duration of each bootstrap task.",
			ConstLabels: labels,
		}, []string{"task"}),
		TaskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "prelude_task_failures_total",
			Help:        "Bootstrap task failures by task name.",
			ConstLabels: labels,
		}, []string{"task"}),
	}

	registry.MustRegister(m.BootDuration, m.ProbeAttempts, m.TaskDuration, m.TaskFailures)
	return m
}

// ObserveProbe записывает число попыток probe для зависимости.
func (m *BootMetrics) ObserveProbe(target string, attempts int) {
	m.ProbeAttempts.WithLabelValues(target).Set(float64(attempts))
}

// ObserveTask записывает длительность task.
func (m *BootMetrics) ObserveTask(task string, d time.Duration) {
	m.TaskDuration.WithLabelValues(task).Set(d.Seconds())
}

// ObserveTaskFailure инкрементирует счётчик падений task.
func (m *BootMetrics) ObserveTaskFailure(task string) {
	m.TaskFailures.WithLabelValues(task).Inc()
}

// Push отправляет собранные метрики в Pushgateway.
//
// Вызывается один раз, непосредственно перед handoff. Ошибка push —
// не повод ронять boot: метрики вспомогательные, workload важнее.
func (m *BootMetrics) Push(url, job string, logger *slog.Logger) {
	if url == "" {
		return
	}

	if err := push.New(url, job).Gatherer(m.registry).Push(); err != nil {
		logger.Warn("failed to push boot metrics", "pushgateway", url, "error", err)
		return
	}
	logger.Debug("boot metrics pushed", "pushgateway", url)
}
