package boot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Prelude/internal/config"
	"github.com/shaiso/Prelude/internal/dsn"
	"github.com/shaiso/Prelude/internal/handoff"
	"github.com/shaiso/Prelude/internal/probe"
	"github.com/shaiso/Prelude/internal/tasks"
	"github.com/shaiso/Prelude/internal/telemetry"
)

// Sequence — одна boot-последовательность контейнера.
//
// Стадии строго последовательны, каждая — жёсткое условие следующей:
//
//	parse → probe → classify → tasks → handoff
//
// Состояние живёт от старта процесса до handoff (или аварийного
// выхода); между запусками ничего не сохраняется.
type Sequence struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *telemetry.BootMetrics
	bootID  string

	// execFn подменяется в тестах: настоящий handoff не возвращается.
	execFn func(argv []string) error
}

// New создаёт Sequence. Каждый boot получает собственный boot_id
// для корреляции логов и метрик.
func New(cfg *config.Config, logger *slog.Logger) *Sequence {
	if logger == nil {
		logger = slog.Default()
	}
	bootID := uuid.NewString()

	return &Sequence{
		cfg:     cfg,
		logger:  telemetry.WithBootID(logger, bootID),
		metrics: telemetry.NewBootMetrics(bootID),
		bootID:  bootID,
		execFn:  handoff.New().Exec,
	}
}

// Run выполняет boot-последовательность для команды argv.
//
// При успехе управление передаётся workload'у и Run не возвращается.
// Любая возвращённая ошибка фатальна; код выхода процесса для неё
// определяет ExitCode.
func (s *Sequence) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}

	start := time.Now()
	s.logger.Info("boot sequence started", "command", argv[0])

	probers, err := s.buildProbers()
	if err != nil {
		return err
	}

	for _, p := range probers {
		attempts, err := p.Wait(ctx)
		s.metrics.ObserveProbe(p.Target(), attempts)
		if err != nil {
			return err
		}
	}

	decision := s.cfg.Prepare.Classifier().Classify(argv)
	s.logger.Info("workload classified",
		"profile", decision.Profile,
		"run_prepare", decision.RunPrepare,
	)

	runner := tasks.NewRunner(s.buildTasks(), s.logger)
	result, err := runner.Run(ctx, decision)
	for _, timing := range result.Timings {
		s.metrics.ObserveTask(timing.Task, timing.Duration)
	}
	if err != nil {
		s.metrics.ObserveTaskFailure(result.FailingTask)
		s.metrics.Push(s.cfg.Metrics.PushgatewayURL, s.cfg.Metrics.Job, s.logger)
		return err
	}

	elapsed := time.Since(start)
	s.metrics.BootDuration.Set(elapsed.Seconds())
	s.metrics.Push(s.cfg.Metrics.PushgatewayURL, s.cfg.Metrics.Job, s.logger)

	s.logger.Info("handing off to workload", "command", argv, "elapsed", elapsed)
	return s.execFn(argv)
}

// buildProbers собирает список проверок готовности из конфигурации.
//
// Нераспознанная схема — probing этой зависимости пропускается.
// Распознанная, но непригодная строка — ErrConfiguration.
func (s *Sequence) buildProbers() ([]*probe.Prober, error) {
	var probers []*probe.Prober
	policy := s.cfg.Probe.Policy()

	if s.cfg.DatabaseURL != "" {
		ep, err := dsn.Parse(s.cfg.DatabaseURL)
		switch {
		case errors.Is(err, dsn.ErrNotApplicable):
			s.logger.Info("database url has no relational scheme, skipping probe")
		case err != nil:
			return nil, fmt.Errorf("%w: database url: %v", ErrConfiguration, err)
		case s.cfg.Probe.Mode == "postgres":
			probers = append(probers, probe.NewPostgres(s.cfg.DatabaseURL, ep, policy, s.logger))
		default:
			probers = append(probers, probe.NewTCP(ep, policy, s.logger))
		}
	} else {
		s.logger.Info("no database url configured, skipping probe")
	}

	if s.cfg.BrokerURL != "" {
		ep, err := dsn.ParseBroker(s.cfg.BrokerURL)
		switch {
		case errors.Is(err, dsn.ErrNotApplicable):
			s.logger.Info("broker url has no amqp scheme, skipping probe")
		case err != nil:
			return nil, fmt.Errorf("%w: broker url: %v", ErrConfiguration, err)
		default:
			probers = append(probers, probe.NewAMQP(s.cfg.BrokerURL, ep, policy, s.logger))
		}
	}

	return probers, nil
}

// buildTasks собирает упорядоченный список подготовительных tasks.
// Порядок фиксирован: миграции, статика, директории.
func (s *Sequence) buildTasks() []tasks.Task {
	return []tasks.Task{
		&tasks.CommandTask{
			TaskName: "migrate",
			Argv:     s.cfg.Tasks.Migrate,
			Prepare:  true,
		},
		&tasks.CommandTask{
			TaskName: "collectstatic",
			Argv:     s.cfg.Tasks.Collectstatic,
			Prepare:  true,
		},
		&tasks.DirTask{
			TaskName: "ensure-dirs",
			Dirs:     s.cfg.Tasks.Dirs,
			Mode:     fs.FileMode(s.cfg.Tasks.DirMode),
			Gated:    s.cfg.Prepare.GateAncillary,
		},
	}
}

// ExitCode отображает ошибку boot-последовательности в код выхода
// процесса. Код упавшего task пробрасывается как есть; остальные
// фатальные ошибки дают 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var taskErr *tasks.TaskError
	if errors.As(err, &taskErr) && taskErr.ExitCode != 0 {
		return taskErr.ExitCode
	}
	return 1
}
