package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/shaiso/Prelude/internal/classify"
	"github.com/shaiso/Prelude/internal/probe"
)

// Config — конфигурация boot-последовательности.
//
// Один бинарь обслуживает все варианты деплоя; различия между бывшими
// копиями entrypoint-скриптов выражаются конфигурацией, а не форками
// кода.
type Config struct {
	// DatabaseURL — connection string БД. Пустое значение или
	// нераспознанная схема — probing пропускается.
	DatabaseURL string `mapstructure:"database_url"`

	// BrokerURL — URL брокера сообщений (amqp). Опционально:
	// непустое значение добавляет probe брокера.
	BrokerURL string `mapstructure:"broker_url"`

	Probe   ProbeConfig   `mapstructure:"probe"`
	Prepare PrepareConfig `mapstructure:"prepare"`
	Tasks   TasksConfig   `mapstructure:"tasks"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ProbeConfig — политика ожидания зависимостей.
type ProbeConfig struct {
	// Mode — вид проверки БД: "tcp" (сырой connect) или "postgres"
	// (ping через pgx).
	Mode string `mapstructure:"mode"`

	Interval    time.Duration `mapstructure:"interval"`
	Backoff     string        `mapstructure:"backoff"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Deadline    time.Duration `mapstructure:"deadline"`
}

// Policy собирает probe.Policy из конфигурации.
func (p ProbeConfig) Policy() probe.Policy {
	return probe.Policy{
		Interval:    p.Interval,
		Backoff:     p.Backoff,
		MaxDelay:    p.MaxDelay,
		MaxAttempts: p.MaxAttempts,
		Deadline:    p.Deadline,
	}
}

// PrepareConfig — политика подготовительных tasks.
type PrepareConfig struct {
	// Mode — "always", "if-matches" или "never".
	Mode string `mapstructure:"mode"`

	// Token — подстрока web-процесса для режима if-matches.
	Token string `mapstructure:"token"`

	// Profile — явный профиль workload ("web", "worker",
	// "management"); имеет приоритет над Token.
	Profile string `mapstructure:"profile"`

	// GateAncillary — подчинить ancillary tasks (директории) тому же
	// решению, что и prepare tasks. По умолчанию false: директории
	// создаются для любого workload.
	GateAncillary bool `mapstructure:"gate_ancillary"`
}

// Classifier собирает classify.Classifier из конфигурации.
func (p PrepareConfig) Classifier() classify.Classifier {
	return classify.Classifier{
		Mode:    p.Mode,
		Token:   p.Token,
		Profile: classify.BootProfile(p.Profile),
	}
}

// TasksConfig — командные строки подготовительных операций и список
// служебных директорий.
type TasksConfig struct {
	// Migrate — команда миграции схемы.
	Migrate []string `mapstructure:"migrate"`

	// Collectstatic — команда сборки статики.
	Collectstatic []string `mapstructure:"collectstatic"`

	// Dirs — служебные директории для создания.
	Dirs []string `mapstructure:"dirs"`

	// DirMode — права на директории (восьмеричное число).
	DirMode uint32 `mapstructure:"dir_mode"`
}

// MetricsConfig — одноразовый push метрик boot-последовательности.
type MetricsConfig struct {
	// PushgatewayURL — адрес Pushgateway. Пустое значение — метрики
	// только логируются.
	PushgatewayURL string `mapstructure:"pushgateway_url"`

	// Job — имя job для Pushgateway.
	Job string `mapstructure:"job"`
}

// Load читает конфигурацию: опциональный YAML-файл по path, поверх —
// переменные окружения с префиксом PRELUDE_ (например
// PRELUDE_PROBE_MAX_ATTEMPTS). DATABASE_URL и BROKER_URL читаются и
// без префикса — это стабильные имена из деплоя.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PRELUDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Префиксная форма имеет приоритет над стабильным именем деплоя.
	_ = v.BindEnv("database_url", "PRELUDE_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("broker_url", "PRELUDE_BROKER_URL", "BROKER_URL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("probe.mode", "tcp")
	v.SetDefault("probe.interval", probe.DefaultInterval)
	v.SetDefault("probe.backoff", probe.BackoffFixed)
	v.SetDefault("probe.max_delay", probe.DefaultMaxDelay)
	v.SetDefault("probe.max_attempts", 0)
	v.SetDefault("probe.deadline", time.Duration(0))

	v.SetDefault("prepare.mode", classify.ModeIfMatches)
	v.SetDefault("prepare.token", classify.DefaultToken)
	// Пустой default регистрирует ключ: без этого AutomaticEnv
	// не увидит переменную при Unmarshal.
	v.SetDefault("prepare.profile", "")
	v.SetDefault("prepare.gate_ancillary", false)

	v.SetDefault("tasks.migrate", []string{"python", "manage.py", "migrate", "--noinput"})
	v.SetDefault("tasks.collectstatic", []string{"python", "manage.py", "collectstatic", "--noinput"})
	v.SetDefault("tasks.dirs", []string{"staticfiles", "media", "logs"})
	v.SetDefault("tasks.dir_mode", 0o755)

	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "prelude_boot")
}

func (c *Config) validate() error {
	switch c.Probe.Mode {
	case "tcp", "postgres":
	default:
		return fmt.Errorf("invalid probe.mode %q: expected tcp or postgres", c.Probe.Mode)
	}

	switch c.Prepare.Mode {
	case classify.ModeAlways, classify.ModeIfMatches, classify.ModeNever:
	default:
		return fmt.Errorf("invalid prepare.mode %q: expected always, if-matches or never", c.Prepare.Mode)
	}

	switch classify.BootProfile(c.Prepare.Profile) {
	case "", classify.ProfileWeb, classify.ProfileWorker, classify.ProfileManagement:
	default:
		return fmt.Errorf("invalid prepare.profile %q: expected web, worker or management", c.Prepare.Profile)
	}

	return nil
}
