package classify

import "strings"

// BootProfile — тип workload, который предстоит запустить.
type BootProfile string

const (
	// ProfileWeb — основной web-процесс (gunicorn/uvicorn).
	// Только этот профиль выполняет подготовку durable-состояния.
	ProfileWeb BootProfile = "web"

	// ProfileWorker — фоновый worker (celery и т.п.).
	ProfileWorker BootProfile = "worker"

	// ProfileManagement — разовая management-команда.
	ProfileManagement BootProfile = "management"
)

// Режимы политики подготовки.
const (
	// ModeAlways — всегда выполнять подготовительные tasks,
	// независимо от команды. Поведение части исходных скриптов.
	ModeAlways = "always"

	// ModeIfMatches — выполнять подготовку, только если argv содержит
	// токен web-процесса. Поведение остальных вариантов.
	ModeIfMatches = "if-matches"

	// ModeNever — никогда не выполнять подготовку.
	ModeNever = "never"
)

// DefaultToken — токен web-процесса по умолчанию.
const DefaultToken = "gunicorn"

// Decision — результат классификации команды.
type Decision struct {
	// Profile — распознанный тип workload.
	Profile BootProfile

	// RunPrepare — выполнять ли tasks, мутирующие durable-состояние
	// (миграции схемы, сборка статики).
	RunPrepare bool
}

// Classifier решает, какие подготовительные tasks применимы к команде.
//
// Исторический механизм — поиск подстроки в argv — хрупок: валидная
// web-команда без ожидаемого токена молча пропустит миграции. Поэтому
// профиль можно задать явно через конфигурацию (Profile), и тогда
// содержимое argv не рассматривается вовсе.
type Classifier struct {
	// Mode — политика: ModeAlways, ModeIfMatches или ModeNever.
	Mode string

	// Token — подстрока, по которой распознаётся web-процесс
	// в режиме ModeIfMatches (default: "gunicorn").
	Token string

	// Profile — явно заданный профиль. Непустое значение имеет
	// приоритет над строковым сопоставлением.
	Profile BootProfile
}

// Classify возвращает решение для команды argv.
func (c Classifier) Classify(argv []string) Decision {
	profile := c.Profile
	if profile == "" {
		profile = guessProfile(argv, c.token())
	}

	var prepare bool
	switch c.Mode {
	case ModeAlways:
		prepare = true
	case ModeNever:
		prepare = false
	default:
		prepare = profile == ProfileWeb
	}

	return Decision{Profile: profile, RunPrepare: prepare}
}

func (c Classifier) token() string {
	if c.Token != "" {
		return c.Token
	}
	return DefaultToken
}

// guessProfile распознаёт профиль по argv.
//
// Грубая эвристика из исходных скриптов: токен web-процесса где-либо
// в argv означает web, иначе worker-подобные токены означают worker,
// всё остальное — management-команда.
func guessProfile(argv []string, webToken string) BootProfile {
	if containsToken(argv, webToken) {
		return ProfileWeb
	}
	for _, token := range []string{"celery", "worker"} {
		if containsToken(argv, token) {
			return ProfileWorker
		}
	}
	return ProfileManagement
}

func containsToken(argv []string, token string) bool {
	for _, arg := range argv {
		if strings.Contains(arg, token) {
			return true
		}
	}
	return false
}
