package dsn

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Порты по умолчанию, подставляемые при отсутствии явного порта в URL.
const (
	DefaultPostgresPort = 5432
	DefaultAMQPPort     = 5672
)

// Endpoint — адрес зависимости, извлечённый из connection string.
//
// Создаётся один раз при старте boot-последовательности и далее
// не изменяется.
type Endpoint struct {
	Host string
	Port int
}

// Addr возвращает адрес в формате host:port для net.Dial.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string {
	return e.Addr()
}

// Схемы, указывающие на реляционную БД (PostgreSQL и её алиасы).
var postgresSchemes = map[string]bool{
	"postgres":   true,
	"postgresql": true,
	"pgsql":      true,
	"psql":       true,
}

// Схемы брокера сообщений.
var amqpSchemes = map[string]bool{
	"amqp":  true,
	"amqps": true,
}

// Parse извлекает Endpoint из connection string вида
// scheme://[user[:pass]@]host[:port]/db.
//
// Если схема не указывает на реляционную БД, возвращается
// ErrNotApplicable — probing для такого деплоя пропускается целиком.
// Порт по умолчанию: 5432.
func Parse(raw string) (Endpoint, error) {
	return parse(raw, postgresSchemes, DefaultPostgresPort)
}

// ParseBroker извлекает Endpoint из URL брокера сообщений
// (amqp:// или amqps://). Порт по умолчанию: 5672.
func ParseBroker(raw string) (Endpoint, error) {
	return parse(raw, amqpSchemes, DefaultAMQPPort)
}

func parse(raw string, schemes map[string]bool, defaultPort int) (Endpoint, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || !schemes[strings.ToLower(scheme)] {
		return Endpoint{}, ErrNotApplicable
	}

	// Отбрасываем credentials: всё до последнего '@' перед путём.
	authority := rest
	if i := strings.IndexByte(authority, '/'); i >= 0 {
		authority = authority[:i]
	}
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		authority = authority[i+1:]
	}

	host, portStr, hasPort := strings.Cut(authority, ":")
	if host == "" {
		return Endpoint{}, ErrEmptyHost
	}

	// Нет ':' — порт отсутствует, подставляем дефолт. Раньше в одном из
	// вариантов скрипта здесь оказывался сам host вместо порта.
	if !hasPort || portStr == "" {
		return Endpoint{Host: host, Port: defaultPort}, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidPort, portStr)
	}

	return Endpoint{Host: host, Port: port}, nil
}
