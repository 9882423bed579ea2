package dsn

import "errors"

// Ошибки разбора connection string.
var (
	// ErrNotApplicable — строка не содержит распознанной схемы БД.
	// Это не ошибка конфигурации: зависимость просто не настроена,
	// и readiness probe пропускается.
	ErrNotApplicable = errors.New("connection string has no recognized scheme")

	// ErrEmptyHost — схема распознана, но host извлечь не удалось.
	ErrEmptyHost = errors.New("connection string has empty host")

	// ErrInvalidPort — порт присутствует, но не является положительным числом.
	ErrInvalidPort = errors.New("connection string has invalid port")
)
