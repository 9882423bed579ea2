// Package dsn разбирает connection strings зависимостей.
//
// Boot-последовательность получает адрес БД из переменной окружения
// (DATABASE_URL) в виде URL. Пакет извлекает из него пару (host, port)
// для TCP readiness probe, не интерпретируя остальные части строки:
// credentials, имя базы и query-параметры оставлены драйверу.
//
// Нераспознанная схема — штатная ситуация (деплой без реляционной БД),
// а не ошибка: Parse возвращает ErrNotApplicable, и probing
// пропускается.
package dsn
