// Package probe реализует ожидание готовности зависимостей.
//
// Контейнер с приложением обычно стартует раньше своей БД, поэтому
// первым шагом boot-последовательности стоит блокирующий цикл:
// попытка соединения, пауза, повтор. Пакет предоставляет три вида
// попыток:
//
//   - NewTCP — сырой TCP connect (поведение исходных скриптов)
//   - NewPostgres — ping через pgx (сервер действительно готов
//     исполнять запросы, а не только слушает порт)
//   - NewAMQP — handshake с брокером сообщений
//
// Политика повторов (Policy) настраивается: fixed или exponential
// backoff, лимит попыток, общий дедлайн. По умолчанию лимитов нет —
// как в исходных скриптах.
package probe
