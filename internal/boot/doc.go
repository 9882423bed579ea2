// Package boot связывает стадии boot-последовательности контейнера.
//
// Sequence выполняет линейный сценарий entrypoint-процесса:
// разбор connection string, ожидание зависимостей, классификация
// workload, подготовительные tasks и handoff. Параллелизма нет —
// до готовности зависимостей процессу больше нечем заняться.
//
// Раньше этот сценарий существовал в виде нескольких почти одинаковых
// shell-скриптов с расползающимися правками. Теперь вариант деплоя
// описывается конфигурацией одного бинаря.
package boot
