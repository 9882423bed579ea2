// Package tasks выполняет подготовительные операции перед handoff.
//
// Boot-последовательность между readiness probe и запуском workload
// выполняет фиксированный список tasks: миграции схемы, сборка
// статики, создание служебных директорий. Список упорядочен, первый
// сбой фатален.
//
// Два вида tasks:
//
//   - CommandTask — непрозрачная внешняя команда (наблюдается только
//     exit status)
//   - DirTask — создание директорий с нормализацией прав
//
// Применимость task к конкретному boot решает classify.Decision:
// tasks, мутирующие durable-состояние, выполняются только для
// web-профиля (или всегда — по конфигурации).
package tasks
