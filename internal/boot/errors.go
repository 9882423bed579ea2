package boot

import "errors"

// Ошибки boot-последовательности.
var (
	// ErrNoCommand — оркестратору не передана команда workload.
	ErrNoCommand = errors.New("no workload command given")

	// ErrConfiguration — зависимость настроена, но её connection
	// string непригоден. Boot прерывается до probing.
	ErrConfiguration = errors.New("invalid dependency configuration")
)
