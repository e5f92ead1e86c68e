package store

import "errors"

var (
	// ErrMalformed означает, что источник не удалось разобрать
	// или в нём есть некорректная запись.
	ErrMalformed = errors.New("malformed telemetry")

	// ErrUnknownSource возвращается для неизвестного типа источника.
	ErrUnknownSource = errors.New("unknown telemetry source")
)
