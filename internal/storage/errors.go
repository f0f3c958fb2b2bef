package storage

import (
	"errors"

	"line-tracker/internal/clock"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInterval = clock.ErrInvalidInterval
)

// ErrInvalidInput некорректные данные от клиента (отрицательные значения, пустые поля).
var ErrInvalidInput = errors.New("invalid input")
