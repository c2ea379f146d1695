package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNoEncontrado matches every "X no encontrado" error so handlers can
// answer 404 without comparing messages.
var ErrNoEncontrado = errors.New("no encontrado")

type noEncontradoError struct{ msg string }

func (e *noEncontradoError) Error() string        { return e.msg }
func (e *noEncontradoError) Is(target error) bool { return target == ErrNoEncontrado }

func noEncontrado(msg string) error { return &noEncontradoError{msg: msg} }

// lookupErr converts a repository lookup failure into the user-facing
// not-found error, keeping other failures wrapped for the logs.
func lookupErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return noEncontrado(msg)
	}
	return err
}

// ErrValidacion matches every business-rule rejection. Handlers answer 400
// with its message; any other error is internal and answered with a 500.
var ErrValidacion = errors.New("validación")

type validacionError struct{ msg string }

func (e *validacionError) Error() string        { return e.msg }
func (e *validacionError) Is(target error) bool { return target == ErrValidacion }

func invalido(msg string) error { return &validacionError{msg: msg} }

func invalidof(format string, args ...interface{}) error {
	return &validacionError{msg: fmt.Sprintf(format, args...)}
}
