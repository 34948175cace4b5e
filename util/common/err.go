package common

import (
	"errors"

	"github.com/libdesk/libdesk/logger"
)

// Combine joins the non-nil errors, returning nil when there are none.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

// Recover must be deferred directly. It logs a recovered panic with msg and
// returns the panic value.
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil && msg != "" {
		logger.Error(msg, " panic: ", panicErr)
	}
	return panicErr
}
