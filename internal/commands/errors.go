package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-elements/internal/domain"
	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	code, message := commandContextErrorCode, "command context error"
	switch {
	case errors.Is(err, context.Canceled):
		code, message = commandContextCanceled, "command execution cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		code, message = commandContextTimeout, "command execution deadline exceeded"
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

// wrapExecuteError keeps domain errors intact and tags missing records with
// the not found category so callers can map them without unwrapping.
func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if domain.IsNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()).
			WithTextCode(string(domain.KindNotFound))
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}
