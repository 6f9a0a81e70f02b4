package domain

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrorKind names the failure classes surfaced to collaborator layers.
type ErrorKind string

const (
	KindUnknownCellDefinition   ErrorKind = "UNKNOWN_CELL_DEFINITION"
	KindEssenceMissing          ErrorKind = "ESSENCE_MISSING"
	KindEssenceValidationFailed ErrorKind = "ESSENCE_VALIDATION_FAILED"
	KindNotFound                ErrorKind = "NOT_FOUND"
	KindInternal                ErrorKind = "INTERNAL"
)

var (
	ErrUnknownCellDefinition   = errors.New("cell definition not found")
	ErrEssenceMissing          = errors.New("content has no essence")
	ErrEssenceValidationFailed = errors.New("essence validation failed")
	ErrNotFound                = errors.New("record not found")
)

// NotFoundError is returned when a page, cell, element, or content cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Is lets callers match any not found failure with errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a NotFoundError for resource/key.
func NotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// UnknownCellDefinition reports a qualified cell name without a structural definition.
func UnknownCellDefinition(name string) error {
	return goerrors.Wrap(ErrUnknownCellDefinition, goerrors.CategoryBadInput,
		fmt.Sprintf("cell definition not found for %s", strings.TrimSpace(name))).
		WithTextCode(string(KindUnknownCellDefinition)).
		WithMetadata(map[string]any{"cell": strings.TrimSpace(name)})
}

// EssenceMissing reports a read or write against a content without essence.
func EssenceMissing(contentName string) error {
	return goerrors.Wrap(ErrEssenceMissing, goerrors.CategoryInternal,
		fmt.Sprintf("content %s has no essence", contentName)).
		WithTextCode(string(KindEssenceMissing))
}

// EssenceValidationFailed wraps validation issues for a single content.
func EssenceValidationFailed(contentName string, issues goerrors.ValidationErrors) error {
	err := goerrors.Wrap(ErrEssenceValidationFailed, goerrors.CategoryValidation,
		fmt.Sprintf("validation failed for %s", contentName)).
		WithTextCode(string(KindEssenceValidationFailed))
	err.ValidationErrors = issues
	return err
}

// Kind classifies err into one of the error kinds exposed to collaborators.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownCellDefinition):
		return KindUnknownCellDefinition
	case errors.Is(err, ErrEssenceMissing):
		return KindEssenceMissing
	case errors.Is(err, ErrEssenceValidationFailed):
		return KindEssenceValidationFailed
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	}

	var typed *goerrors.Error
	if errors.As(err, &typed) && typed.TextCode != "" {
		switch ErrorKind(typed.TextCode) {
		case KindUnknownCellDefinition, KindEssenceMissing, KindEssenceValidationFailed, KindNotFound:
			return ErrorKind(typed.TextCode)
		}
		if typed.Category == goerrors.CategoryNotFound {
			return KindNotFound
		}
	}
	return KindInternal
}

// IsNotFound reports whether err describes a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
