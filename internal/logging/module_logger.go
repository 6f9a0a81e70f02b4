package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-elements/pkg/interfaces"
)

const (
	rootModule       = "cms"
	elementsModule   = "cms.elements"
	cellsModule      = "cms.cells"
	localeSyncModule = "cms.localesync"
)

const (
	fieldElementID = "element_id"
	fieldPageID    = "page_id"
	fieldAction    = "action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ElementsLogger returns the logger namespace reserved for element services.
func ElementsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, elementsModule)
}

// CellsLogger returns the logger namespace reserved for cell resolution.
func CellsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cellsModule)
}

// LocaleSyncLogger returns the logger namespace reserved for cross-locale sync.
func LocaleSyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localeSyncModule)
}

// WithElementContext enriches logger with the element, page, and action being
// processed. Empty values are ignored.
func WithElementContext(logger interfaces.Logger, elementID, pageID, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(elementID); trimmed != "" {
		fields[fieldElementID] = trimmed
	}
	if trimmed := strings.TrimSpace(pageID); trimmed != "" {
		fields[fieldPageID] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
