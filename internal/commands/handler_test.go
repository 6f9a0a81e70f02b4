package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-elements/internal/domain"
	goerrors "github.com/goliatone/go-errors"
)

type pingMessage struct {
	ElementID string
}

func (pingMessage) Type() string { return "cms.elements.test.ping" }

func (pingMessage) Validate() error { return nil }

type rejectedMessage struct{}

func (rejectedMessage) Type() string { return "cms.elements.test.rejected" }

func (rejectedMessage) Validate() error { return errors.New("element_id is required") }

func TestHandlerExecutes(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		called = true
		return nil
	})
	if err := h.Execute(context.Background(), pingMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuits(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg rejectedMessage) error {
		called = true
		return nil
	})
	err := h.Execute(context.Background(), rejectedMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		t.Fatal("handler must not run on a cancelled context")
		return nil
	})
	err := h.Execute(ctx, pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerWrapsPlainErrors(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		return errors.New("boom")
	})
	err := h.Execute(context.Background(), pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerKeepsDomainErrors(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		return domain.UnknownCellDefinition("sidebar")
	})
	err := h.Execute(context.Background(), pingMessage{})
	if domain.Kind(err) != domain.KindUnknownCellDefinition {
		t.Fatalf("expected domain kind to survive, got %v", err)
	}
}

func TestHandlerTimeout(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, WithTimeout[pingMessage](10*time.Millisecond))
	err := h.Execute(context.Background(), pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerTelemetryReceivesFields(t *testing.T) {
	var got TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		return nil
	},
		WithOperation[pingMessage]("elements.ping"),
		WithMessageFields(func(msg pingMessage) map[string]any {
			return map[string]any{"element_id": msg.ElementID}
		}),
		WithTelemetry(func(_ context.Context, _ pingMessage, info TelemetryInfo) {
			got = info
		}),
	)
	if err := h.Execute(context.Background(), pingMessage{ElementID: "e-1"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Status != TelemetryStatusSuccess || got.Command != "cms.elements.test.ping" || got.Operation != "elements.ping" {
		t.Fatalf("unexpected telemetry %+v", got)
	}
	if got.Fields["element_id"] != "e-1" {
		t.Fatalf("expected message fields, got %+v", got.Fields)
	}
}

func TestHandlerTagsMissingRecords(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg pingMessage) error {
		return domain.NotFound("element", "e-1")
	})
	err := h.Execute(context.Background(), pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
	if domain.Kind(err) != domain.KindNotFound {
		t.Fatalf("expected not found kind, got %v", err)
	}
}
