package gologger

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-elements/internal/logging"
	glog "github.com/goliatone/go-logger/glog"
)

func TestNewProviderBuildsModuleLoggers(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console", Focus: []string{" cms.elements "}})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := logging.WithElementContext(logging.ElementsLogger(p), "el-1", "page-1", "paste")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	logger.Debug("elements.paste.completed")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestAdapterClonesFields(t *testing.T) {
	stub := &fieldsStub{}
	adapted := wrap(stub)

	fields := map[string]any{"element_id": "el-1"}
	child := adapted.(*adapter).WithFields(fields)
	fields["element_id"] = "el-2"
	child.Info("elements.fold.completed")

	if len(stub.fields) != 1 || stub.fields[0]["element_id"] != "el-1" {
		t.Fatalf("expected cloned fields, got %v", stub.fields)
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}
}

func TestAdapterAppendsFieldsWithoutFieldsSupport(t *testing.T) {
	stub := &plainStub{}
	child := wrap(stub).(*adapter).WithFields(map[string]any{"page_id": "p-1", "action": "trash"})
	child.Warn("elements.trash.completed", "position", 3)

	if len(stub.args) != 1 {
		t.Fatalf("expected one entry, got %d", len(stub.args))
	}
	want := []any{"action", "trash", "page_id", "p-1", "position", 3}
	got := stub.args[0]
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arg %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

type plainStub struct {
	args [][]any
}

var _ glog.Logger = (*plainStub)(nil)

func (s *plainStub) Trace(string, ...any) {}
func (s *plainStub) Debug(string, ...any) {}
func (s *plainStub) Info(string, ...any)  {}
func (s *plainStub) Warn(_ string, args ...any) {
	s.args = append(s.args, args)
}
func (s *plainStub) Error(string, ...any) {}
func (s *plainStub) Fatal(string, ...any) {}

func (s *plainStub) WithContext(context.Context) glog.Logger { return s }

type fieldsStub struct {
	plainStub
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.FieldsLogger = (*fieldsStub)(nil)

func (s *fieldsStub) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *fieldsStub) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, fields)
	return s
}
