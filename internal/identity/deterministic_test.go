package identity_test

import (
	"testing"

	"github.com/goliatone/go-cms-elements/internal/identity"
	"github.com/google/uuid"
)

func TestCellUUIDIsStablePerPageAndName(t *testing.T) {
	page := uuid.New()
	first := identity.CellUUID(page, "sidebar")
	if first == uuid.Nil {
		t.Fatalf("expected non nil id")
	}
	if again := identity.CellUUID(page, " Sidebar "); again != first {
		t.Fatalf("expected normalised name to map to the same id")
	}
	if other := identity.CellUUID(uuid.New(), "sidebar"); other == first {
		t.Fatalf("expected different pages to yield different ids")
	}
	if identity.UUID("  ") != uuid.Nil {
		t.Fatalf("expected blank key to yield nil id")
	}
}
