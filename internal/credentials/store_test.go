package credentials

import (
	"path/filepath"
	"testing"

	"redstore/internal/domain"
)

func TestOpenMissingFileYieldsEmptyStore(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "credentials.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Token() != "" {
		t.Fatalf("token = %q, want empty", store.Token())
	}
	if store.User() != nil {
		t.Fatalf("user = %+v, want nil", store.User())
	}
}

func TestSaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	user := &domain.User{ID: "u1", Email: "jane@example.com", FirstName: "Jane", Role: domain.RoleCustomer}
	if err := store.Save("tok-123", user); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Token() != "tok-123" {
		t.Fatalf("token = %q, want tok-123", reopened.Token())
	}
	if got := reopened.User(); got == nil || got.Email != "jane@example.com" {
		t.Fatalf("user = %+v", got)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Save("tok-123", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Token() != "" {
		t.Fatalf("token survived clear")
	}
	// Clearing an already cleared store is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Token() != "" {
		t.Fatalf("cleared credentials came back")
	}
}
