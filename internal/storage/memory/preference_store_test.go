package memory

import (
	"context"
	"testing"

	"trade-journal/internal/domain"
)

func TestPreferenceStore_MissingUser(t *testing.T) {
	store := NewPreferenceStore()
	ctx := context.Background()

	id, ok, err := store.GetLastSelectedID(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetLastSelectedID failed: %v", err)
	}
	if ok || id != "" {
		t.Errorf("Expected no selection, got %q", id)
	}

	prefs, err := store.GetPreferences(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if *prefs != (domain.Preferences{}) {
		t.Errorf("Expected empty preferences, got %+v", prefs)
	}
}

func TestPreferenceStore_SetLastSelectedPreservesTheme(t *testing.T) {
	store := NewPreferenceStore()
	ctx := context.Background()

	if err := store.EnsureUser(ctx, &domain.User{ID: "u1", DisplayName: "Trader"}); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if err := store.SetTheme(ctx, "u1", "dark"); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if err := store.SetLastSelectedID(ctx, "u1", "entry-1"); err != nil {
		t.Fatalf("SetLastSelectedID failed: %v", err)
	}

	prefs, _ := store.GetPreferences(ctx, "u1")
	if prefs.Theme != "dark" {
		t.Errorf("theme clobbered: got %q", prefs.Theme)
	}
	id, ok, _ := store.GetLastSelectedID(ctx, "u1")
	if !ok || id != "entry-1" {
		t.Errorf("Expected entry-1, got %q (ok=%v)", id, ok)
	}
}

func TestPreferenceStore_EnsureUserKeepsPreferences(t *testing.T) {
	store := NewPreferenceStore()
	ctx := context.Background()

	if err := store.SetLastSelectedID(ctx, "u1", "entry-9"); err != nil {
		t.Fatalf("SetLastSelectedID failed: %v", err)
	}
	if err := store.EnsureUser(ctx, &domain.User{ID: "u1", DisplayName: "Renamed"}); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	id, ok, _ := store.GetLastSelectedID(ctx, "u1")
	if !ok || id != "entry-9" {
		t.Errorf("EnsureUser dropped preferences: got %q", id)
	}
}
