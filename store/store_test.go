package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cinebook/model"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
}

func TestSession_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	if _, ok, err := LoadSession(); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}
	if Token() != "" {
		t.Fatal("expected empty token")
	}

	user := model.User{Id: 7, Name: "Ana", Email: "ana@example.com", Role: model.RoleOwner}
	if err := SaveSession("tok-1", user); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	saved, ok, err := LoadSession()
	if err != nil || !ok {
		t.Fatalf("expected session, got ok=%v err=%v", ok, err)
	}
	if saved.Token != "tok-1" || saved.User.Id != 7 || saved.User.Role != model.RoleOwner {
		t.Fatalf("unexpected session: %+v", saved)
	}
	if Token() != "tok-1" {
		t.Fatalf("unexpected token: %q", Token())
	}

	if err := ClearSession(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := ClearSession(); err != nil {
		t.Fatalf("expected second clear to succeed, got %v", err)
	}
	if _, ok, _ := LoadSession(); ok {
		t.Fatal("expected session to be cleared")
	}
}

func TestSaveSession_RequiresToken(t *testing.T) {
	setTestConfigDir(t)

	if err := SaveSession("  ", model.User{Id: 1}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestLoadSession_InvalidFile(t *testing.T) {
	setTestConfigDir(t)

	path, err := configPath(sessionFile)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := LoadSession(); err == nil {
		t.Fatal("expected error for corrupt session file")
	}
}

func TestBookings_FilteredByUserNewestFirst(t *testing.T) {
	setTestConfigDir(t)

	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	records := []model.BookingRecord{
		{Reference: "r1", UserId: 1, Title: "Old", BookedAt: base},
		{Reference: "r2", UserId: 2, Title: "Other user", BookedAt: base.Add(time.Hour)},
		{Reference: "r3", UserId: 1, Title: "New", BookedAt: base.Add(2 * time.Hour)},
	}
	for _, record := range records {
		if err := AppendBooking(record); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	got, err := LoadBookings(1)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(got))
	}
	if got[0].Reference != "r3" || got[1].Reference != "r1" {
		t.Fatalf("unexpected order: %+v", got)
	}

	if err := AppendBooking(model.BookingRecord{UserId: 1}); err == nil {
		t.Fatal("expected error for missing reference")
	}
}

func TestToggleWishlist_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	item := model.WishlistItem{Kind: model.BookingKindMovie, TargetId: "m1", Title: "Dune"}
	added, err := ToggleWishlist(1, item)
	if err != nil || !added {
		t.Fatalf("expected item added, got added=%v err=%v", added, err)
	}
	if !InWishlist(1, model.BookingKindMovie, "m1") {
		t.Fatal("expected item in wishlist")
	}
	if InWishlist(2, model.BookingKindMovie, "m1") {
		t.Fatal("expected wishlists to be per user")
	}
	if InWishlist(1, model.BookingKindEvent, "m1") {
		t.Fatal("expected kind to be part of the key")
	}

	added, err = ToggleWishlist(1, item)
	if err != nil || added {
		t.Fatalf("expected item removed, got added=%v err=%v", added, err)
	}
	items, err := LoadWishlist(1)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty wishlist, got %+v", items)
	}
}

func TestToggleWishlist_InvalidInput(t *testing.T) {
	setTestConfigDir(t)

	if _, err := ToggleWishlist(0, model.WishlistItem{TargetId: "m1"}); err == nil {
		t.Fatal("expected error for missing user id")
	}
	if _, err := ToggleWishlist(1, model.WishlistItem{}); err == nil {
		t.Fatal("expected error for missing target id")
	}
}
