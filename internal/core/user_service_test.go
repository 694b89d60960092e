package core

import (
	"context"
	"testing"
)

func TestGetOrCreateCreatesProfileOnFirstSession(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo)

	user, created, err := svc.GetOrCreate(context.Background(), "uid-1", "ana@example.com", "Ana", "https://img.example/ana.png")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created {
		t.Error("created = false, want true on first session")
	}
	if user.TokenBalance != 0 {
		t.Errorf("new user balance = %d, want 0", user.TokenBalance)
	}
	if user.Email != "ana@example.com" || user.DisplayName != "Ana" {
		t.Errorf("profile = %q/%q, want claims copied", user.Email, user.DisplayName)
	}
}

func TestGetOrCreateReturnsExistingProfileUnchanged(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedUser(userRepo, "uid-1", 42)
	userRepo.users["uid-1"].Email = "ana@example.com"
	svc := NewUserService(userRepo)

	user, created, err := svc.GetOrCreate(context.Background(), "uid-1", "ana@example.com", "", "")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created {
		t.Error("created = true for an existing user")
	}
	if user.TokenBalance != 42 {
		t.Errorf("balance = %d, want preserved 42", user.TokenBalance)
	}
	if userRepo.updateCalls != 0 {
		t.Errorf("Update called %d times with unchanged claims, want 0", userRepo.updateCalls)
	}
}

func TestGetOrCreateRefreshesChangedClaims(t *testing.T) {
	userRepo := newFakeUserRepo()
	seedUser(userRepo, "uid-1", 42)
	svc := NewUserService(userRepo)

	user, _, err := svc.GetOrCreate(context.Background(), "uid-1", "new@example.com", "Ana B", "")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if user.Email != "new@example.com" || user.DisplayName != "Ana B" {
		t.Errorf("profile = %q/%q, want refreshed claims", user.Email, user.DisplayName)
	}
	if userRepo.updateCalls != 1 {
		t.Errorf("Update called %d times, want 1", userRepo.updateCalls)
	}
	if user.TokenBalance != 42 {
		t.Errorf("balance = %d, refresh must not touch tokens", user.TokenBalance)
	}
}
