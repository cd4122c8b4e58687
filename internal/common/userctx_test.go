package common

import (
	"context"
	"testing"
)

func TestUserContext_RoundTrip(t *testing.T) {
	ctx := context.Background()

	// Absent by default
	if uc := UserContextFromContext(ctx); uc != nil {
		t.Error("Expected nil UserContext from empty context")
	}

	// Store and retrieve
	uc := &UserContext{
		UserID: "user-123",
		Email:  "alice@example.com",
		Role:   "admin",
	}
	ctx = WithUserContext(ctx, uc)

	got := UserContextFromContext(ctx)
	if got == nil {
		t.Fatal("Expected non-nil UserContext")
	}
	if got.UserID != "user-123" {
		t.Errorf("Expected user-123, got %s", got.UserID)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Expected alice@example.com, got %s", got.Email)
	}
	if got.Role != "admin" {
		t.Errorf("Expected admin, got %s", got.Role)
	}
}

func TestResolveUserID_NoContext(t *testing.T) {
	if id := ResolveUserID(context.Background()); id != "" {
		t.Errorf("Expected empty user ID without context, got %q", id)
	}
}

func TestResolveUserID_WithContext(t *testing.T) {
	ctx := WithUserContext(context.Background(), &UserContext{UserID: "user-7"})
	if id := ResolveUserID(ctx); id != "user-7" {
		t.Errorf("Expected user-7, got %q", id)
	}
}
