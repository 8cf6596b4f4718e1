package services

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/greenprint/greenprint-backend/internal/testutil"
	"github.com/greenprint/greenprint-backend/internal/types"
)

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	h := newHarness(t)

	user, err := h.users.Register(h.ctx, "Ana@Example.com", "s3cret", "Ana", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("email must be normalized, got %q", user.Email)
	}
	if user.Role != types.RoleResident {
		t.Fatalf("expected default RESIDENT role, got %s", user.Role)
	}
	if user.Password == "s3cret" {
		t.Fatalf("password must not be stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	h := newHarness(t)

	if _, err := h.users.Register(h.ctx, "dupe@example.com", "pw1", "First", types.RoleResident); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := h.users.Register(h.ctx, "DUPE@example.com", "pw2", "Second", types.RoleResident)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)

	if err := h.users.UpdateRole(h.ctx, user.ID, types.RoleCommunityLeader); err != nil {
		t.Fatalf("update role: %v", err)
	}
	reloaded, err := h.users.GetByID(h.ctx, user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Role != types.RoleCommunityLeader {
		t.Fatalf("expected COMMUNITY_LEADER, got %s", reloaded.Role)
	}

	if err := h.users.UpdateRole(h.ctx, user.ID, types.Role("SUPERUSER")); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
