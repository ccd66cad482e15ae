package registry

import (
	"errors"
	"testing"

	"campus_commute/internal/models"
	"campus_commute/internal/store"
)

func newTestRegistry() *Registry {
	return New(store.NewMemStore())
}

func TestRegisterThenDuplicate(t *testing.T) {
	reg := newTestRegistry()

	if _, err := reg.Register("a@x.edu", "secret123", models.RoleStudent, models.Account{FullName: "Asha Rao"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := reg.Register("a@x.edu", "other0000", models.RoleStudent, models.Account{})
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("second register: got %v, want ErrDuplicateAccount", err)
	}
}

func TestSameEmailDifferentRoleIsDistinct(t *testing.T) {
	reg := newTestRegistry()

	if _, err := reg.Register("a@x.edu", "secret123", models.RoleStudent, models.Account{}); err != nil {
		t.Fatalf("student register failed: %v", err)
	}
	if _, err := reg.Register("a@x.edu", "secret123", models.RoleDriver, models.Account{}); err != nil {
		t.Fatalf("driver register with same email failed: %v", err)
	}

	if _, ok := reg.Find("a@x.edu", models.RoleStudent); !ok {
		t.Error("student account missing")
	}
	if _, ok := reg.Find("a@x.edu", models.RoleDriver); !ok {
		t.Error("driver account missing")
	}
}

func TestPasswordIsHashedAtRest(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("a@x.edu", "secret123", models.RoleStudent, models.Account{})

	acc, _ := reg.Find("a@x.edu", models.RoleStudent)
	if acc.Password == "secret123" {
		t.Fatal("password stored in clear text")
	}
	if !reg.VerifyPassword("a@x.edu", models.RoleStudent, "secret123") {
		t.Error("VerifyPassword rejected the correct password")
	}
	if reg.VerifyPassword("a@x.edu", models.RoleStudent, "wrong-pass") {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestFindByCredentialsCollapsesFailures(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("a@x.edu", "secret123", models.RoleStudent, models.Account{})

	if _, ok := reg.FindByCredentials("a@x.edu", "secret123", models.RoleStudent); !ok {
		t.Error("correct credentials rejected")
	}
	if _, ok := reg.FindByCredentials("a@x.edu", "wrong-pass", models.RoleStudent); ok {
		t.Error("wrong password accepted")
	}
	if _, ok := reg.FindByCredentials("nobody@x.edu", "secret123", models.RoleStudent); ok {
		t.Error("unknown email accepted")
	}
	if _, ok := reg.FindByCredentials("a@x.edu", "secret123", models.RoleDriver); ok {
		t.Error("wrong role accepted")
	}
}

func TestUpdateMergesWithoutTouchingIdentity(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("a@x.edu", "secret123", models.RoleStudent, models.Account{FullName: "Asha Rao", YearBatch: "2024"})

	branch := "CSE"
	updated, err := reg.Update("a@x.edu", models.RoleStudent, models.ProfilePatch{Branch: &branch})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Branch != "CSE" {
		t.Errorf("branch not merged: %q", updated.Branch)
	}
	if updated.FullName != "Asha Rao" || updated.YearBatch != "2024" {
		t.Error("unpatched fields changed")
	}
	if updated.Email != "a@x.edu" || updated.Role != models.RoleStudent {
		t.Error("identity fields changed")
	}
	if !reg.VerifyPassword("a@x.edu", models.RoleStudent, "secret123") {
		t.Error("password changed by profile update")
	}
}

func TestUpdateMissingAccount(t *testing.T) {
	reg := newTestRegistry()
	name := "Nobody"
	if _, err := reg.Update("nobody@x.edu", models.RoleStudent, models.ProfilePatch{FullName: &name}); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("got %v, want ErrAccountNotFound", err)
	}
}

func TestSetPassword(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("a@x.edu", "secret123", models.RoleStudent, models.Account{})

	if err := reg.SetPassword("a@x.edu", models.RoleStudent, "newsecret9"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if reg.VerifyPassword("a@x.edu", models.RoleStudent, "secret123") {
		t.Error("old password still accepted")
	}
	if !reg.VerifyPassword("a@x.edu", models.RoleStudent, "newsecret9") {
		t.Error("new password rejected")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("a@x.edu", "secret123", models.RoleStudent, models.Account{})

	if err := reg.Delete("a@x.edu", models.RoleStudent); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := reg.Find("a@x.edu", models.RoleStudent); ok {
		t.Error("account still present after delete")
	}
	if err := reg.Delete("a@x.edu", models.RoleStudent); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
}

// The original frontend wrote accounts to two divergent collections, so a
// deletion could miss the copy login read. Register, login, and delete
// must all hit the same stored list.
func TestSingleAccountCollection(t *testing.T) {
	st := store.NewMemStore()
	reg := New(st)

	reg.Register("a@x.edu", "secret123", models.RoleStudent, models.Account{})

	var viaStore []models.Account
	if !st.Get(store.KeyAccounts, &viaStore) || len(viaStore) != 1 {
		t.Fatalf("expected one account under KeyAccounts, got %d", len(viaStore))
	}

	if err := reg.Delete("a@x.edu", models.RoleStudent); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := reg.FindByCredentials("a@x.edu", "secret123", models.RoleStudent); ok {
		t.Error("login still succeeds after delete; collections have diverged")
	}
	viaStore = nil
	st.Get(store.KeyAccounts, &viaStore)
	if len(viaStore) != 0 {
		t.Errorf("expected empty collection after delete, got %d entries", len(viaStore))
	}
}
