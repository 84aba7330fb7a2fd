package store

import (
	"errors"
	"testing"

	"fixfirst/internal/types"
)

func newTestAccounts(t *testing.T) (*BlobStore, *Accounts) {
	t.Helper()
	blob, err := NewBlobStore(":memory:")
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	t.Cleanup(func() { blob.Close() })

	a, err := OpenAccounts(blob)
	if err != nil {
		t.Fatalf("OpenAccounts: %v", err)
	}
	return blob, a
}

func TestSignUpAndSession(t *testing.T) {
	_, a := newTestAccounts(t)

	user, err := a.SignUp("Alex@Example.com", "pw", "Alex Chen", types.RoleCitizen)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.Email != "alex@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}

	current, ok := a.Current()
	if !ok || current.UID != user.UID {
		t.Error("signup should sign the new account in")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	_, a := newTestAccounts(t)

	if _, err := a.SignUp("alex@example.com", "pw", "Alex", types.RoleCitizen); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	_, err := a.SignUp("ALEX@example.com", "other", "Imposter", types.RoleCitizen)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignInValidation(t *testing.T) {
	_, a := newTestAccounts(t)
	if _, err := a.SignUp("alex@example.com", "pw", "Alex", types.RoleCitizen); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	a.SignOut()

	if _, err := a.SignIn("alex@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
	if _, err := a.SignIn("nobody@example.com", "pw"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("expected ErrBadCredentials for unknown email, got %v", err)
	}
	if _, err := a.SignIn("alex@example.com", "pw"); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	blob, a := newTestAccounts(t)
	user, err := a.SignUp("alex@example.com", "pw", "Alex", types.RoleCitizen)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	reopened, err := OpenAccounts(blob)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	current, ok := reopened.Current()
	if !ok || current.UID != user.UID {
		t.Error("session lost across reopen")
	}

	reopened.SignOut()
	again, err := OpenAccounts(blob)
	if err != nil {
		t.Fatalf("reopen after signout: %v", err)
	}
	if _, ok := again.Current(); ok {
		t.Error("signout did not clear the persisted session")
	}
}

func TestCitizensExcludesEmployees(t *testing.T) {
	_, a := newTestAccounts(t)
	a.SeedAccounts()

	for _, u := range a.Citizens() {
		if u.Role != types.RoleCitizen {
			t.Errorf("Citizens returned %s account %s", u.Role, u.Email)
		}
	}
	if len(a.Citizens()) == 0 {
		t.Error("expected at least the seeded demo citizen")
	}
}
