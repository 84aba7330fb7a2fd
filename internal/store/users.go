package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fixfirst/internal/logging"
	"fixfirst/internal/types"
)

// ErrEmailTaken is returned by SignUp when the email already has an
// account.
var ErrEmailTaken = errors.New("an account with this email already exists")

// ErrBadCredentials is returned by SignIn when the email/password pair does
// not match an account.
var ErrBadCredentials = errors.New("invalid email or password")

// account is the persisted form of a user plus its password. Passwords are
// stored in the clear: this is a local single-user demo auth layer, not a
// credential system.
type account struct {
	types.User
	Password string `json:"password"`
}

// Accounts is the mock authentication layer. Accounts live under one blob
// key, the signed-in session under another, so a restart resumes the
// session.
type Accounts struct {
	blob *BlobStore

	mu       sync.RWMutex
	accounts map[string]account // keyed by lowercased email
	session  *types.User
}

// OpenAccounts loads the account table and any persisted session.
func OpenAccounts(blob *BlobStore) (*Accounts, error) {
	a := &Accounts{
		blob:     blob,
		accounts: make(map[string]account),
	}

	if err := loadJSON(blob, KeyUsers, &a.accounts); err != nil {
		logging.Get(logging.CategoryStore).Error("Discarding unreadable account table: %v", err)
		a.accounts = make(map[string]account)
	}
	if err := loadJSON(blob, KeySessionUser, &a.session); err != nil {
		logging.Get(logging.CategoryStore).Error("Discarding unreadable session: %v", err)
		a.session = nil
	}
	return a, nil
}

// SignUp creates a new account and signs it in. Fails with ErrEmailTaken if
// the email is already registered.
func (a *Accounts) SignUp(email, password, name string, role types.Role) (types.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return types.User{}, fmt.Errorf("email required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.accounts[key]; exists {
		return types.User{}, ErrEmailTaken
	}

	user := types.User{
		UID:   "user-" + uuid.NewString(),
		Email: key,
		Role:  role,
		Name:  name,
	}
	a.accounts[key] = account{User: user, Password: password}
	a.session = &user
	a.persistLocked()

	logging.Store("Signed up %s (%s)", key, role)
	return user, nil
}

// SignIn validates credentials and persists the session.
func (a *Accounts) SignIn(email, password string) (types.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	a.mu.Lock()
	defer a.mu.Unlock()

	acct, ok := a.accounts[key]
	if !ok || acct.Password != password {
		return types.User{}, ErrBadCredentials
	}

	user := acct.User
	a.session = &user
	a.persistLocked()
	return user, nil
}

// SignOut clears the persisted session.
func (a *Accounts) SignOut() {
	a.mu.Lock()
	a.session = nil
	a.persistLocked()
	a.mu.Unlock()
}

// Current returns the signed-in user, if any.
func (a *Accounts) Current() (types.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return types.User{}, false
	}
	return *a.session, true
}

// Citizens returns every citizen account, for the leaderboard.
func (a *Accounts) Citizens() []types.User {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []types.User
	for _, acct := range a.accounts {
		if acct.Role == types.RoleCitizen {
			out = append(out, acct.User)
		}
	}
	return out
}

// UpdateUser replaces the stored profile for the user's email. The session
// copy is refreshed if it is the same user.
func (a *Accounts) UpdateUser(user types.User) bool {
	key := strings.ToLower(user.Email)

	a.mu.Lock()
	defer a.mu.Unlock()

	acct, ok := a.accounts[key]
	if !ok {
		return false
	}
	acct.User = user
	a.accounts[key] = acct
	if a.session != nil && a.session.UID == user.UID {
		a.session = &user
	}
	a.persistLocked()
	return true
}

// persistLocked writes the account table and session. Callers hold mu.
func (a *Accounts) persistLocked() {
	if data, err := json.Marshal(a.accounts); err == nil {
		if err := a.blob.Put(KeyUsers, string(data)); err != nil {
			logging.Get(logging.CategoryStore).Error("Failed to persist accounts: %v", err)
		}
	}
	if a.session == nil {
		if err := a.blob.Delete(KeySessionUser); err != nil {
			logging.Get(logging.CategoryStore).Error("Failed to clear session: %v", err)
		}
		return
	}
	if data, err := json.Marshal(a.session); err == nil {
		if err := a.blob.Put(KeySessionUser, string(data)); err != nil {
			logging.Get(logging.CategoryStore).Error("Failed to persist session: %v", err)
		}
	}
}
