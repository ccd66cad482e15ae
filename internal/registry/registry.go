package registry

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"campus_commute/internal/models"
	"campus_commute/internal/store"
)

var (
	ErrDuplicateAccount = errors.New("account already registered for this email and role")
	ErrAccountNotFound  = errors.New("account not found")
)

// Registry manages the set of registered identities. It holds no state of
// its own: every call re-reads the full account list from the store under
// store.KeyAccounts, mutates it, and writes it back. The collection is
// small enough that no indexing is needed.
type Registry struct {
	store store.Store
}

func New(s store.Store) *Registry {
	return &Registry{store: s}
}

func (r *Registry) load() []models.Account {
	var accounts []models.Account
	r.store.Get(store.KeyAccounts, &accounts)
	return accounts
}

func (r *Registry) save(accounts []models.Account) error {
	return r.store.Set(store.KeyAccounts, accounts)
}

// Register creates a new account for (email, role). The password is stored
// as a bcrypt hash. Fails with ErrDuplicateAccount when the pair is already
// taken; the same email under a different role is a distinct account.
func (r *Registry) Register(email, password string, role models.Role, profile models.Account) (models.Account, error) {
	accounts := r.load()
	for _, acc := range accounts {
		if acc.Email == email && acc.Role == role {
			return models.Account{}, ErrDuplicateAccount
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, err
	}

	acc := profile
	acc.Email = email
	acc.Role = role
	acc.Password = string(hash)

	accounts = append(accounts, acc)
	if err := r.save(accounts); err != nil {
		return models.Account{}, err
	}
	logrus.WithFields(logrus.Fields{"email": email, "role": role}).Info("registry: account registered")
	return acc, nil
}

// Find returns the account for (email, role) without checking credentials.
func (r *Registry) Find(email string, role models.Role) (models.Account, bool) {
	for _, acc := range r.load() {
		if acc.Email == email && acc.Role == role {
			return acc, true
		}
	}
	return models.Account{}, false
}

// FindByCredentials collapses "no such account" and "wrong password" into a
// single absent result. Callers that need to tell them apart probe Find
// first.
func (r *Registry) FindByCredentials(email, password string, role models.Role) (models.Account, bool) {
	acc, ok := r.Find(email, role)
	if !ok {
		return models.Account{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)) != nil {
		return models.Account{}, false
	}
	return acc, true
}

// VerifyPassword checks the supplied clear-text password against the stored
// hash for (email, role).
func (r *Registry) VerifyPassword(email string, role models.Role, password string) bool {
	acc, ok := r.Find(email, role)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)) == nil
}

// Update merges the patch into the stored account. Email, role, and
// password never change here.
func (r *Registry) Update(email string, role models.Role, patch models.ProfilePatch) (models.Account, error) {
	accounts := r.load()
	for i := range accounts {
		if accounts[i].Email == email && accounts[i].Role == role {
			patch.Apply(&accounts[i])
			if err := r.save(accounts); err != nil {
				return models.Account{}, err
			}
			return accounts[i], nil
		}
	}
	return models.Account{}, ErrAccountNotFound
}

// SetPassword replaces the stored hash for (email, role). Serves the
// change-password and reset-password flows.
func (r *Registry) SetPassword(email string, role models.Role, newPassword string) error {
	accounts := r.load()
	for i := range accounts {
		if accounts[i].Email == email && accounts[i].Role == role {
			hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			accounts[i].Password = string(hash)
			return r.save(accounts)
		}
	}
	return ErrAccountNotFound
}

// Delete removes the account for (email, role). No-op when absent.
func (r *Registry) Delete(email string, role models.Role) error {
	accounts := r.load()
	kept := accounts[:0]
	for _, acc := range accounts {
		if acc.Email == email && acc.Role == role {
			continue
		}
		kept = append(kept, acc)
	}
	if len(kept) == len(accounts) {
		return nil
	}
	logrus.WithFields(logrus.Fields{"email": email, "role": role}).Info("registry: account deleted")
	return r.save(kept)
}

// List returns every registered account.
func (r *Registry) List() []models.Account {
	return r.load()
}
