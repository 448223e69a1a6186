// Package directory implements the account directory: registration, login,
// logout and the current-session pointer that gates every ledger operation.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tally/internal/core"
	"tally/internal/kv"
)

// Persisted under these fixed keys: the full account list and the single
// current-session pointer.
const (
	usersKey   = "users"
	sessionKey = "user"
)

// Directory manages registered accounts and the current session on top of a
// kv.Store.
type Directory struct {
	store      kv.Store
	bcryptCost int

	// Serializes read-modify-write of the account list so concurrent
	// registrations cannot both pass the duplicate check.
	mu sync.Mutex
}

// Option configures a Directory.
type Option func(*Directory)

// WithBcryptCost overrides the bcrypt cost (useful to speed up tests).
func WithBcryptCost(cost int) Option {
	return func(d *Directory) { d.bcryptCost = cost }
}

func New(store kv.Store, opts ...Option) *Directory {
	d := &Directory{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register creates a new account and establishes a session for it. It fails
// with core.ErrDuplicateEmail when any existing account has the same email
// (case-sensitive, linear scan).
func (d *Directory) Register(ctx context.Context, email, password string) (core.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return core.Account{}, core.ErrEmptyEmail
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.loadAccounts(ctx)
	if err != nil {
		return core.Account{}, err
	}
	for _, a := range accounts {
		if a.Email == email {
			return core.Account{}, core.ErrDuplicateEmail
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.bcryptCost)
	if err != nil {
		return core.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := core.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := account.Validate(); err != nil {
		return core.Account{}, err
	}

	if err := d.saveAccounts(ctx, append(accounts, account)); err != nil {
		return core.Account{}, err
	}
	if err := d.setSession(ctx, account); err != nil {
		return core.Account{}, err
	}

	slog.InfoContext(ctx, "Account registered", "account_id", account.ID)
	return account, nil
}

// Login matches email and password against the account list (linear scan,
// first match wins) and establishes a session. A miss on either field yields
// core.ErrInvalidCredentials.
func (d *Directory) Login(ctx context.Context, email, password string) (core.Account, error) {
	accounts, err := d.loadAccounts(ctx)
	if err != nil {
		return core.Account{}, err
	}

	for _, a := range accounts {
		if a.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
			break
		}
		if err := d.setSession(ctx, a); err != nil {
			return core.Account{}, err
		}
		slog.InfoContext(ctx, "Login", "account_id", a.ID)
		return a, nil
	}

	return core.Account{}, core.ErrInvalidCredentials
}

// Logout clears the session pointer. Logging out with no session is a no-op.
func (d *Directory) Logout(ctx context.Context) error {
	if err := d.store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the active session, if any. Every ledger operation uses
// this as its access guard.
func (d *Directory) Current(ctx context.Context) (core.Session, bool, error) {
	raw, ok, err := d.store.Get(ctx, sessionKey)
	if err != nil {
		return core.Session{}, false, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return core.Session{}, false, nil
	}
	var s core.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return core.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	if s.ID == "" {
		return core.Session{}, false, nil
	}
	return s, true, nil
}

func (d *Directory) loadAccounts(ctx context.Context) ([]core.Account, error) {
	raw, ok, err := d.store.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("read accounts: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var accounts []core.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}

func (d *Directory) saveAccounts(ctx context.Context, accounts []core.Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := d.store.Set(ctx, usersKey, raw); err != nil {
		return fmt.Errorf("persist accounts: %w", err)
	}
	return nil
}

func (d *Directory) setSession(ctx context.Context, a core.Account) error {
	raw, err := json.Marshal(core.Session{ID: a.ID, Email: a.Email})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := d.store.Set(ctx, sessionKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
