// Package ledger implements the per-account expense collection and its CRUD
// operations. Each mutation computes the new full collection, persists it,
// and only then replaces the in-memory state, so readers never observe a
// collection that is not yet durable.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"tally/internal/core"
	"tally/internal/events"
	"tally/internal/kv"
)

// EventPublisher receives a message after every successful mutation. Publish
// failures are logged and never fail the mutation.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.LedgerEvent) error
}

// ExpensesKey returns the storage key for an account's expense collection.
func ExpensesKey(accountID string) string {
	return "expenses_" + accountID
}

// Ledger holds the expense collection of the account it was last loaded for.
// Operations take the account id explicitly; an empty id means no active
// session and yields core.ErrNoSession without touching persisted state.
type Ledger struct {
	store  kv.Store
	events EventPublisher

	mu        sync.Mutex
	accountID string
	expenses  []core.Expense
}

func New(store kv.Store, publisher EventPublisher) *Ledger {
	return &Ledger{store: store, events: publisher}
}

// Load reads the persisted collection for accountID, replacing the in-memory
// collection. An account with nothing persisted yet gets an empty collection.
func (l *Ledger) Load(ctx context.Context, accountID string) ([]core.Expense, error) {
	if accountID == "" {
		return nil, core.ErrNoSession
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.loadLocked(ctx, accountID); err != nil {
		return nil, err
	}
	return copyExpenses(l.expenses), nil
}

// List returns the current ordered collection for accountID. If the ledger
// currently holds a different account, the collection is loaded first.
func (l *Ledger) List(ctx context.Context, accountID string) ([]core.Expense, error) {
	if accountID == "" {
		return nil, core.ErrNoSession
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.accountID != accountID {
		if err := l.loadLocked(ctx, accountID); err != nil {
			return nil, err
		}
	}
	return copyExpenses(l.expenses), nil
}

// Add appends an expense (with a caller-assigned unique id) to the end of the
// collection, persists the full result, then publishes it as current state.
func (l *Ledger) Add(ctx context.Context, accountID string, e core.Expense) error {
	if accountID == "" {
		return core.ErrNoSession
	}
	if err := e.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.accountID != accountID {
		if err := l.loadLocked(ctx, accountID); err != nil {
			return err
		}
	}

	next := append(copyExpenses(l.expenses), e)
	if err := l.persistLocked(ctx, accountID, next); err != nil {
		return err
	}
	l.expenses = next

	l.publish(ctx, events.NewLedgerEvent(accountID, e.ID, events.ActionAdd))
	return nil
}

// Update replaces the record whose id matches e.ID with the full given record;
// no partial-field merge, order preserved. A missing id leaves the collection
// unchanged but it is still re-persisted identically.
func (l *Ledger) Update(ctx context.Context, accountID string, e core.Expense) error {
	if accountID == "" {
		return core.ErrNoSession
	}
	if err := e.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.accountID != accountID {
		if err := l.loadLocked(ctx, accountID); err != nil {
			return err
		}
	}

	next := copyExpenses(l.expenses)
	replaced := false
	for i := range next {
		if next[i].ID == e.ID {
			next[i] = e
			replaced = true
			break
		}
	}

	if err := l.persistLocked(ctx, accountID, next); err != nil {
		return err
	}
	l.expenses = next

	if replaced {
		l.publish(ctx, events.NewLedgerEvent(accountID, e.ID, events.ActionUpdate))
	} else {
		slog.DebugContext(ctx, "Update matched no expense", "expense_id", e.ID)
	}
	return nil
}

// Delete removes the expense with the matching id, persists and publishes.
// Deleting an absent id is a no-op.
func (l *Ledger) Delete(ctx context.Context, accountID, id string) error {
	if accountID == "" {
		return core.ErrNoSession
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.accountID != accountID {
		if err := l.loadLocked(ctx, accountID); err != nil {
			return err
		}
	}

	next := make([]core.Expense, 0, len(l.expenses))
	removed := false
	for _, e := range l.expenses {
		if e.ID == id && !removed {
			removed = true
			continue
		}
		next = append(next, e)
	}

	if err := l.persistLocked(ctx, accountID, next); err != nil {
		return err
	}
	l.expenses = next

	if removed {
		l.publish(ctx, events.NewLedgerEvent(accountID, id, events.ActionDelete))
	}
	return nil
}

func (l *Ledger) loadLocked(ctx context.Context, accountID string) error {
	raw, ok, err := l.store.Get(ctx, ExpensesKey(accountID))
	if err != nil {
		return fmt.Errorf("read expenses: %w", err)
	}

	var expenses []core.Expense
	if ok {
		if err := json.Unmarshal(raw, &expenses); err != nil {
			return fmt.Errorf("decode expenses: %w", err)
		}
	}

	l.accountID = accountID
	l.expenses = expenses
	return nil
}

func (l *Ledger) persistLocked(ctx context.Context, accountID string, expenses []core.Expense) error {
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if err := l.store.Set(ctx, ExpensesKey(accountID), raw); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	return nil
}

func (l *Ledger) publish(ctx context.Context, ev events.LedgerEvent) {
	if l.events == nil {
		return
	}
	if err := l.events.Publish(ctx, ev); err != nil {
		// The mutation is already durable; the audit trail just misses a beat.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err,
			"account_id", ev.AccountID,
			"expense_id", ev.ExpenseID,
			"action", ev.Action)
	}
}

func copyExpenses(in []core.Expense) []core.Expense {
	if in == nil {
		return nil
	}
	out := make([]core.Expense, len(in))
	copy(out, in)
	return out
}
