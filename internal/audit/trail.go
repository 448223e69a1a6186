// Package audit maintains a per-account trail of ledger mutations. The trail
// is fed by the event worker and persisted in the same kv store as the
// ledger, under its own key prefix.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/events"
	"tally/internal/kv"
)

// Record is one audit entry: which expense changed, how, and when.
type Record struct {
	ExpenseID string    `json:"expense_id"`
	Action    string    `json:"action"`
	At        time.Time `json:"at"`
}

// TrailKey returns the storage key for an account's audit trail.
func TrailKey(accountID string) string {
	return "audit_" + accountID
}

// Trail appends and reads audit records on top of a kv.Store.
type Trail struct {
	store kv.Store
}

func NewTrail(store kv.Store) *Trail {
	return &Trail{store: store}
}

// Append records a ledger event at the end of the account's trail. It is the
// handler wired into the event consumer.
func (t *Trail) Append(ctx context.Context, ev events.LedgerEvent) error {
	if ev.AccountID == "" {
		return fmt.Errorf("event missing account id")
	}

	records, err := t.Records(ctx, ev.AccountID)
	if err != nil {
		return err
	}

	records = append(records, Record{
		ExpenseID: ev.ExpenseID,
		Action:    ev.Action,
		At:        ev.Timestamp,
	})

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode audit trail: %w", err)
	}
	if err := t.store.Set(ctx, TrailKey(ev.AccountID), raw); err != nil {
		return fmt.Errorf("persist audit trail: %w", err)
	}

	slog.InfoContext(ctx, "Audit record appended",
		"account_id", ev.AccountID,
		"expense_id", ev.ExpenseID,
		"action", ev.Action,
		"trail_len", len(records))
	return nil
}

// Records returns the account's audit trail in append order.
func (t *Trail) Records(ctx context.Context, accountID string) ([]Record, error) {
	raw, ok, err := t.store.Get(ctx, TrailKey(accountID))
	if err != nil {
		return nil, fmt.Errorf("read audit trail: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode audit trail: %w", err)
	}
	return records, nil
}
