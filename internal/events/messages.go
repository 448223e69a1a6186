package events

import (
	"encoding/json"
	"time"
)

// Ledger mutation actions carried on the wire.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// LedgerEvent describes a single ledger mutation. It is intentionally small:
// consumers that need the full record fetch it from the store.
type LedgerEvent struct {
	AccountID string    `json:"account_id"`
	ExpenseID string    `json:"expense_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(accountID, expenseID, action string) LedgerEvent {
	return LedgerEvent{
		AccountID: accountID,
		ExpenseID: expenseID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, err
	}
	return e, nil
}
