package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateLayout is the serialized form of expense dates in the persisted blobs.
const DateLayout = "2006-01-02"

type (
	// Account is a registered user identity. The password field carries a
	// bcrypt hash, never the plaintext password.
	Account struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		PasswordHash string `json:"password"`
	}

	// Session references the currently logged-in account. The password hash
	// is deliberately excluded.
	Session struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}

	// Date is a calendar date. It serializes as "2006-01-02" and accepts
	// RFC 3339 timestamps on the way in, since browser-era blobs stored full
	// timestamps.
	Date struct {
		time.Time
	}

	// Expense is a single spending record owned by one account.
	Expense struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
		Date     Date   `json:"date"`
		Notes    string `json:"notes,omitempty"`
	}
)

var (
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyTitle         = errors.New("empty title")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyEmail         = errors.New("empty email")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a serialized date, accepting both the canonical layout
// and RFC 3339 timestamps.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, errors.New("invalid date: " + s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if a.PasswordHash == "" {
		return errors.New("missing password hash")
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	// Unknown categories are preserved verbatim, but some category is required.
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Date.Validate()
}
