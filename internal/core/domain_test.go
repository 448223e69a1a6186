package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "canonical layout", input: "2026-03-15", want: NewDate(2026, time.March, 15)},
		{name: "rfc3339 timestamp truncates to date", input: "2026-03-15T18:04:05Z", want: NewDate(2026, time.March, 15)},
		{name: "whitespace trimmed", input: " 2026-03-15 ", want: NewDate(2026, time.March, 15)},
		{name: "garbage rejected", input: "15/03/2026", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want.Time), "got %v, want %v", got, tt.want)
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.August, 29)
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-29"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Equal(d.Time))
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		ID:       "e1",
		Title:    "Groceries",
		Amount:   Money{Cents: 1234},
		Category: "food",
		Date:     NewDate(2026, time.August, 1),
	}

	tests := []struct {
		name    string
		mutate  func(e Expense) Expense
		wantErr error
	}{
		{name: "valid", mutate: func(e Expense) Expense { return e }},
		{name: "empty title", mutate: func(e Expense) Expense { e.Title = "   "; return e }, wantErr: ErrEmptyTitle},
		{name: "zero amount", mutate: func(e Expense) Expense { e.Amount = Money{}; return e }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(e Expense) Expense { e.Amount = Money{Cents: -5}; return e }, wantErr: ErrInvalidAmount},
		{name: "empty category", mutate: func(e Expense) Expense { e.Category = ""; return e }, wantErr: ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(valid).Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("title too long", func(t *testing.T) {
		e := valid
		e.Title = strings.Repeat("x", 201)
		assert.Error(t, e.Validate())
	})

	t.Run("zero date", func(t *testing.T) {
		e := valid
		e.Date = Date{}
		assert.Error(t, e.Validate())
	})

	t.Run("unknown category is preserved", func(t *testing.T) {
		e := valid
		e.Category = "cryptocurrency"
		assert.NoError(t, e.Validate())
	})
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Food & Dining", CategoryLabel("food"))
	assert.Equal(t, "Personal Care", CategoryLabel("personal"))
	assert.Equal(t, "Other", CategoryLabel("other"))
	// Unrecognized keys render as-is.
	assert.Equal(t, "cryptocurrency", CategoryLabel("cryptocurrency"))
}

func TestCategoriesIsACopy(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 11)
	cats[0].Label = "mutated"
	assert.Equal(t, "Food & Dining", CategoryLabel("food"))
}
