package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core"
	"tally/internal/events"
	"tally/internal/kv"
)

type capturingPublisher struct {
	published []events.LedgerEvent
}

func (p *capturingPublisher) Publish(_ context.Context, ev events.LedgerEvent) error {
	p.published = append(p.published, ev)
	return nil
}

func testExpense(id, title string, cents int64) core.Expense {
	return core.Expense{
		ID:       id,
		Title:    title,
		Amount:   core.Money{Cents: cents},
		Category: "food",
		Date:     core.NewDate(2026, time.August, 15),
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	led := New(kv.NewMemoryStore(), nil)

	require.NoError(t, led.Add(ctx, "acc1", testExpense("e1", "first", 100)))
	require.NoError(t, led.Add(ctx, "acc1", testExpense("e2", "second", 200)))
	require.NoError(t, led.Add(ctx, "acc1", testExpense("e3", "third", 300)))

	got, err := led.List(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)
	assert.Equal(t, "e3", got[2].ID)
}

func TestAddValidates(t *testing.T) {
	ctx := context.Background()
	led := New(kv.NewMemoryStore(), nil)

	err := led.Add(ctx, "acc1", testExpense("e1", "  ", 100))
	assert.ErrorIs(t, err, core.ErrEmptyTitle)

	got, err := led.List(ctx, "acc1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmptyAccountIDMeansNoSession(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	led := New(store, nil)

	_, err := led.Load(ctx, "")
	assert.ErrorIs(t, err, core.ErrNoSession)
	_, err = led.List(ctx, "")
	assert.ErrorIs(t, err, core.ErrNoSession)
	assert.ErrorIs(t, led.Add(ctx, "", testExpense("e1", "x", 100)), core.ErrNoSession)
	assert.ErrorIs(t, led.Update(ctx, "", testExpense("e1", "x", 100)), core.ErrNoSession)
	assert.ErrorIs(t, led.Delete(ctx, "", "e1"), core.ErrNoSession)

	assert.Equal(t, 0, store.Len(), "no-session operations must not touch persisted state")
}

func TestUpdateReplacesFullRecord(t *testing.T) {
	ctx := context.Background()
	led := New(kv.NewMemoryStore(), nil)

	original := testExpense("e1", "lunch", 1000)
	original.Notes = "with colleagues"
	require.NoError(t, led.Add(ctx, "acc1", original))
	require.NoError(t, led.Add(ctx, "acc1", testExpense("e2", "coffee", 350)))

	replacement := testExpense("e1", "dinner", 2500)
	require.NoError(t, led.Update(ctx, "acc1", replacement))

	got, err := led.List(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID, "order preserved")
	assert.Equal(t, "dinner", got[0].Title)
	assert.Equal(t, int64(2500), got[0].Amount.Cents)
	assert.Empty(t, got[0].Notes, "full replace, no field merge")
	assert.Equal(t, "e2", got[1].ID)
}

func TestUpdateMissingIDLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	pub := &capturingPublisher{}
	led := New(kv.NewMemoryStore(), pub)

	require.NoError(t, led.Add(ctx, "acc1", testExpense("e1", "lunch", 1000)))
	pub.published = nil

	require.NoError(t, led.Update(ctx, "acc1", testExpense("ghost", "nope", 100)))

	got, err := led.List(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lunch", got[0].Title)
	assert.Empty(t, pub.published, "no event for a no-op update")
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	led := New(kv.NewMemoryStore(), nil)

	require.NoError(t, led.Add(ctx, "acc1", testExpense("e1", "a", 100)))
	require.NoError(t, led.Add(ctx, "acc1", testExpense("e2", "b", 200)))
	require.NoError(t, led.Add(ctx, "acc1", testExpense("e3", "c", 300)))

	require.NoError(t, led.Delete(ctx, "acc1", "e2"))

	got, err := led.List(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e3", got[1].ID)

	// Deleting an absent id is a no-op.
	require.NoError(t, led.Delete(ctx, "acc1", "ghost"))
	got, err = led.List(ctx, "acc1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMutationsSurviveReload(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	led := New(store, nil)
	require.NoError(t, led.Add(ctx, "acc1", testExpense("e1", "groceries", 4599)))
	require.NoError(t, led.Add(ctx, "acc1", testExpense("e2", "fuel", 6000)))
	require.NoError(t, led.Delete(ctx, "acc1", "e1"))

	fresh := New(store, nil)
	got, err := fresh.Load(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, int64(6000), got[0].Amount.Cents)
}

func TestAccountsAreIsolated(t *testing.T) {
	ctx := context.Background()
	led := New(kv.NewMemoryStore(), nil)

	require.NoError(t, led.Add(ctx, "acc1", testExpense("e1", "mine", 100)))
	require.NoError(t, led.Add(ctx, "acc2", testExpense("e2", "theirs", 200)))

	mine, err := led.List(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Title)

	theirs, err := led.List(ctx, "acc2")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "theirs", theirs[0].Title)
}

func TestMutationsPublishEvents(t *testing.T) {
	ctx := context.Background()
	pub := &capturingPublisher{}
	led := New(kv.NewMemoryStore(), pub)

	require.NoError(t, led.Add(ctx, "acc1", testExpense("e1", "a", 100)))
	require.NoError(t, led.Update(ctx, "acc1", testExpense("e1", "b", 200)))
	require.NoError(t, led.Delete(ctx, "acc1", "e1"))

	require.Len(t, pub.published, 3)
	assert.Equal(t, events.ActionAdd, pub.published[0].Action)
	assert.Equal(t, events.ActionUpdate, pub.published[1].Action)
	assert.Equal(t, events.ActionDelete, pub.published[2].Action)
	for _, ev := range pub.published {
		assert.Equal(t, "acc1", ev.AccountID)
		assert.Equal(t, "e1", ev.ExpenseID)
		assert.False(t, ev.Timestamp.IsZero())
	}
}
