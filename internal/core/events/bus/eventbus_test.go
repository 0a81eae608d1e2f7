package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishOrder(t *testing.T) {
	b := New()
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		_, err := b.Subscribe("tick", func(Event) error { got = append(got, i); return nil })
		require.NoError(t, err)
	}
	require.NoError(t, b.Emit("tick", "test", nil))
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestCancelDuringDelivery(t *testing.T) {
	b := New()
	calls := 0
	var second Subscription
	_, _ = b.Subscribe("e", func(Event) error { return second.Cancel() })
	second, _ = b.Subscribe("e", func(Event) error { calls++; return nil })

	require.NoError(t, b.Emit("e", "s", nil))
	require.NoError(t, b.Emit("e", "s", nil))
	assert.Equal(t, 0, calls)
	assert.False(t, second.IsActive())
	assert.NoError(t, second.Cancel())
}

func TestErrorsJoined(t *testing.T) {
	b := New()
	e1, e2 := errors.New("one"), errors.New("two")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.Emit("x", "s", nil)
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
	assert.Equal(t, uint64(1), b.GetMetrics().Errors)
}

func TestEnqueueFlush(t *testing.T) {
	b := New()
	var seen []any
	_, _ = b.Subscribe("late", func(e Event) error {
		seen = append(seen, e.Data())
		if e.Data() == 1 {
			b.Enqueue(NewEvent("late", "handler", 3))
		}
		return nil
	})

	b.Enqueue(NewEvent("late", "s", 1))
	b.Enqueue(NewEvent("late", "s", 2))
	assert.Empty(t, seen)
	assert.Equal(t, 2, b.Pending())

	require.NoError(t, b.Flush())
	assert.Equal(t, []any{1, 2}, seen)
	assert.Equal(t, 1, b.Pending())

	require.NoError(t, b.Flush())
	assert.Equal(t, []any{1, 2, 3}, seen)
}

func TestFilters(t *testing.T) {
	b := New()
	calls := 0
	_, _ = b.Subscribe("f", func(Event) error { calls++; return nil })
	_ = b.PublishWithFilters(NewEvent("f", "s", nil), func(Event) bool { return false })
	assert.Equal(t, 0, calls)
	assert.Equal(t, uint64(1), b.GetMetrics().DroppedByFilters)
}

func TestNilHandler(t *testing.T) {
	_, err := New().Subscribe("x", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}
