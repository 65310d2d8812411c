package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_SetAndGet(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, 0, tr.Count())
	assert.Empty(t, tr.IDs())

	tr.Set([]string{"a", "b"})
	assert.Equal(t, 2, tr.Count())
	assert.Equal(t, []string{"a", "b"}, tr.IDs())
}

func TestTracker_SubscribeFanOut(t *testing.T) {
	tr := NewTracker()

	var got1, got2 [][]string
	tr.Subscribe(func(ids []string) { got1 = append(got1, ids) })
	tr.Subscribe(func(ids []string) { got2 = append(got2, ids) })

	tr.Set([]string{"x"})
	tr.Set([]string{"x", "y"})

	assert.Equal(t, [][]string{{"x"}, {"x", "y"}}, got1)
	assert.Equal(t, [][]string{{"x"}, {"x", "y"}}, got2)
}

func TestTracker_SetIdenticalIsNoOp(t *testing.T) {
	tr := NewTracker()
	tr.Set([]string{"a"})

	calls := 0
	tr.Subscribe(func([]string) { calls++ })

	tr.Set([]string{"a"})
	assert.Equal(t, 0, calls)

	tr.Set([]string{"b"})
	assert.Equal(t, 1, calls)
}

func TestTracker_Cancel(t *testing.T) {
	tr := NewTracker()

	calls := 0
	cancel := tr.Subscribe(func([]string) { calls++ })

	tr.Set([]string{"a"})
	cancel()
	tr.Set([]string{"b"})

	assert.Equal(t, 1, calls)

	// Idempotent.
	cancel()
}

func TestTracker_SnapshotIsolation(t *testing.T) {
	tr := NewTracker()

	src := []string{"a", "b"}
	tr.Set(src)
	src[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, tr.IDs())

	got := tr.IDs()
	got[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, tr.IDs())
}
