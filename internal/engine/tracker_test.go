package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesync/internal/timeline"
)

func point(id string, ts float64) timeline.SyncPoint {
	return timeline.SyncPoint{
		ID:        id,
		Timestamp: ts,
		Sources:   []string{"clip"},
		Event:     "marker",
	}
}

func newTestTracker() *Tracker {
	return NewTracker([]timeline.SyncPoint{
		point("p2", 5),
		point("p1", 1),
		point("p3", 5.05),
		point("p4", 20),
	})
}

func TestTracker_Active(t *testing.T) {
	tr := newTestTracker()

	active := tr.Active(5.0)
	require.Len(t, active, 2)
	assert.Equal(t, "p2", active[0].ID)
	assert.Equal(t, "p3", active[1].ID)

	// p2 at 5.0 is outside the window, p3 at 5.05 is inside it.
	active = tr.Active(5.125)
	require.Len(t, active, 1)
	assert.Equal(t, "p3", active[0].ID)

	assert.Empty(t, tr.Active(10))
}

func TestTracker_Next(t *testing.T) {
	tr := newTestTracker()

	next, ok := tr.Next(0)
	require.True(t, ok)
	assert.Equal(t, "p1", next.ID)

	// Strictly after: a point at the query time is not "next".
	next, ok = tr.Next(5)
	require.True(t, ok)
	assert.Equal(t, "p3", next.ID)

	_, ok = tr.Next(20)
	assert.False(t, ok)
}

func TestTracker_Previous(t *testing.T) {
	tr := newTestTracker()

	_, ok := tr.Previous(0.5)
	assert.False(t, ok)

	// Inclusive: a point at the query time is "previous".
	prev, ok := tr.Previous(5)
	require.True(t, ok)
	assert.Equal(t, "p2", prev.ID)

	prev, ok = tr.Previous(100)
	require.True(t, ok)
	assert.Equal(t, "p4", prev.ID)
}

func TestTracker_QueriesAreStateless(t *testing.T) {
	tr := newTestTracker()

	first := tr.Active(5)
	tr.Next(3)
	tr.Previous(7)
	assert.Equal(t, first, tr.Active(5))
}
