package store

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "groups/g1/name", "Morning Commute"))

	var name string
	require.NoError(t, s.Get(ctx, "groups/g1/name", &name))
	assert.Equal(t, "Morning Commute", name)

	// Parent branches materialize implicitly.
	var group map[string]interface{}
	require.NoError(t, s.Get(ctx, "groups/g1", &group))
	assert.Equal(t, "Morning Commute", group["name"])
}

func TestMemoryStore_GetMissingPathIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var out string
	err := s.Get(ctx, "rides/nope", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "users/u1/name", "Ada"))
	require.NoError(t, s.Delete(ctx, "users/u1/name"))
	require.NoError(t, s.Delete(ctx, "users/u1/name"))

	var out string
	assert.ErrorIs(t, s.Get(ctx, "users/u1/name", &out), ErrNotFound)
}

func TestMemoryStore_EmptyBranchesArePruned(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "groups/g1/members/u1", true))
	require.NoError(t, s.Delete(ctx, "groups/g1/members/u1"))

	// With its last leaf gone, the members branch and the group vanish too.
	var members map[string]bool
	assert.ErrorIs(t, s.Get(ctx, "groups/g1/members", &members), ErrNotFound)
	var group map[string]interface{}
	assert.ErrorIs(t, s.Get(ctx, "groups/g1", &group), ErrNotFound)
}

func TestMemoryStore_SetNilDeletes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "rides/r1/driver", "u1"))
	require.NoError(t, s.Set(ctx, "rides/r1/driver", nil))

	var out string
	assert.ErrorIs(t, s.Get(ctx, "rides/r1/driver", &out), ErrNotFound)
}

func TestMemoryStore_LeafReplacedByBranch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "rides/r1", "scalar"))
	require.NoError(t, s.Set(ctx, "rides/r1/name", "Commute"))

	var name string
	require.NoError(t, s.Get(ctx, "rides/r1/name", &name))
	assert.Equal(t, "Commute", name)
}

func TestMemoryStore_PushKeysSortInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var keys []string
	for i := 0; i < 50; i++ {
		key, err := s.Push(ctx, "rides/r1/pickupPoints", map[string]interface{}{"i": i})
		require.NoError(t, err)
		keys = append(keys, key)
	}

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	assert.Equal(t, keys, sorted, "push keys must sort in the order they were generated")
}

func TestMemoryStore_WatchDeliversInitialSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "rides/r1/name", "Commute"))

	sub, err := s.Watch(ctx, "rides/r1")
	require.NoError(t, err)
	defer sub.Close()

	select {
	case ev := <-sub.Events():
		assert.True(t, ev.Exists)
		assert.Contains(t, string(ev.Value), "Commute")
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot delivered")
	}
}

func TestMemoryStore_WatchSeesOverlappingWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sub, err := s.Watch(ctx, "rides/r1")
	require.NoError(t, err)
	defer sub.Close()

	// Initial snapshot: path absent.
	select {
	case ev := <-sub.Events():
		assert.False(t, ev.Exists)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot delivered")
	}

	// A write below the watched path must wake the subscription.
	require.NoError(t, s.Set(ctx, "rides/r1/driver", "u9"))

	select {
	case ev := <-sub.Events():
		assert.True(t, ev.Exists)
		assert.Contains(t, string(ev.Value), "u9")
	case <-time.After(2 * time.Second):
		t.Fatal("no event after overlapping write")
	}
}

func TestMemoryStore_WatchCoalescesForSlowConsumers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sub, err := s.Watch(ctx, "counters")
	require.NoError(t, err)
	defer sub.Close()

	// Burst of writes without reading: the consumer may miss intermediate
	// states but the last event it drains must carry the final value.
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Set(ctx, "counters/n", i))
	}

	deadline := time.After(2 * time.Second)
	var last Event
	for {
		select {
		case ev := <-sub.Events():
			last = ev
			if ev.Exists && string(ev.Value) == `{"n":19}` {
				return
			}
		case <-deadline:
			t.Fatalf("final state never observed, last event: %s", last.Value)
		}
	}
}

func TestMemoryStore_WatchStopsOnClose(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	sub, err := s.Watch(ctx, "rides/r1")
	require.NoError(t, err)
	sub.Close()
	sub.Close() // closing twice must not panic

	// The events channel ends after Close.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after Close")
		}
	}
}

func TestMemoryStore_WatchRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemoryStore()

	sub, err := s.Watch(ctx, "rides/r1")
	require.NoError(t, err)
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after context cancel")
		}
	}
}
