package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := Record{SubjectID: "v1", ResourceID: "m1"}
	require.NoError(t, store.Put(ctx, "cred-1", rec, time.Hour))

	got, err := store.Get(ctx, "cred-1")
	require.NoError(t, err)
	assert.False(t, got.Used)
	assert.Equal(t, "v1", got.SubjectID)
	assert.Equal(t, "m1", got.ResourceID)
}

func TestMemoryStore_PutDuplicateFails(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "cred-1", Record{}, time.Hour))
	err := store.Put(ctx, "cred-1", Record{}, time.Hour)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TTLEviction(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "cred-1", Record{}, 30*time.Minute))

	_, err := store.Get(ctx, "cred-1")
	require.NoError(t, err)

	now = now.Add(31 * time.Minute)
	_, err = store.Get(ctx, "cred-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// An evicted entry also reads as missing for the mark-used CAS.
	_, err = store.MarkUsedIfUnused(ctx, "cred-1", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MarkUsedIfUnused(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	usedAt := time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC)

	require.NoError(t, store.Put(ctx, "cred-1", Record{SubjectID: "v1"}, time.Hour))

	ok, err := store.MarkUsedIfUnused(ctx, "cred-1", usedAt)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.MarkUsedIfUnused(ctx, "cred-1", usedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "second consume must report already used")

	got, err := store.Get(ctx, "cred-1")
	require.NoError(t, err)
	assert.True(t, got.Used)
	require.NotNil(t, got.UsedAt)
	assert.Equal(t, usedAt, *got.UsedAt)
}

func TestMemoryStore_ConcurrentMarkUsed_ExactlyOneWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "cred-1", Record{}, time.Hour))

	const workers = 32
	var wg sync.WaitGroup
	results := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkUsedIfUnused(ctx, "cred-1", time.Now())
			if err != nil {
				t.Error(err)
				return
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent consumer may succeed")
}
