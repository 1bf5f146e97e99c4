package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/validate"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Create_ShouldAllocateUniqueSessionsAndLocations(t *testing.T) {
	// given
	store := NewMemoryStore("")
	ctx := context.Background()

	// when
	first, err1 := store.Create(ctx, "owner-a")
	second, err2 := store.Create(ctx, "owner-a")

	// then
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.ChunkPrefix, second.ChunkPrefix)
	assert.True(t, validate.IsValidIdentifier(first.ID))
	assert.Equal(t, "owner-a", first.OwnerID)
	assert.NotZero(t, first.CreatedAt)
}

func TestMemoryStore_Get_ShouldReturnNilForAbsentSession(t *testing.T) {
	// given
	store := NewMemoryStore("")

	// when
	sess, err := store.Get(context.Background(), "6e1f0a2b-9c3d-4e5f-8a7b-0c1d2e3f4a5b")

	// then
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStore_Remove_ShouldReportWhetherSessionExisted(t *testing.T) {
	// given
	store := NewMemoryStore("")
	ctx := context.Background()
	sess, _ := store.Create(ctx, "owner-a")

	// when
	removedFirst, err1 := store.Remove(ctx, sess.ID)
	removedSecond, err2 := store.Remove(ctx, sess.ID)

	// then
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.True(t, removedFirst)
	assert.False(t, removedSecond)

	got, err := store.Get(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_Claim_ShouldAllowOnlyOneClaimant(t *testing.T) {
	// given
	store := NewMemoryStore("")
	ctx := context.Background()
	sess, _ := store.Create(ctx, "owner-a")

	// when
	first, _ := store.Claim(ctx, sess.ID)
	second, _ := store.Claim(ctx, sess.ID)

	// then
	assert.True(t, first)
	assert.False(t, second)

	// and after release the session can be claimed again
	assert.NoError(t, store.Release(ctx, sess.ID))
	third, _ := store.Claim(ctx, sess.ID)
	assert.True(t, third)
}

func TestMemoryStore_Claim_ShouldFailForAbsentSession(t *testing.T) {
	store := NewMemoryStore("")

	claimed, err := store.Claim(context.Background(), "6e1f0a2b-9c3d-4e5f-8a7b-0c1d2e3f4a5b")

	assert.NoError(t, err)
	assert.False(t, claimed)
}

func TestMemoryStore_Claim_ShouldSerializeConcurrentFinalizeAttempts(t *testing.T) {
	// given
	store := NewMemoryStore("")
	ctx := context.Background()
	sess, _ := store.Create(ctx, "owner-a")

	// when: many goroutines race to claim the same session
	const attempts = 32
	var wg sync.WaitGroup
	results := make([]bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			claimed, _ := store.Claim(ctx, sess.ID)
			results[slot] = claimed
		}(i)
	}
	wg.Wait()

	// then: exactly one wins
	winners := 0
	for _, claimed := range results {
		if claimed {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestMemoryStore_Expired_ShouldReturnOnlySessionsPastCutoff(t *testing.T) {
	// given
	store := NewMemoryStore("")
	ctx := context.Background()

	stale, _ := store.Create(ctx, "owner-a")
	fresh, _ := store.Create(ctx, "owner-b")

	// backdate one session past the cutoff
	store.mu.Lock()
	store.sessions[stale.ID].session.CreatedAt = time.Now().Add(-48 * time.Hour).Unix()
	store.mu.Unlock()

	// when
	expired, err := store.Expired(ctx, time.Now().Add(-24*time.Hour))

	// then
	assert.NoError(t, err)
	assert.Len(t, expired, 1)
	assert.Equal(t, stale.ID, expired[0].ID)
	assert.NotEqual(t, fresh.ID, expired[0].ID)
}

func TestMemoryStore_Expired_ShouldSkipClaimedSessions(t *testing.T) {
	// given: a claimed session is mid-finalize and must not be reaped
	store := NewMemoryStore("")
	ctx := context.Background()

	sess, _ := store.Create(ctx, "owner-a")
	store.mu.Lock()
	store.sessions[sess.ID].session.CreatedAt = time.Now().Add(-48 * time.Hour).Unix()
	store.mu.Unlock()

	claimed, _ := store.Claim(ctx, sess.ID)
	assert.True(t, claimed)

	// when
	expired, err := store.Expired(ctx, time.Now().Add(-24*time.Hour))

	// then
	assert.NoError(t, err)
	assert.Empty(t, expired)
}
