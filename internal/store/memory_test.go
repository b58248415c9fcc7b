package store

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/souschef/internal/service"
	"github.com/platewise/souschef/internal/types"
)

func TestMemorySessionStoreCreateGet(t *testing.T) {
	s := NewMemorySessionStore()

	sess, err := s.Create(context.Background(), types.Preferences{Region: "Indian"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sess.ID, "session_"))
	assert.Len(t, sess.ID, len("session_")+8)
	assert.False(t, sess.CreatedAt.IsZero())

	got, err := s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Indian", got.Preferences.Region)
	assert.Equal(t, 1, s.Len())
}

func TestMemorySessionStoreGetReturnsCopy(t *testing.T) {
	s := NewMemorySessionStore()
	sess, err := s.Create(context.Background(), types.Preferences{Region: "Thai"})
	require.NoError(t, err)

	got, err := s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	got.RecipeName = "mutated"
	got.Steps = append(got.Steps, "rogue step")

	fresh, err := s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.RecipeName)
	assert.Empty(t, fresh.Steps)
}

func TestMemorySessionStoreUpdate(t *testing.T) {
	s := NewMemorySessionStore()
	sess, err := s.Create(context.Background(), types.Preferences{Region: "Thai"})
	require.NoError(t, err)

	updated, err := s.Update(context.Background(), sess.ID, func(cs *types.CookingSession) error {
		cs.RecipeName = "Pad Thai"
		cs.Steps = []string{"STEP 1: wok"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", updated.RecipeName)

	got, err := s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pad Thai", got.RecipeName)
}

func TestMemorySessionStoreUpdateErrorRollsBack(t *testing.T) {
	s := NewMemorySessionStore()
	sess, err := s.Create(context.Background(), types.Preferences{Region: "Thai"})
	require.NoError(t, err)

	_, err = s.Update(context.Background(), sess.ID, func(cs *types.CookingSession) error {
		cs.RecipeName = "should not persist"
		return service.ErrNoRecipeSelected
	})
	assert.ErrorIs(t, err, service.ErrNoRecipeSelected)

	got, err := s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.RecipeName)
}

func TestMemorySessionStoreUnknownID(t *testing.T) {
	s := NewMemorySessionStore()

	_, err := s.Get(context.Background(), "session_missing")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	_, err = s.Update(context.Background(), "session_missing", func(*types.CookingSession) error { return nil })
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	assert.ErrorIs(t, s.Delete(context.Background(), "session_missing"), service.ErrSessionNotFound)
}

func TestMemorySessionStoreDelete(t *testing.T) {
	s := NewMemorySessionStore()
	sess, err := s.Create(context.Background(), types.Preferences{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), sess.ID))
	assert.Equal(t, 0, s.Len())
	assert.ErrorIs(t, s.Delete(context.Background(), sess.ID), service.ErrSessionNotFound)
}

func TestMemorySessionStoreConcurrentUpdates(t *testing.T) {
	s := NewMemorySessionStore()
	sess, err := s.Create(context.Background(), types.Preferences{})
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(context.Background(), sess.ID, func(cs *types.CookingSession) error {
				cs.CurrentStepIndex++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	// Every increment lands exactly once.
	assert.Equal(t, workers, got.CurrentStepIndex)
}
