package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akonno/HanoiSimulator/internal/hanoi"
	"github.com/akonno/HanoiSimulator/internal/playback"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	c := playback.New(3, hanoi.DefaultGeometry())

	require.NoError(t, st.Save(ctx, c))
	got, err := st.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Same(t, c, got)
	assert.Equal(t, 1, st.Len())

	require.NoError(t, st.Delete(ctx, c.ID))
	_, err = st.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(ctx, c.ID), ErrNotFound)
}

func TestMemoryStore_RejectsMissingID(t *testing.T) {
	st := NewMemoryStore()
	assert.Error(t, st.Save(context.Background(), &playback.Controller{}))
	assert.Error(t, st.Save(context.Background(), nil))
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := playback.New(2, hanoi.DefaultGeometry())
			_ = st.Save(ctx, c)
			_, _ = st.Get(ctx, c.ID)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, st.Len())
}
