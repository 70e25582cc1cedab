package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rz1986/gameportal/internal/bootstrap"
	"github.com/rz1986/gameportal/internal/dependencies/mocks"
	"github.com/rz1986/gameportal/internal/storage"
	"github.com/rz1986/gameportal/internal/storage/memory"
	"github.com/rz1986/gameportal/internal/testutil"
)

func TestSeedCreatesAdminAndPlayableGames(t *testing.T) {
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, bootstrap.Seed(ctx, store, clk, testutil.NopLogger()))

	admin, err := store.GetUserByUsername(ctx, bootstrap.AdminUsername)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	listings, err := store.ListGames(ctx, storage.SortByTitle)
	require.NoError(t, err)
	require.Len(t, listings, 3)
	for _, listing := range listings {
		game, err := store.GetGame(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, game.UploaderID)
		// Every seeded bundle carries its own driver script so the game
		// is playable as shipped, not just a static panel.
		assert.Contains(t, game.PlayMarkup, "<script>", game.Slug)
		assert.Contains(t, game.PlayMarkup, "addEventListener", game.Slug)
	}
}

func TestSeedIdempotent(t *testing.T) {
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, bootstrap.Seed(ctx, store, clk, testutil.NopLogger()))
	require.NoError(t, bootstrap.Seed(ctx, store, clk, testutil.NopLogger()))

	listings, err := store.ListGames(ctx, storage.SortByTitle)
	require.NoError(t, err)
	assert.Len(t, listings, 3)
}
