package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player with ID, mark and game binding
	player := &entity.Player{
		ID:     "abc",
		Mark:   entity.MarkX,
		GameID: "123",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned, and player is stored
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a stored player
		player := &entity.Player{
			ID:     "abc",
			Mark:   entity.MarkO,
			GameID: "123",
		}

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved player should match the saved player
		require.NoError(t, err)
		require.Equal(t, player.ID, retrievedPlayer.ID)
		require.Equal(t, player.Mark, retrievedPlayer.Mark)
		require.Equal(t, player.GameID, retrievedPlayer.GameID)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// When: GetByID is called with non-existent ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, "missing")

		// Then: an ErrPlayerNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrPlayerNotFound, err)
		assert.Empty(t, retrievedPlayer.ID)
	})
}
