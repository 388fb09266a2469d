package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

func TestParseMark(t *testing.T) {
	t.Run("Accepts both marks in any case", func(t *testing.T) {
		for token, want := range map[string]Mark{"X": MarkX, "x": MarkX, "O": MarkO, "o": MarkO} {
			mark, err := ParseMark(token)
			require.NoError(t, err)
			assert.Equal(t, want, mark)
		}
	})

	t.Run("Rejects anything else", func(t *testing.T) {
		_, err := ParseMark("Z")
		require.ErrorIs(t, err, apperror.ErrInvalidMark)

		_, err = ParseMark("")
		require.ErrorIs(t, err, apperror.ErrInvalidMark)
	})
}

func TestMark_Other(t *testing.T) {
	require.Equal(t, MarkO, MarkX.Other())
	require.Equal(t, MarkX, MarkO.Other())
}

func TestNewGame(t *testing.T) {
	// When: creating a game
	game := NewGame("123", MarkO, "easy")

	// Then: it waits with an empty board and O to move first
	require.True(t, game.IsWaiting())
	require.Equal(t, Board{}, game.State.Board)
	require.Equal(t, MarkO, game.Turn())
	require.Equal(t, "easy", game.Difficulty)
}

func TestGame_MakeTurn(t *testing.T) {
	t.Run("Moves refresh the snapshot status", func(t *testing.T) {
		// Given: a fresh ongoing game
		game := NewGame("123", MarkX, "hard")
		game.Status = StatusOngoing

		// When: X and O trade moves
		require.NoError(t, game.MakeTurn(MarkX, 4))
		require.NoError(t, game.MakeTurn(MarkO, 0))

		// Then: the game stays ongoing with the turn back at X
		require.True(t, game.IsOngoing())
		require.Equal(t, MarkX, game.Turn())
		require.Empty(t, game.Winner)
	})

	t.Run("Winning move finishes the game", func(t *testing.T) {
		// Given: X holds two cells of the top row
		game := NewGame("123", MarkX, "hard")
		game.Status = StatusOngoing
		require.NoError(t, game.MakeTurn(MarkX, 0))
		require.NoError(t, game.MakeTurn(MarkO, 3))
		require.NoError(t, game.MakeTurn(MarkX, 1))
		require.NoError(t, game.MakeTurn(MarkO, 4))

		// When: X completes the row
		require.NoError(t, game.MakeTurn(MarkX, 2))

		// Then: the snapshot is finished with X as winner and no turn left
		require.True(t, game.IsFinished())
		require.Equal(t, string(MarkX), game.Winner)
		require.Equal(t, EmptyCell, game.Turn())
	})

	t.Run("Filling the board without a winner is a tie", func(t *testing.T) {
		// Given: a scripted draw line
		game := NewGame("123", MarkX, "hard")
		game.Status = StatusOngoing

		for _, turn := range []struct {
			mark Mark
			cell int
		}{
			{MarkX, 0}, {MarkO, 4}, {MarkX, 2}, {MarkO, 1}, {MarkX, 5},
			{MarkO, 6}, {MarkX, 3}, {MarkO, 8}, {MarkX, 7},
		} {
			require.NoError(t, game.MakeTurn(turn.mark, turn.cell))
		}

		// Then: the winner field records the tie
		require.True(t, game.IsFinished())
		require.Equal(t, WinnerTie, game.Winner)
	})

	t.Run("Rejected move leaves the snapshot alone", func(t *testing.T) {
		// Given: an ongoing game with the center taken
		game := NewGame("123", MarkX, "hard")
		game.Status = StatusOngoing
		require.NoError(t, game.MakeTurn(MarkX, 4))

		// When: O replays the center
		err := game.MakeTurn(MarkO, 4)

		// Then: the typed error surfaces and the status is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.True(t, game.IsOngoing())
		require.Equal(t, 1, game.State.Board.Count(MarkX))
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	game := NewGame("123", MarkX, "hard")

	require.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameIsNotStarted)

	game.Status = StatusOngoing
	require.NoError(t, game.ConfirmOngoingState())

	game.Status = StatusFinished
	require.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameFinished)

	game.Status = "haunted"
	require.ErrorIs(t, game.ConfirmOngoingState(), ErrUnknownGameStatus)
}

func TestGame_BotPlayer(t *testing.T) {
	// Given: a game seating a human and a bot
	game := NewGame("123", MarkX, "hard")
	human := &Player{ID: "abc", Mark: MarkX, GameID: game.ID}
	bot := NewBotPlayer(game.ID, MarkO)
	game.Players = []*Player{human, bot}

	// Then: only the bot seat is reported
	require.Equal(t, bot, game.BotPlayer())
	require.True(t, bot.IsBot())
	require.False(t, human.IsBot())
}

func TestGame_GetRandomMarks(t *testing.T) {
	game := NewGame("123", MarkX, "hard")

	// Then: the dealt marks are always complementary
	for i := 0; i < 20; i++ {
		playerMark, botMark := game.GetRandomMarks()
		require.Equal(t, playerMark.Other(), botMark)
	}
}
