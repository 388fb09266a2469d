package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/player"
)

var errNotFound = errors.New("not found")

type fakePlayerRepo struct {
	players map[string]*entity.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[string]*entity.Player)}
}

func (that *fakePlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	clone := *player
	that.players[player.ID] = &clone
	return nil
}

func (that *fakePlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	stored, ok := that.players[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *stored
	return &clone, nil
}

type fakeGameRepo struct {
	games map[string]*entity.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[string]*entity.Game)}
}

func (that *fakeGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	clone := *game
	that.games[game.ID] = &clone
	return nil
}

func (that *fakeGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	stored, ok := that.games[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *stored
	return &clone, nil
}

func (that *fakeGameRepo) DeleteByID(_ context.Context, id string) error {
	delete(that.games, id)
	return nil
}

type fixture struct {
	playerRepo *fakePlayerRepo
	gameRepo   *fakeGameRepo

	players  PlayerService
	games    GameService
	bot      BotService
	gamePlay GamePlayService
}

func newFixture() *fixture {
	playerRepo := newFakePlayerRepo()
	gameRepo := newFakeGameRepo()

	players := NewPlayerService(playerRepo)
	games := NewGameService(gameRepo)
	bot := NewBotService()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		players:    players,
		games:      games,
		bot:        bot,
		gamePlay:   NewGamePlayService(logger, players, games, bot),
	}
}

// seatedGame stores an ongoing human-vs-bot game with fixed marks, so the
// tests control whose turn it is.
func (that *fixture) seatedGame(t *testing.T, humanMark entity.Mark, startingMark entity.Mark) (*entity.Player, *entity.Game) {
	t.Helper()

	ctx := context.Background()

	human, err := that.players.CreatePlayer(ctx)
	require.NoError(t, err)

	game, err := that.games.CreateGame(ctx, human, startingMark, string(player.DifficultyHard))
	require.NoError(t, err)

	bot := entity.NewBotPlayer(game.ID, humanMark.Other())
	human.Mark = humanMark
	game.Players = append(game.Players, bot)
	game.Status = entity.StatusOngoing

	require.NoError(t, that.players.UpdatePlayer(ctx, human))
	require.NoError(t, that.players.UpdatePlayer(ctx, bot))
	require.NoError(t, that.games.UpdateGame(ctx, game))

	return human, game
}

func TestPlayerService(t *testing.T) {
	t.Run("Created player round-trips through storage", func(t *testing.T) {
		// Given: a fresh service
		f := newFixture()

		// When: creating and fetching a player
		created, err := f.players.CreatePlayer(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		fetched, err := f.players.GetPlayerByID(context.Background(), created.ID)

		// Then: the stored player comes back
		require.NoError(t, err)
		require.Equal(t, created.ID, fetched.ID)
	})

	t.Run("Unknown player is an error", func(t *testing.T) {
		f := newFixture()

		_, err := f.players.GetPlayerByID(context.Background(), "missing")
		require.ErrorIs(t, err, errNotFound)
	})
}

func TestGameService_CreateGame(t *testing.T) {
	// Given: a stored player
	f := newFixture()
	human, err := f.players.CreatePlayer(context.Background())
	require.NoError(t, err)

	// When: creating a game for them
	game, err := f.games.CreateGame(context.Background(), human, entity.MarkO, string(player.DifficultyEasy))

	// Then: the game waits with an empty board and the player bound to it
	require.NoError(t, err)
	require.NotEmpty(t, game.ID)
	require.True(t, game.IsWaiting())
	require.Equal(t, entity.MarkO, game.State.StartingMark)
	require.Equal(t, string(player.DifficultyEasy), game.Difficulty)
	require.Equal(t, game.ID, human.GameID)

	stored, err := f.games.GetGameByID(context.Background(), game.ID)
	require.NoError(t, err)
	require.Equal(t, game.ID, stored.ID)
}

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("Bot answers with a legal move", func(t *testing.T) {
		// Given: an ongoing game where the bot holds O and X already moved
		f := newFixture()
		_, game := f.seatedGame(t, entity.MarkX, entity.MarkX)
		require.NoError(t, game.MakeTurn(entity.MarkX, 4))

		// When: the bot takes its turn
		err := f.bot.MakeTurn(context.Background(), game)

		// Then: exactly one O appeared and the game moved on
		require.NoError(t, err)
		require.Equal(t, 1, game.State.Board.Count(entity.MarkO))
		require.Equal(t, entity.MarkX, game.Turn())
	})

	t.Run("Game without a bot seat is an error", func(t *testing.T) {
		f := newFixture()
		game := entity.NewGame("solo", entity.MarkX, "")

		err := f.bot.MakeTurn(context.Background(), game)
		require.ErrorIs(t, err, ErrBotNotFound)
	})

	t.Run("Unknown difficulty is an error", func(t *testing.T) {
		f := newFixture()
		_, game := f.seatedGame(t, entity.MarkO, entity.MarkX)
		game.Difficulty = "impossible"

		err := f.bot.MakeTurn(context.Background(), game)
		require.ErrorIs(t, err, player.ErrUnknownDifficulty)
	})
}

func TestGamePlayService_GetOrCreateGame(t *testing.T) {
	t.Run("New player gets a fresh bot game", func(t *testing.T) {
		// Given: a player without a game
		f := newFixture()
		human, err := f.players.CreatePlayer(context.Background())
		require.NoError(t, err)

		// When: asking for a game
		game, err := f.gamePlay.GetOrCreateGame(context.Background(), human.ID, entity.MarkX, string(player.DifficultyMedium))

		// Then: an ongoing human-vs-bot game exists with complementary marks
		require.NoError(t, err)
		require.True(t, game.IsOngoing())
		require.Len(t, game.Players, 2)
		require.Equal(t, string(player.DifficultyMedium), game.Difficulty)

		bot := game.BotPlayer()
		require.NotNil(t, bot)

		stored, err := f.players.GetPlayerByID(context.Background(), human.ID)
		require.NoError(t, err)
		require.Equal(t, game.ID, stored.GameID)
		require.Equal(t, bot.Mark.Other(), stored.Mark)

		// Then: the bot already opened when it drew the starting mark
		if bot.Mark == entity.MarkX {
			assert.Equal(t, 1, game.State.Board.Count(entity.MarkX))
		} else {
			assert.Equal(t, entity.Board{}, game.State.Board)
		}
	})

	t.Run("Player with a running game gets it back", func(t *testing.T) {
		// Given: a seated game
		f := newFixture()
		human, game := f.seatedGame(t, entity.MarkX, entity.MarkX)

		// When: asking again
		fetched, err := f.gamePlay.GetOrCreateGame(context.Background(), human.ID, entity.MarkO, "")

		// Then: the same game comes back, not a new one
		require.NoError(t, err)
		require.Equal(t, game.ID, fetched.ID)
	})

	t.Run("Unknown player is an error", func(t *testing.T) {
		f := newFixture()

		_, err := f.gamePlay.GetOrCreateGame(context.Background(), "missing", entity.MarkX, "")
		require.ErrorIs(t, err, errNotFound)
	})
}

func TestGamePlayService_MakeTurn(t *testing.T) {
	t.Run("Human moves and the bot answers", func(t *testing.T) {
		// Given: the human holds the starting mark
		f := newFixture()
		human, _ := f.seatedGame(t, entity.MarkX, entity.MarkX)

		// When: playing the center
		game, err := f.gamePlay.MakeTurn(context.Background(), human.ID, 4)

		// Then: both sides moved and the updated game was persisted
		require.NoError(t, err)
		require.Equal(t, entity.MarkX, game.State.Board[4])
		require.Equal(t, 1, game.State.Board.Count(entity.MarkO))
		require.True(t, game.IsOngoing())

		stored, getErr := f.games.GetGameByID(context.Background(), game.ID)
		require.NoError(t, getErr)
		require.Equal(t, game.State.Board, stored.State.Board)
	})

	t.Run("Winning move finishes the game without a bot reply", func(t *testing.T) {
		// Given: X completes the top row next move
		f := newFixture()
		human, game := f.seatedGame(t, entity.MarkX, entity.MarkX)
		require.NoError(t, game.MakeTurn(entity.MarkX, 0))
		require.NoError(t, game.MakeTurn(entity.MarkO, 3))
		require.NoError(t, game.MakeTurn(entity.MarkX, 1))
		require.NoError(t, game.MakeTurn(entity.MarkO, 4))
		require.NoError(t, f.games.UpdateGame(context.Background(), game))

		// When: playing the winning cell
		finished, err := f.gamePlay.MakeTurn(context.Background(), human.ID, 2)

		// Then: the game is finished with X as winner and no extra O mark
		require.NoError(t, err)
		require.True(t, finished.IsFinished())
		require.Equal(t, string(entity.MarkX), finished.Winner)
		require.Equal(t, 2, finished.State.Board.Count(entity.MarkO))
	})

	t.Run("Occupied cell is rejected and the game unchanged", func(t *testing.T) {
		// Given: the center is already taken
		f := newFixture()
		human, game := f.seatedGame(t, entity.MarkX, entity.MarkX)
		require.NoError(t, game.MakeTurn(entity.MarkX, 4))
		require.NoError(t, game.MakeTurn(entity.MarkO, 0))
		require.NoError(t, f.games.UpdateGame(context.Background(), game))

		// When: the human replays the center
		rejected, err := f.gamePlay.MakeTurn(context.Background(), human.ID, 4)

		// Then: the typed error and the untouched game both come back
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.NotNil(t, rejected)
		require.Equal(t, game.State.Board, rejected.State.Board)

		stored, getErr := f.games.GetGameByID(context.Background(), game.ID)
		require.NoError(t, getErr)
		require.Equal(t, game.State.Board, stored.State.Board)
	})

	t.Run("Finished game refuses further turns", func(t *testing.T) {
		// Given: a finished game
		f := newFixture()
		human, game := f.seatedGame(t, entity.MarkX, entity.MarkX)
		game.Status = entity.StatusFinished
		require.NoError(t, f.games.UpdateGame(context.Background(), game))

		// When: trying to move anyway
		_, err := f.gamePlay.MakeTurn(context.Background(), human.ID, 0)

		// Then: ErrGameFinished comes back
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Out of turn is rejected", func(t *testing.T) {
		// Given: the human holds O but X is to move
		f := newFixture()
		human, _ := f.seatedGame(t, entity.MarkO, entity.MarkX)

		// When: O tries to jump the queue
		_, err := f.gamePlay.MakeTurn(context.Background(), human.ID, 0)

		// Then: ErrNotYourTurn comes back
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})
}

func TestGamePlayService_ScoreMoves(t *testing.T) {
	t.Run("Scores every legal move of the current position", func(t *testing.T) {
		// Given: an ongoing game with one X on the board
		f := newFixture()
		human, game := f.seatedGame(t, entity.MarkX, entity.MarkX)
		require.NoError(t, game.MakeTurn(entity.MarkX, 4))
		require.NoError(t, f.games.UpdateGame(context.Background(), game))

		// When: asking for scores
		scores, err := f.gamePlay.ScoreMoves(context.Background(), human.ID)

		// Then: all eight replies are scored for O
		require.NoError(t, err)
		require.Len(t, scores, 8)
		for move := range scores {
			assert.Equal(t, entity.MarkO, move.Mark)
		}
	})

	t.Run("Waiting game can not be scored", func(t *testing.T) {
		f := newFixture()
		human, game := f.seatedGame(t, entity.MarkX, entity.MarkX)
		game.Status = entity.StatusWaiting
		require.NoError(t, f.games.UpdateGame(context.Background(), game))

		_, err := f.gamePlay.ScoreMoves(context.Background(), human.ID)
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})
}

func TestGamePlayService_ExploreSearchTree(t *testing.T) {
	// Given: an ongoing game with one X on the board
	f := newFixture()
	human, game := f.seatedGame(t, entity.MarkX, entity.MarkX)
	require.NoError(t, game.MakeTurn(entity.MarkX, 4))
	require.NoError(t, f.games.UpdateGame(context.Background(), game))

	// When: exploring the position
	tree, err := f.gamePlay.ExploreSearchTree(context.Background(), human.ID)

	// Then: the tree starts at the stored position and counted its work
	require.NoError(t, err)
	require.Equal(t, game.State, tree.Root.State)
	require.Positive(t, tree.Metrics.Nodes)
	require.Len(t, tree.Root.Children, 8)
}

func TestGamePlayService_CleanupGame(t *testing.T) {
	// Given: a finished seated game
	f := newFixture()
	human, game := f.seatedGame(t, entity.MarkX, entity.MarkX)
	game.Status = entity.StatusFinished

	// When: cleaning it up
	f.gamePlay.CleanupGame(context.Background(), game)

	// Then: the game is gone and the player is free for a new one
	_, err := f.games.GetGameByID(context.Background(), game.ID)
	require.ErrorIs(t, err, errNotFound)

	stored, err := f.players.GetPlayerByID(context.Background(), human.ID)
	require.NoError(t, err)
	require.Empty(t, stored.GameID)
	require.Equal(t, entity.EmptyCell, stored.Mark)
}
