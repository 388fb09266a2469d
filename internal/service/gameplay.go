package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
)

type GamePlayService interface {
	GetOrCreateGame(ctx context.Context, playerID string, startingMark entity.Mark, difficulty string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)

	ScoreMoves(ctx context.Context, playerID string) (map[entity.Move]int, error)
	ExploreSearchTree(ctx context.Context, playerID string) (*minimax.Tree, error)

	CleanupGame(ctx context.Context, game *entity.Game)
}

type gamePlayService struct {
	logger *slog.Logger

	playerService PlayerService
	gameService   GameService
	botService    BotService
}

func NewGamePlayService(logger *slog.Logger, playerService PlayerService, gameService GameService, botService BotService) GamePlayService {
	return &gamePlayService{
		logger:        logger,
		playerService: playerService,
		gameService:   gameService,
		botService:    botService,
	}
}

// MakeTurn - plays the human's move and, while the game is still on, the
// bot's reply. A rejected move surfaces as a typed error with the game
// unchanged so the front end can re-prompt.
func (that *gamePlayService) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	if err = game.MakeTurn(player.Mark, cell); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsOngoing() {
		if err = that.botService.MakeTurn(ctx, game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// ScoreMoves returns the search engine's score for every legal move of the
// player's current game, for live-scoring display.
func (that *gamePlayService) ScoreMoves(ctx context.Context, playerID string) (map[entity.Move]int, error) {
	game, err := that.gameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	scores, err := minimax.ScoreMoves(game.State)
	if err != nil {
		return nil, fmt.Errorf("failed to score moves: %w", err)
	}

	return scores, nil
}

// ExploreSearchTree re-runs the search over the current position with
// recording on, so the front end can serialize the explored tree.
func (that *gamePlayService) ExploreSearchTree(ctx context.Context, playerID string) (*minimax.Tree, error) {
	game, err := that.gameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	tree, err := minimax.Explore(game.State)
	if err != nil {
		return nil, fmt.Errorf("failed to explore search tree: %w", err)
	}

	return tree, nil
}

func (that *gamePlayService) GetOrCreateGame(ctx context.Context, playerID string, startingMark entity.Mark, difficulty string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		game, err := that.createBotGame(ctx, player, startingMark, difficulty)
		if err != nil {
			return nil, fmt.Errorf("failed to create new game: %w", err)
		}

		return game, nil
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) createBotGame(ctx context.Context, player *entity.Player, startingMark entity.Mark, difficulty string) (*entity.Game, error) {
	game, err := that.gameService.CreateGame(ctx, player, startingMark, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	botPlayer := entity.NewBotPlayer(game.ID, entity.EmptyCell)

	playerMark, botMark := game.GetRandomMarks()
	player.Mark = playerMark
	botPlayer.Mark = botMark

	game.Players = append(game.Players, botPlayer)
	game.Status = entity.StatusOngoing

	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err = that.playerService.UpdatePlayer(ctx, botPlayer); err != nil {
		return nil, fmt.Errorf("failed to update bot player: %w", err)
	}

	if game.Turn() == botMark {
		if err = that.botService.MakeTurn(ctx, game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game with bot: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) CleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "CleanupGame", "gameID", game.ID)

	if err := that.gameService.DeleteGame(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		player.GameID = ""
		player.Mark = entity.EmptyCell
		if err := that.playerService.UpdatePlayer(ctx, player); err != nil {
			log.Error("failed to update player", "player", player.ID, "error", err)
		}
	}
}

func (that *gamePlayService) gameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}
