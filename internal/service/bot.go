package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/player"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	MakeTurn(ctx context.Context, game *entity.Game) error
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn - plays the bot's reply: a minimax player weakened by the
// game's difficulty preset.
func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) error {
	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	probability, err := player.Difficulty(game.Difficulty).MistakeProbability()
	if err != nil {
		return fmt.Errorf("bad bot difficulty: %w", err)
	}

	bot := player.NewMinimax(botPlayer.Mark, probability)

	move, err := bot.ProposeMove(ctx, game.State)
	if err != nil {
		return fmt.Errorf("bot failed to choose a move: %w", err)
	}

	if err = game.MakeTurn(move.Mark, move.Cell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
