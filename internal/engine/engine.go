// Package engine drives one game of tic-tac-toe turn by turn: ask the
// player to move, validate, apply, tell the renderer. One turn completes
// fully before the next starts; the only suspension point is a human
// player waiting for input.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/player"
)

var ErrMarkMismatch = errors.New("player is bound to the wrong mark")

// Outcome classifies a finished game.
type Outcome struct {
	Winner entity.Mark `json:"winner,omitempty"`
	Draw   bool        `json:"draw,omitempty"`
}

// Renderer consumes engine events. It presents state transitions and the
// final outcome; it takes no part in game logic.
type Renderer interface {
	RenderTurn(prev entity.GameState, move entity.Move, next entity.GameState)
	RenderOutcome(final entity.GameState, outcome Outcome)
}

// ScoreRenderer is implemented by renderers that want the per-move score
// map before every search-driven turn, for live-scoring display.
type ScoreRenderer interface {
	RenderScores(state entity.GameState, scores map[entity.Move]int)
}

// Engine alternates two players over one game until a terminal state.
type Engine struct {
	logger   *slog.Logger
	renderer Renderer
	players  map[entity.Mark]player.Player
	state    entity.GameState
	done     bool
}

// New - seats two players and sets up the initial state. The X seat must
// hold a player bound to X, likewise for O; anything else is a
// configuration error surfaced before the game starts.
func New(logger *slog.Logger, renderer Renderer, playerX, playerO player.Player, startingMark entity.Mark) (*Engine, error) {
	if playerX.Mark() != entity.MarkX {
		return nil, fmt.Errorf("%w: X seat holds %q", ErrMarkMismatch, playerX.Mark())
	}
	if playerO.Mark() != entity.MarkO {
		return nil, fmt.Errorf("%w: O seat holds %q", ErrMarkMismatch, playerO.Mark())
	}

	return &Engine{
		logger:   logger,
		renderer: renderer,
		players: map[entity.Mark]player.Player{
			entity.MarkX: playerX,
			entity.MarkO: playerO,
		},
		state: entity.NewGameState(startingMark),
	}, nil
}

// Run plays the game to completion and returns the final state and
// outcome. Terminal states are absorbing: a second Run fails with
// apperror.ErrGameFinished.
func (that *Engine) Run(ctx context.Context) (entity.GameState, Outcome, error) {
	if that.done {
		return that.state, Outcome{}, apperror.ErrGameFinished
	}

	log := that.logger.With("component", "engine")

	for !that.state.IsOver() {
		mark := that.state.CurrentMark()
		current := that.players[mark]

		that.publishScores(log, current)

		move, err := current.ProposeMove(ctx, that.state)
		if err != nil {
			that.done = true
			return that.state, Outcome{}, fmt.Errorf("player %s failed to propose a move: %w", mark, err)
		}

		next, err := that.state.Apply(move)
		if err != nil {
			// Players validate before proposing, so reaching this branch
			// means a programmatic player is broken. Abort loudly.
			that.done = true
			return that.state, Outcome{}, fmt.Errorf("player %s proposed an illegal move to cell %d: %w", mark, move.Cell, err)
		}

		prev := that.state
		that.state = next
		that.renderer.RenderTurn(prev, move, next)
	}

	that.done = true

	outcome := outcomeOf(that.state)
	that.renderer.RenderOutcome(that.state, outcome)

	log.Info("game finished", "winner", outcome.Winner, "draw", outcome.Draw)

	return that.state, outcome, nil
}

// publishScores feeds the score map to the renderer before a search-driven
// turn, when the renderer asks for it.
func (that *Engine) publishScores(log *slog.Logger, current player.Player) {
	scorer, ok := that.renderer.(ScoreRenderer)
	if !ok {
		return
	}

	if _, searchDriven := current.(*player.Minimax); !searchDriven {
		return
	}

	scores, err := minimax.ScoreMoves(that.state)
	if err != nil {
		log.Error("failed to score moves", "error", err)
		return
	}

	scorer.RenderScores(that.state, scores)
}

func outcomeOf(state entity.GameState) Outcome {
	if winner := state.Board.Winner(); winner != entity.EmptyCell {
		return Outcome{Winner: winner}
	}
	return Outcome{Draw: true}
}
