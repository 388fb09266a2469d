// Package player defines the move sources a game can seat: a human relayed
// through a front end, a uniformly random chooser, and the minimax engine.
// All three answer the same synchronous ProposeMove contract, so the
// orchestrator treats them identically.
package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
)

// Kind is a player-type token from the command surface.
type Kind string

const (
	KindHuman   Kind = "human"
	KindRandom  Kind = "random"
	KindMinimax Kind = "minimax"
)

// Difficulty presets map onto the mistake probability of a minimax player:
// the chance per turn of ignoring the search and playing a random legal
// move instead. 0 is unbeatable, 1 is pure random.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var (
	ErrUnknownPlayerKind = errors.New("unknown player kind")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrMissingMoveSource = errors.New("human player requires a move source")
)

// MistakeProbability - translates a preset into the single difficulty knob.
func (that Difficulty) MistakeProbability() (float64, error) {
	switch that {
	case DifficultyEasy:
		return 0.75, nil
	case DifficultyMedium:
		return 0.35, nil
	case DifficultyHard, "":
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, that)
	}
}

// Player proposes one move for its mark given the current state.
type Player interface {
	Mark() entity.Mark
	ProposeMove(ctx context.Context, state entity.GameState) (entity.Move, error)
}

// MoveSource supplies cell indices for a human player. Front ends implement
// it over terminal input or socket events; Rejected reports an illegal
// choice back through the same channel so the human can correct it.
type MoveSource interface {
	NextCell(ctx context.Context, state entity.GameState) (int, error)
	Rejected(cell int, err error)
}

// New builds a player from command-surface tokens. Unknown tokens fail
// here, before any game state exists.
func New(kind Kind, mark entity.Mark, difficulty Difficulty, source MoveSource) (Player, error) {
	switch kind {
	case KindHuman:
		if source == nil {
			return nil, ErrMissingMoveSource
		}
		return NewHuman(mark, source), nil
	case KindRandom:
		return NewRandom(mark), nil
	case KindMinimax:
		probability, err := difficulty.MistakeProbability()
		if err != nil {
			return nil, err
		}
		return NewMinimax(mark, probability), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayerKind, kind)
	}
}

// Human relays moves from an external source, re-prompting until the
// source supplies a legal one.
type Human struct {
	mark   entity.Mark
	source MoveSource
}

func NewHuman(mark entity.Mark, source MoveSource) *Human {
	return &Human{mark: mark, source: source}
}

func (that *Human) Mark() entity.Mark { return that.mark }

func (that *Human) ProposeMove(ctx context.Context, state entity.GameState) (entity.Move, error) {
	if err := checkTurn(that.mark, state); err != nil {
		return entity.Move{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return entity.Move{}, fmt.Errorf("awaiting human move: %w", err)
		}

		cell, err := that.source.NextCell(ctx, state)
		if err != nil {
			return entity.Move{}, fmt.Errorf("failed to read next cell: %w", err)
		}

		move := entity.Move{Mark: that.mark, Cell: cell}
		if err = state.Validate(move); err != nil {
			that.source.Rejected(cell, err)
			continue
		}

		return move, nil
	}
}

// Random samples uniformly from the legal moves.
type Random struct {
	mark entity.Mark
}

func NewRandom(mark entity.Mark) *Random {
	return &Random{mark: mark}
}

func (that *Random) Mark() entity.Mark { return that.mark }

func (that *Random) ProposeMove(_ context.Context, state entity.GameState) (entity.Move, error) {
	if err := checkTurn(that.mark, state); err != nil {
		return entity.Move{}, err
	}

	return randomMove(state)
}

// Minimax asks the search engine for the optimal move, optionally playing
// a random legal move instead with the configured mistake probability.
type Minimax struct {
	mark               entity.Mark
	mistakeProbability float64
}

func NewMinimax(mark entity.Mark, mistakeProbability float64) *Minimax {
	return &Minimax{mark: mark, mistakeProbability: mistakeProbability}
}

func (that *Minimax) Mark() entity.Mark { return that.mark }

func (that *Minimax) ProposeMove(_ context.Context, state entity.GameState) (entity.Move, error) {
	if err := checkTurn(that.mark, state); err != nil {
		return entity.Move{}, err
	}

	// Every opening draws under perfect play, so vary openings for free.
	if state.Board == (entity.Board{}) {
		return randomMove(state)
	}

	if that.mistakeProbability > 0 && rand.Float64() < that.mistakeProbability { //nolint: gosec // it's ok
		return randomMove(state)
	}

	move, _, err := minimax.BestMove(state)
	if err != nil {
		return entity.Move{}, fmt.Errorf("search failed: %w", err)
	}

	return move, nil
}

func checkTurn(mark entity.Mark, state entity.GameState) error {
	if state.IsOver() {
		return apperror.ErrGameFinished
	}
	if state.CurrentMark() != mark {
		return apperror.ErrNotYourTurn
	}
	return nil
}

func randomMove(state entity.GameState) (entity.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return entity.Move{}, ErrNoAvailableMoves
	}

	return moves[rand.Intn(len(moves))], nil //nolint: gosec // it's ok
}
