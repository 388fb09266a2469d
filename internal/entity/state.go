package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// WinCombos lists the 8 winning lines: 3 rows, 3 columns, 2 diagonals.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid in row-major order. It is an array, not a slice,
// so assignment copies the whole grid and no two states share cells.
type Board [9]Mark

// Count returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}
	return count
}

// IsFull reports whether no empty cell remains.
func (that Board) IsFull() bool {
	return that.Count(EmptyCell) == 0
}

// Winner returns the mark holding three-in-a-row, or EmptyCell if none.
func (that Board) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}
	return EmptyCell
}

// WinningLine returns the cell indices of the winning combo, if any.
func (that Board) WinningLine() ([3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return combo, true
		}
	}
	return [3]int{}, false
}

// Move places a mark into a cell (0-8).
type Move struct {
	Mark Mark `json:"mark"`
	Cell int  `json:"cell"`
}

// GameState pairs a board with the mark that moved first. Whose turn it is
// and whether the game is over are derived from cell counts, never stored,
// so the two can not drift apart. GameState is a value type: Apply returns
// a new state and never touches the receiver.
type GameState struct {
	Board        Board `json:"board"`
	StartingMark Mark  `json:"starting_mark"`
}

// NewGameState - returns the initial state: empty board, given mark to move.
func NewGameState(startingMark Mark) GameState {
	return GameState{StartingMark: startingMark}
}

// CurrentMark returns the mark to move. The starting mark moves on even
// plies, so it is to move whenever both counts are equal.
func (that GameState) CurrentMark() Mark {
	if that.Board.Count(that.StartingMark) == that.Board.Count(that.StartingMark.Other()) {
		return that.StartingMark
	}
	return that.StartingMark.Other()
}

// IsTie reports a full board with no winner.
func (that GameState) IsTie() bool {
	return that.Board.Winner() == EmptyCell && that.Board.IsFull()
}

// IsOver reports whether the game reached a terminal state.
func (that GameState) IsOver() bool {
	return that.Board.Winner() != EmptyCell || that.Board.IsFull()
}

// LegalMoves returns every empty cell paired with the mark to move,
// or nil when the state is terminal.
func (that GameState) LegalMoves() []Move {
	if that.IsOver() {
		return nil
	}

	mark := that.CurrentMark()

	moves := make([]Move, 0, that.Board.Count(EmptyCell))
	for cell, occupant := range that.Board {
		if occupant == EmptyCell {
			moves = append(moves, Move{Mark: mark, Cell: cell})
		}
	}
	return moves
}

// Validate - checks a move against the rules without applying it.
// Both human and programmatic players funnel through this check, so the
// engine can never reach an impossible board.
func (that GameState) Validate(move Move) error {
	if that.IsOver() {
		return apperror.ErrGameFinished
	}

	if move.Cell < 0 || move.Cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, move.Cell)
	}

	if move.Mark != that.CurrentMark() {
		return apperror.ErrNotYourTurn
	}

	if that.Board[move.Cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// Apply - returns the state reached by playing the move. The receiver is
// left untouched; an invalid move returns the zero state and an error.
func (that GameState) Apply(move Move) (GameState, error) {
	if err := that.Validate(move); err != nil {
		return GameState{}, fmt.Errorf("invalid turn: %w", err)
	}

	next := that
	next.Board[move.Cell] = move.Mark

	return next, nil
}
