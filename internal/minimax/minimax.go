// Package minimax picks game-theoretically optimal tic-tac-toe moves with
// depth-first alpha-beta search. Everything here is a pure function of the
// state it is handed, so independent games may search concurrently.
package minimax

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// winBase is the terminal utility of a win before the depth bonus is added.
// Wins score winBase plus the number of cells still empty, so a forced win
// in fewer plies always outranks a slower one, and a loss that can be
// delayed outranks one that can not.
const winBase = 10

// BestMove returns the optimal move for the mark to move and its score.
// Fails with apperror.ErrGameFinished when the state is terminal.
func BestMove(state entity.GameState) (entity.Move, int, error) {
	if state.IsOver() {
		return entity.Move{}, 0, apperror.ErrGameFinished
	}

	that := &searcher{maximizer: state.CurrentMark()}

	bestScore := math.MinInt
	var bestMove entity.Move

	alpha, beta := math.MinInt, math.MaxInt
	for _, move := range orderedMoves(state) {
		score := that.search(play(state, move), false, alpha, beta, nil)
		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
		}
	}

	return bestMove, bestScore, nil
}

// ScoreMoves returns the exact minimax score of every legal move, keyed by
// move, for live-scoring display. Each candidate is searched with a full
// window so sibling cutoffs can not blur individual scores.
func ScoreMoves(state entity.GameState) (map[entity.Move]int, error) {
	if state.IsOver() {
		return nil, apperror.ErrGameFinished
	}

	that := &searcher{maximizer: state.CurrentMark()}

	scores := make(map[entity.Move]int, len(state.LegalMoves()))
	for _, move := range state.LegalMoves() {
		scores[move] = that.search(play(state, move), false, math.MinInt, math.MaxInt, nil)
	}

	return scores, nil
}

type searcher struct {
	maximizer entity.Mark
	metrics   Metrics
	record    bool
}

// search walks the remaining game tree, at most 9 plies deep. When
// recording is on, every visited position hangs a child node off parent.
func (that *searcher) search(state entity.GameState, maximizing bool, alpha, beta int, parent *Node) int {
	that.metrics.Nodes++

	if state.IsOver() {
		return that.terminalScore(state)
	}

	best := math.MinInt
	if !maximizing {
		best = math.MaxInt
	}

	moves := orderedMoves(state)
	for i, move := range moves {
		child := that.attach(parent, state, move)

		score := that.search(play(state, move), !maximizing, alpha, beta, child)
		if child != nil {
			child.Score = score
		}

		if maximizing {
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
			}
			if best < beta {
				beta = best
			}
		}

		if beta <= alpha {
			that.metrics.Cutoffs++
			that.markPruned(parent, state, moves[i+1:])
			break
		}
	}

	return best
}

// terminalScore evaluates a finished position from the root mover's
// perspective, biased by remaining depth.
func (that *searcher) terminalScore(state entity.GameState) int {
	winner := state.Board.Winner()
	if winner == entity.EmptyCell {
		return 0
	}

	score := winBase + state.Board.Count(entity.EmptyCell)
	if winner != that.maximizer {
		return -score
	}
	return score
}

// orderedMoves returns the legal moves center first, then corners, then
// edges. Strong moves searched early tighten the window sooner.
func orderedMoves(state entity.GameState) []entity.Move {
	moves := state.LegalMoves()

	rank := func(cell int) int {
		switch cell {
		case 4:
			return 0
		case 0, 2, 6, 8:
			return 1
		default:
			return 2
		}
	}

	for i := 1; i < len(moves); i++ {
		for j := i; j > 0 && rank(moves[j].Cell) < rank(moves[j-1].Cell); j-- {
			moves[j], moves[j-1] = moves[j-1], moves[j]
		}
	}

	return moves
}

// play advances the state by a move taken from LegalMoves. The move is
// already known to be legal, so the validator round-trip is skipped.
func play(state entity.GameState, move entity.Move) entity.GameState {
	state.Board[move.Cell] = move.Mark
	return state
}
