// Package console implements the terminal front end collaborators: a text
// renderer for engine events and a move source reading cells from stdin.
package console

import (
	"fmt"
	"io"
	"sort"

	"github.com/rocketscienceinc/tictactoe-engine/internal/engine"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Renderer prints game transitions and the final outcome as text.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (that *Renderer) RenderTurn(_ entity.GameState, move entity.Move, next entity.GameState) {
	fmt.Fprintf(that.out, "\n%s -> cell %d\n%s", move.Mark, move.Cell, drawBoard(next.Board))
}

func (that *Renderer) RenderOutcome(final entity.GameState, outcome engine.Outcome) {
	if outcome.Draw {
		fmt.Fprintln(that.out, "\nIt's a draw.")
		return
	}

	if line, ok := final.Board.WinningLine(); ok {
		fmt.Fprintf(that.out, "\n%s wins on cells %d %d %d!\n", outcome.Winner, line[0], line[1], line[2])
		return
	}

	fmt.Fprintf(that.out, "\n%s wins!\n", outcome.Winner)
}

// ScoringRenderer additionally prints the engine's score for every legal
// move before each search-driven turn.
type ScoringRenderer struct {
	Renderer
}

func NewScoringRenderer(out io.Writer) *ScoringRenderer {
	return &ScoringRenderer{Renderer: Renderer{out: out}}
}

func (that *ScoringRenderer) RenderScores(_ entity.GameState, scores map[entity.Move]int) {
	moves := make([]entity.Move, 0, len(scores))
	for move := range scores {
		moves = append(moves, move)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].Cell < moves[j].Cell })

	fmt.Fprint(that.out, "\nengine scores:")
	for _, move := range moves {
		fmt.Fprintf(that.out, " %d:%+d", move.Cell, scores[move])
	}
	fmt.Fprintln(that.out)
}

// drawBoard renders the grid with cell numbers in the empty cells, so the
// player always sees what to type.
func drawBoard(board entity.Board) string {
	cell := func(i int) string {
		if board[i] == entity.EmptyCell {
			return fmt.Sprintf("%d", i)
		}
		return string(board[i])
	}

	var out string
	for row := 0; row < 3; row++ {
		i := row * 3
		out += fmt.Sprintf(" %s | %s | %s \n", cell(i), cell(i+1), cell(i+2))
		if row < 2 {
			out += "---+---+---\n"
		}
	}
	return out
}
