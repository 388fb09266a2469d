package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Input reads cell indices from the terminal. It implements
// player.MoveSource: the prompt repeats until the input parses, and
// rejected moves come back through Rejected for another attempt.
type Input struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewInput(in io.Reader, out io.Writer) *Input {
	return &Input{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (that *Input) NextCell(ctx context.Context, state entity.GameState) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("awaiting input: %w", err)
		}

		fmt.Fprintf(that.out, "%s to move, pick a cell [0-8]: ", state.CurrentMark())

		if !that.scanner.Scan() {
			if err := that.scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read input: %w", err)
			}
			return 0, io.EOF
		}

		cell, err := strconv.Atoi(strings.TrimSpace(that.scanner.Text()))
		if err != nil {
			fmt.Fprintln(that.out, "please enter a number between 0 and 8")
			continue
		}

		return cell, nil
	}
}

func (that *Input) Rejected(cell int, err error) {
	fmt.Fprintf(that.out, "cell %d rejected: %v\n", cell, err)
}
