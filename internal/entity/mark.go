package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Mark is a player symbol occupying a cell. The empty string marks a free cell.
type Mark string

const (
	MarkX     Mark = "X"
	MarkO     Mark = "O"
	EmptyCell Mark = ""
)

// Other returns the opposing mark, enabling turn alternation without
// spreading conditionals around.
func (that Mark) Other() Mark {
	if that == MarkX {
		return MarkO
	}
	return MarkX
}

// ParseMark - converts a user supplied token into a Mark.
func ParseMark(token string) (Mark, error) {
	switch Mark(strings.ToUpper(token)) {
	case MarkX:
		return MarkX, nil
	case MarkO:
		return MarkO, nil
	default:
		return EmptyCell, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, token)
	}
}
