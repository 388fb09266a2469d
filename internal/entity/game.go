package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	// WinnerTie marks a drawn game in the Winner field.
	WinnerTie = "-"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is the live-session snapshot stored for a connected player: the
// immutable core GameState plus bookkeeping the transports need. It is not
// a history record; a finished game is deleted, never archived.
type Game struct {
	ID         string    `json:"id"`
	State      GameState `json:"state"`
	Winner     string    `json:"winner,omitempty"`
	Status     string    `json:"status"`
	Difficulty string    `json:"difficulty,omitempty"`
	Players    []*Player `json:"players,omitempty"`
}

// NewGame - returns a waiting game with an empty board.
func NewGame(id string, startingMark Mark, difficulty string) *Game {
	return &Game{
		ID:         id,
		State:      NewGameState(startingMark),
		Status:     StatusWaiting,
		Difficulty: difficulty,
	}
}

// Turn returns the mark to move, or EmptyCell once the game is finished.
func (that *Game) Turn() Mark {
	if that.IsFinished() {
		return EmptyCell
	}
	return that.State.CurrentMark()
}

// MakeTurn - plays one validated move and refreshes the snapshot status.
func (that *Game) MakeTurn(playerMark Mark, cell int) error {
	next, err := that.State.Apply(Move{Mark: playerMark, Cell: cell})
	if err != nil {
		return err
	}

	that.State = next
	that.UpdateGameState()

	return nil
}

// UpdateGameState - refreshes Status and Winner from the derived state.
func (that *Game) UpdateGameState() {
	switch winner := that.State.Board.Winner(); {
	case winner != EmptyCell:
		that.Winner = string(winner)
		that.Status = StatusFinished
	case that.State.IsTie():
		that.Winner = WinnerTie
		that.Status = StatusFinished
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// BotPlayer returns the bot seat, if the game has one.
func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}
	return nil
}

// GetRandomMarks deals marks for a human/bot pair in random order.
func (that *Game) GetRandomMarks() (Mark, Mark) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return MarkX, MarkO
	}
	return MarkO, MarkX
}
