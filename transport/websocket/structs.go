package websocket

import (
	"encoding/json"
	"sort"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries both request fields (player, cell, game options) and
// response fields (game view, scores, tree, error). Cell is a pointer so
// that a move to cell 0 survives omitempty.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *GameResponse  `json:"game,omitempty"`

	Cell         *int   `json:"cell,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	StartingMark string `json:"starting_mark,omitempty"`

	Scores []MoveScore   `json:"scores,omitempty"`
	Tree   *minimax.Tree `json:"tree,omitempty"`

	Error string `json:"error,omitempty"`
}

// GameResponse is the client-facing view of a game snapshot.
type GameResponse struct {
	ID         string       `json:"id"`
	Board      entity.Board `json:"board"`
	Turn       entity.Mark  `json:"turn"`
	Winner     string       `json:"winner,omitempty"`
	Status     string       `json:"status"`
	Difficulty string       `json:"difficulty,omitempty"`
}

// MoveScore is one entry of the live-scoring display.
type MoveScore struct {
	Cell  int         `json:"cell"`
	Mark  entity.Mark `json:"mark"`
	Score int         `json:"score"`
}

func newGameResponse(game *entity.Game) *GameResponse {
	return &GameResponse{
		ID:         game.ID,
		Board:      game.State.Board,
		Turn:       game.Turn(),
		Winner:     game.Winner,
		Status:     game.Status,
		Difficulty: game.Difficulty,
	}
}

func newMoveScores(scores map[entity.Move]int) []MoveScore {
	entries := make([]MoveScore, 0, len(scores))
	for move, score := range scores {
		entries = append(entries, MoveScore{Cell: move.Cell, Mark: move.Mark, Score: score})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Cell < entries[j].Cell })

	return entries
}
