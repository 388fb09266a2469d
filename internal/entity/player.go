package entity

import "strings"

const botIDPrefix = "bot:"

// Player holds information about a connected player session.
type Player struct {
	ID     string `json:"id"`
	Mark   Mark   `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

// NewBotPlayer - returns the bot seat for a game.
func NewBotPlayer(gameID string, mark Mark) *Player {
	return &Player{
		ID:     botIDPrefix + gameID,
		Mark:   mark,
		GameID: gameID,
	}
}

func (that *Player) IsBot() bool {
	return strings.HasPrefix(that.ID, botIDPrefix)
}
