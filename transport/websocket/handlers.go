package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return err
	}

	var player *entity.Player
	if payloadReq.Player == nil || payloadReq.Player.ID == "" {
		player, err = that.players.CreatePlayer(ctx)
		if err != nil {
			log.Error("failed to create player", "error", err)
			return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new player")
		}
		log.Info("registered new player", "playerID", player.ID)
	} else {
		player, err = that.players.GetPlayerByID(ctx, payloadReq.Player.ID)
		if err != nil {
			log.Error("failed to get player", "playerID", payloadReq.Player.ID, "error", err)
			return that.sendErrorResponse(bufrw, msg.Action, "failed to get the player")
		}
		log.Info("player connected", "playerID", player.ID)
	}

	return that.sendMessage(*bufrw, msg.Action, Payload{Player: player})
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	difficulty := payloadReq.Difficulty
	if difficulty == "" {
		difficulty = that.defaultDifficulty
	}

	startingMark := that.startingMark
	if payloadReq.StartingMark != "" {
		startingMark, err = entity.ParseMark(payloadReq.StartingMark)
		if err != nil {
			log.Error("bad starting mark", "mark", payloadReq.StartingMark)
			return that.sendErrorResponse(bufrw, msg.Action, "starting mark must be X or O")
		}
	}

	game, err := that.gamePlay.GetOrCreateGame(ctx, payloadReq.Player.ID, startingMark, difficulty)
	if err != nil {
		log.Error("failed to get or create game", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to get or create game")
	}

	return that.sendMessage(*bufrw, msg.Action, Payload{
		Player: gameSeat(game, payloadReq.Player.ID),
		Game:   newGameResponse(game),
	})
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	if payloadReq.Cell == nil {
		log.Error("cell is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "cell is required")
	}

	game, err := that.gamePlay.MakeTurn(ctx, payloadReq.Player.ID, *payloadReq.Cell)
	if isRuleViolation(err) {
		// The move was rejected, not failed: report it back through the
		// same channel so the player can correct the input.
		log.Info("move rejected", "playerID", payloadReq.Player.ID, "cell", *payloadReq.Cell, "reason", err)

		payloadResp := Payload{Error: err.Error()}
		if game != nil {
			payloadResp.Game = newGameResponse(game)
		}
		return that.sendMessage(*bufrw, msg.Action, payloadResp)
	}
	if err != nil {
		log.Error("failed to make turn", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to make turn")
	}

	if game.IsFinished() {
		that.gamePlay.CleanupGame(ctx, game)
	}

	return that.sendMessage(*bufrw, msg.Action, Payload{
		Player: gameSeat(game, payloadReq.Player.ID),
		Game:   newGameResponse(game),
	})
}

func (that *Server) handleGameScores(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameScores")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	scores, err := that.gamePlay.ScoreMoves(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to score moves", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to score moves")
	}

	return that.sendMessage(*bufrw, msg.Action, Payload{Scores: newMoveScores(scores)})
}

// handleGameTree serializes the explored search tree for the current
// position, so the client can inspect what the engine considered.
func (that *Server) handleGameTree(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameTree")

	payloadReq, err := parsePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "player is required")
	}

	tree, err := that.gamePlay.ExploreSearchTree(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to explore search tree", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to explore search tree")
	}

	return that.sendMessage(*bufrw, msg.Action, Payload{Tree: tree})
}

func parsePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

// isRuleViolation tells a rejected move apart from an infrastructure
// failure; the former goes back to the player for correction.
func isRuleViolation(err error) bool {
	return errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrInvalidCell) ||
		errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, apperror.ErrGameIsNotStarted)
}

func gameSeat(game *entity.Game, playerID string) *entity.Player {
	for _, player := range game.Players {
		if player.ID == playerID {
			return player
		}
	}
	return nil
}
