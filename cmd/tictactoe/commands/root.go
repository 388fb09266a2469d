package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-engine/internal/console"
	"github.com/rocketscienceinc/tictactoe-engine/internal/engine"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/player"
)

var (
	playerXKind  string
	playerOKind  string
	startingMark string
	difficulty   string
	showScores   bool
)

func Execute() error {
	root := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Play tic-tac-toe in the terminal against a perfect-play engine",
		RunE:         run,
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&playerXKind, "player-x", "X", "human", "player type for X (human|random|minimax)")
	root.Flags().StringVarP(&playerOKind, "player-o", "O", "minimax", "player type for O (human|random|minimax)")
	root.Flags().StringVar(&startingMark, "starting", "X", "which mark moves first (X or O)")
	root.Flags().StringVar(&difficulty, "difficulty", "hard", "minimax difficulty (easy|medium|hard)")
	root.Flags().BoolVar(&showScores, "show-scores", false, "print the engine's score for every legal move")

	return root.Execute()
}

func run(cmd *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	mark, err := entity.ParseMark(startingMark)
	if err != nil {
		return fmt.Errorf("bad --starting: %w", err)
	}

	input := console.NewInput(cmd.InOrStdin(), cmd.OutOrStdout())

	playerX, err := player.New(player.Kind(playerXKind), entity.MarkX, player.Difficulty(difficulty), input)
	if err != nil {
		return fmt.Errorf("bad --player-x: %w", err)
	}

	playerO, err := player.New(player.Kind(playerOKind), entity.MarkO, player.Difficulty(difficulty), input)
	if err != nil {
		return fmt.Errorf("bad --player-o: %w", err)
	}

	var renderer engine.Renderer = console.NewRenderer(cmd.OutOrStdout())
	if showScores {
		renderer = console.NewScoringRenderer(cmd.OutOrStdout())
	}

	game, err := engine.New(logger, renderer, playerX, playerO, mark)
	if err != nil {
		return fmt.Errorf("failed to set up game: %w", err)
	}

	if _, _, err = game.Run(cmd.Context()); err != nil {
		return fmt.Errorf("game aborted: %w", err)
	}

	return nil
}
