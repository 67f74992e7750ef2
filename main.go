// chessai - play chess against Stockfish, or against the embedded
// search when no Stockfish binary is found.
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/sbhatta/chessai/internal/cli"
	"github.com/sbhatta/chessai/internal/config"
	"github.com/sbhatta/chessai/internal/engine"
	"github.com/sbhatta/chessai/internal/game"
	"github.com/sbhatta/chessai/internal/stockfish"
	"github.com/sbhatta/chessai/internal/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatalw("failed to load configuration", "error", err)
	}

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		logger.Fatalw("failed to open storage", "error", err)
	}
	defer store.Close()

	difficulty, err := engine.ParseDifficulty(cfg.Difficulty)
	if err != nil {
		logger.Warnw("bad difficulty in config, using medium", "error", err)
	}
	humanColor, err := game.ParseColor(cfg.HumanColor)
	if err != nil {
		logger.Warnw("bad color in config, playing white", "error", err)
	}

	external := stockfish.Probe(cfg.StockfishPath, logger)
	opts := cli.Options{
		HumanColor: humanColor,
		Difficulty: difficulty,
		AIEnabled:  cfg.AIEnabled,
	}

	var ext engine.External
	if external != nil {
		defer external.Close()
		ext = external
		opts.External = external.Path()
	}

	eng := engine.NewEngine(ext, logger)
	front := cli.New(eng, store, logger, os.Stdin, os.Stdout, opts)
	if err := front.Run(); err != nil {
		logger.Fatalw("fatal error", "error", err)
	}
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Sugar()
}

func configPath() string {
	if path := os.Getenv("CHESSAI_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}
