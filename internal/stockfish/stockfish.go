// Package stockfish adapts an external UCI engine process (Stockfish) to
// the engine.External interface. Only the client subset the host needs is
// spoken: handshake, position, fixed-depth go.
package stockfish

import (
	"os"
	"sync"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
	"go.uber.org/zap"

	"github.com/sbhatta/chessai/internal/engine"
)

// Engine wraps a running UCI engine process.
type Engine struct {
	mu     sync.Mutex
	eng    *uci.Engine
	path   string
	failed bool
	log    *zap.SugaredLogger
}

// CandidatePaths returns the engine binaries to probe, most specific
// first: the configured path, then $STOCKFISH_PATH, then the usual
// install locations, then whatever "stockfish" resolves to on PATH.
func CandidatePaths(configured string) []string {
	candidates := []string{
		configured,
		os.Getenv("STOCKFISH_PATH"),
		"/usr/bin/stockfish",
		"/usr/local/bin/stockfish",
		"stockfish",
	}
	paths := make([]string, 0, len(candidates))
	seen := make(map[string]bool)
	for _, p := range candidates {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths
}

// Probe tries each candidate path in turn and returns the first engine
// that completes the UCI handshake, or nil when none does. A nil return
// is not an error: the host falls back to the embedded searcher.
func Probe(configured string, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	for _, path := range CandidatePaths(configured) {
		eng, err := New(path, log)
		if err != nil {
			log.Debugw("engine probe failed", "path", path, "error", err)
			continue
		}
		log.Infow("external engine found", "path", path)
		return eng
	}
	return nil
}

// New starts the UCI engine process at path and performs the handshake.
func New(path string, log *zap.SugaredLogger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	eng, err := uci.New(path)
	if err != nil {
		return nil, err
	}
	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		eng.Close()
		return nil, err
	}
	return &Engine{eng: eng, path: path, log: log}, nil
}

// Path returns the binary path the engine was started from.
func (e *Engine) Path() string {
	return e.path
}

// Available reports whether the engine process is still usable. Once a
// command fails the adapter marks itself dead so the selector falls back
// on subsequent requests.
func (e *Engine) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eng != nil && !e.failed
}

// BestMove asks the engine for the best move at the given depth.
func (e *Engine) BestMove(pos *chess.Position, depth int) (*engine.SearchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.eng.Run(uci.CmdPosition{Position: pos}, uci.CmdGo{Depth: depth}); err != nil {
		e.failed = true
		e.log.Warnw("external engine command failed", "path", e.path, "error", err)
		return nil, err
	}

	results := e.eng.SearchResults()
	return &engine.SearchResult{
		Move:  results.BestMove,
		Score: results.Info.Score.CP,
		Nodes: uint64(results.Info.Nodes),
		Depth: depth,
	}, nil
}

// Close shuts down the engine process.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.eng != nil {
		e.eng.Close()
		e.eng = nil
	}
}
