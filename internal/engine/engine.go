// Package engine implements the move-search core: a material evaluator,
// a depth-limited negamax searcher, a non-blocking cancellable search
// driver and the selector that prefers an external engine when one is
// available. Board state and move legality are delegated to
// github.com/notnil/chess.
package engine

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
	"go.uber.org/zap"
)

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Depth maps a difficulty to the search depth in plies.
func (d Difficulty) Depth() int {
	switch d {
	case Easy:
		return 1
	case Hard:
		return 3
	default:
		return 2
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

// ParseDifficulty parses a difficulty name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("engine: unknown difficulty %q", s)
}

// Engine is the host-facing facade: selector, driver and the current
// difficulty in one place. Dependencies are passed in, never looked up
// from ambient state.
type Engine struct {
	selector   *Selector
	difficulty Difficulty
}

// NewEngine creates an engine. external may be nil when no external
// engine process was found.
func NewEngine(external External, log *zap.SugaredLogger) *Engine {
	driver := NewDriver(log)
	return &Engine{
		selector:   NewSelector(external, driver, log),
		difficulty: Medium,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// RequestBestMove starts a best-move search for the position at the
// current difficulty's depth and returns the handle immediately.
func (e *Engine) RequestBestMove(pos *chess.Position) *Request {
	return e.selector.RequestBestMove(pos, e.difficulty.Depth())
}

// RequestBestMoveAt is RequestBestMove with an explicit depth.
func (e *Engine) RequestBestMoveAt(pos *chess.Position, depth int) *Request {
	return e.selector.RequestBestMove(pos, depth)
}

// Cancel abandons the in-flight search, if any.
func (e *Engine) Cancel() {
	e.selector.Cancel()
}

// ScoreToString renders a score as mate distance or pawns.
func ScoreToString(score int) string {
	if IsMateScore(score) {
		if score > 0 {
			return fmt.Sprintf("mate in %d", (MateScore-score+1)/2)
		}
		return fmt.Sprintf("mated in %d", (MateScore+score+1)/2)
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}
