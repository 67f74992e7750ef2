// Package game models one game session between the human and the AI on
// top of github.com/notnil/chess.
package game

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"github.com/sbhatta/chessai/internal/engine"
	"github.com/sbhatta/chessai/internal/storage"
)

// Session holds the live game plus the settings that shape it.
type Session struct {
	game       *chess.Game
	moves      []string // UCI history, in play order
	humanColor chess.Color
	difficulty engine.Difficulty
	aiEnabled  bool
}

// New starts a session from the standard starting position.
func New(humanColor chess.Color, difficulty engine.Difficulty, aiEnabled bool) *Session {
	return &Session{
		game:       chess.NewGame(),
		humanColor: humanColor,
		difficulty: difficulty,
		aiEnabled:  aiEnabled,
	}
}

// Restore rebuilds a session from a persisted snapshot.
func Restore(saved *storage.SavedGame) (*Session, error) {
	fenOpt, err := chess.FEN(saved.FEN)
	if err != nil {
		return nil, fmt.Errorf("game: saved position: %w", err)
	}
	difficulty, err := engine.ParseDifficulty(saved.Difficulty)
	if err != nil {
		return nil, err
	}
	color, err := ParseColor(saved.HumanColor)
	if err != nil {
		return nil, err
	}
	moves := make([]string, len(saved.Moves))
	copy(moves, saved.Moves)
	return &Session{
		game:       chess.NewGame(fenOpt),
		moves:      moves,
		humanColor: color,
		difficulty: difficulty,
		aiEnabled:  saved.AIEnabled,
	}, nil
}

// Snapshot captures the session for persistence.
func (s *Session) Snapshot() *storage.SavedGame {
	moves := make([]string, len(s.moves))
	copy(moves, s.moves)
	return &storage.SavedGame{
		FEN:        s.game.FEN(),
		Moves:      moves,
		HumanColor: ColorName(s.humanColor),
		Difficulty: s.difficulty.String(),
		AIEnabled:  s.aiEnabled,
	}
}

// Position returns the current position snapshot.
func (s *Session) Position() *chess.Position {
	return s.game.Position()
}

// MoveHistory returns the moves played so far in UCI notation.
func (s *Session) MoveHistory() []string {
	return s.moves
}

// HumanColor returns the side the human plays.
func (s *Session) HumanColor() chess.Color {
	return s.humanColor
}

// Difficulty returns the session difficulty.
func (s *Session) Difficulty() engine.Difficulty {
	return s.difficulty
}

// SetDifficulty changes the session difficulty.
func (s *Session) SetDifficulty(d engine.Difficulty) {
	s.difficulty = d
}

// AIEnabled reports whether the AI plays the other side.
func (s *Session) AIEnabled() bool {
	return s.aiEnabled
}

// SetAIEnabled toggles the AI opponent.
func (s *Session) SetAIEnabled(on bool) {
	s.aiEnabled = on
}

// AITurn reports whether the AI should move now.
func (s *Session) AITurn() bool {
	return s.aiEnabled && !s.GameOver() && s.game.Position().Turn() != s.humanColor
}

// GameOver reports whether the game has ended.
func (s *Session) GameOver() bool {
	return s.game.Outcome() != chess.NoOutcome
}

// ApplyUCI applies a human move given in UCI notation ("e2e4"). A bare
// from-to pair that is only legal as a promotion is completed to a queen
// promotion, matching the application's auto-queen policy.
func (s *Session) ApplyUCI(text string) (*chess.Move, error) {
	text = strings.TrimSpace(strings.ToLower(text))

	move, err := s.tryUCI(text)
	if err != nil && len(text) == 4 {
		if promoted, perr := s.tryUCI(text + "q"); perr == nil {
			return promoted, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("game: invalid move %q: %w", text, err)
	}
	return move, nil
}

func (s *Session) tryUCI(text string) (*chess.Move, error) {
	move, err := chess.UCINotation{}.Decode(s.game.Position(), text)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyMove(move); err != nil {
		return nil, err
	}
	return move, nil
}

// ApplyMove applies a legal move to the game and claims any draw that
// becomes available (threefold repetition, fifty-move rule), matching
// the original application's behavior.
func (s *Session) ApplyMove(move *chess.Move) error {
	if err := s.game.Move(move); err != nil {
		return err
	}
	s.moves = append(s.moves, move.String())
	s.claimDraws()
	return nil
}

func (s *Session) claimDraws() {
	for _, method := range s.game.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			_ = s.game.Draw(method)
			return
		}
	}
}

// OutcomeText describes how the game ended; empty while it is running.
func (s *Session) OutcomeText() string {
	outcome := s.game.Outcome()
	if outcome == chess.NoOutcome {
		return ""
	}
	switch s.game.Method() {
	case chess.Checkmate:
		winner := "White"
		if outcome == chess.BlackWon {
			winner = "Black"
		}
		return fmt.Sprintf("Checkmate — %s wins", winner)
	case chess.Stalemate:
		return "Stalemate — draw"
	case chess.InsufficientMaterial:
		return "Draw — insufficient material"
	case chess.ThreefoldRepetition, chess.FivefoldRepetition:
		return "Draw — threefold repetition"
	case chess.FiftyMoveRule, chess.SeventyFiveMoveRule:
		return "Draw — fifty-move rule"
	}
	return "Game over — " + outcome.String()
}

// Record summarizes a finished game for the statistics; ok is false
// while the game is still running or when no AI opponent was involved.
func (s *Session) Record() (storage.GameRecord, bool) {
	outcome := s.game.Outcome()
	if outcome == chess.NoOutcome || !s.aiEnabled {
		return storage.GameRecord{}, false
	}
	rec := storage.GameRecord{Difficulty: s.difficulty.String()}
	switch outcome {
	case chess.Draw:
		rec.Draw = true
	case chess.WhiteWon:
		rec.Won = s.humanColor == chess.White
	case chess.BlackWon:
		rec.Won = s.humanColor == chess.Black
	}
	return rec, true
}

// ColorName renders a color as "white" or "black".
func ColorName(c chess.Color) string {
	if c == chess.Black {
		return "black"
	}
	return "white"
}

// ParseColor parses "white" or "black", case-insensitively.
func ParseColor(s string) (chess.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w", "":
		return chess.White, nil
	case "black", "b":
		return chess.Black, nil
	}
	return chess.White, fmt.Errorf("game: unknown color %q", s)
}
