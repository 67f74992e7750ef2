package engine

import (
	"sync/atomic"

	"github.com/notnil/chess"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
	DrawScore = 0
)

// SearchResult is what a completed search reports back to the host.
// Move is nil when the side to move has no legal move; the score then
// distinguishes checkmate (mate-against) from stalemate (draw).
type SearchResult struct {
	Move  *chess.Move
	Score int
	Nodes uint64
	Depth int
}

// Searcher walks the game tree with fixed-depth negamax over immutable
// position snapshots. The baseline is full-width (no pruning); alpha-beta
// can be enabled as a strict optimization and returns the identical move
// and score under the same first-in-generation-order tie-break.
type Searcher struct {
	nodes    uint64
	pruning  bool
	stopFlag atomic.Bool
}

// NewSearcher returns a searcher with alpha-beta pruning enabled.
func NewSearcher() *Searcher {
	return &Searcher{pruning: true}
}

// SetPruning toggles alpha-beta pruning. The unpruned walk is kept for
// correctness testing against the pruned one.
func (s *Searcher) SetPruning(on bool) {
	s.pruning = on
}

// Stop signals the search to abandon work. Observed at the top of the
// root-move loop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Nodes returns the number of positions visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search returns the best move for the side to move at the given depth.
// Depth is clamped to >= 1. The returned move is always a member of the
// position's legal move set; among equal scores the move generated first
// wins. Promotions are resolved to Queen.
func (s *Searcher) Search(pos *chess.Position, depth int) (*SearchResult, error) {
	if err := validate(pos); err != nil {
		return nil, err
	}
	if depth < 1 {
		depth = 1
	}
	s.nodes = 1

	moves := legalMoves(pos)
	if len(moves) == 0 {
		return &SearchResult{Score: s.terminalScore(pos, 0), Nodes: s.nodes, Depth: depth}, nil
	}

	var bestMove *chess.Move
	bestScore := -Infinity
	for _, move := range moves {
		if s.stopFlag.Load() {
			return nil, ErrCancelled
		}
		child := pos.Update(move)
		var score int
		if s.pruning {
			score = -s.alphaBeta(child, depth-1, 1, -Infinity, -bestScore)
		} else {
			score = -s.negamax(child, depth-1, 1)
		}
		// Strictly > so the first move in generation order wins ties.
		if score > bestScore {
			bestScore, bestMove = score, move
		}
	}

	return &SearchResult{Move: bestMove, Score: bestScore, Nodes: s.nodes, Depth: depth}, nil
}

// negamax is the full-width baseline: every legal move at every node,
// child scores negated back to the mover's perspective.
func (s *Searcher) negamax(pos *chess.Position, depth, ply int) int {
	s.nodes++
	if depth == 0 {
		return Evaluate(pos)
	}

	moves := legalMoves(pos)
	if len(moves) == 0 {
		return s.terminalScore(pos, ply)
	}

	best := -Infinity
	for _, move := range moves {
		score := -s.negamax(pos.Update(move), depth-1, ply+1)
		if score > best {
			best = score
		}
	}
	return best
}

// alphaBeta is the pruned variant. Fail-soft; with the strict > root
// comparison it yields the same best move and score as negamax.
func (s *Searcher) alphaBeta(pos *chess.Position, depth, ply, alpha, beta int) int {
	s.nodes++
	if depth == 0 {
		return Evaluate(pos)
	}

	moves := legalMoves(pos)
	if len(moves) == 0 {
		return s.terminalScore(pos, ply)
	}

	best := -Infinity
	for _, move := range moves {
		score := -s.alphaBeta(pos.Update(move), depth-1, ply+1, -beta, -alpha)
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// terminalScore scores a position with no legal moves, from the side to
// move's perspective. Mate is encoded as MateScore-ply so a nearer mate
// always outscores a farther one and any material score.
func (s *Searcher) terminalScore(pos *chess.Position, ply int) int {
	if pos.Status() == chess.Checkmate {
		return -(MateScore - ply)
	}
	return DrawScore
}

// legalMoves returns the position's legal moves in generation order with
// promotions resolved to Queen: under-promotions are skipped entirely, so
// each promoting pawn move appears exactly once, as a queen promotion.
func legalMoves(pos *chess.Position) []*chess.Move {
	all := pos.ValidMoves()
	moves := make([]*chess.Move, 0, len(all))
	for _, m := range all {
		if promo := m.Promo(); promo != chess.NoPieceType && promo != chess.Queen {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

// validate checks the structural invariants a reachable position must hold.
func validate(pos *chess.Position) error {
	if pos == nil {
		return &IllegalPositionError{Reason: "nil position"}
	}
	var whiteKing, blackKing bool
	for _, piece := range pos.Board().SquareMap() {
		if piece.Type() != chess.King {
			continue
		}
		if piece.Color() == chess.White {
			whiteKing = true
		} else {
			blackKing = true
		}
	}
	if !whiteKing || !blackKing {
		return &IllegalPositionError{Reason: "king missing from board"}
	}
	return nil
}

// IsMateScore reports whether a score encodes a forced mate rather than
// a material balance.
func IsMateScore(score int) bool {
	if score < 0 {
		score = -score
	}
	return score > MateScore-MaxPly
}
