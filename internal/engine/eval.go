package engine

import "github.com/notnil/chess"

// Material values in centipawns. The king constant is never compared
// against material directly; it cancels out while both kings are on
// the board.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

func pieceValue(t chess.PieceType) int {
	switch t {
	case chess.Pawn:
		return PawnValue
	case chess.Knight:
		return KnightValue
	case chess.Bishop:
		return BishopValue
	case chess.Rook:
		return RookValue
	case chess.Queen:
		return QueenValue
	case chess.King:
		return KingValue
	}
	return 0
}

// Evaluate returns the static material score of the position in centipawns,
// signed from the side to move's perspective. It is pure and deterministic:
// no mobility, king safety or positional terms. Terminal positions
// (mate, stalemate) are the searcher's concern, not the evaluator's.
func Evaluate(pos *chess.Position) int {
	var score int
	for _, piece := range pos.Board().SquareMap() {
		v := pieceValue(piece.Type())
		if piece.Color() == chess.White {
			score += v
		} else {
			score -= v
		}
	}
	if pos.Turn() == chess.Black {
		score = -score
	}
	return score
}
