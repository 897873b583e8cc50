package board

import (
	"testing"
)

// perft counts the leaves of the legal move tree.
func perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		next := pos.MakeMove(m)
		nodes += perft(&next, depth-1)
	}
	return nodes
}

func testPerft(t *testing.T, fen string, want []uint64, slowFrom int) {
	pos := PositionFromFEN(fen)
	for d, expected := range want {
		depth := d + 1
		if testing.Short() && depth >= slowFrom {
			t.Skipf("skipping depth %d in short mode", depth)
		}
		if got := perft(pos, depth); got != expected {
			t.Errorf("%s: perft(%d) = %d, want %d", fen, depth, got, expected)
		}
	}
}

func TestPerftStartPos(t *testing.T) {
	testPerft(t, FENStartPos,
		[]uint64{20, 400, 8902, 197281, 4865609}, 5)
}

func TestPerftKiwipete(t *testing.T) {
	testPerft(t, testKiwipete,
		[]uint64{48, 2039, 97862, 4085603}, 4)
}

// Position 3 from the chessprogramming wiki perft suite exercises en
// passant pins and rook endgame movement.
func TestPerftEndgame(t *testing.T) {
	testPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		[]uint64{14, 191, 2812, 43238, 674624}, 5)
}

// Position 4 covers promotions, underpromotions and castling into
// discovered attacks.
func TestPerftPromotions(t *testing.T) {
	testPerft(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		[]uint64{6, 264, 9467, 422333}, 4)
}

func BenchmarkPerftStartPos(b *testing.B) {
	pos := PositionFromFEN(FENStartPos)
	for i := 0; i < b.N; i++ {
		perft(pos, 4)
	}
}
