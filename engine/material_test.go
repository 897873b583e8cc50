package engine

import (
	"testing"

	. "github.com/perchfish/perch/board"
)

var testFENs = []string{
	FENStartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
	"6k1/5p1p/4p1p1/3p4/5P1P/8/3r2q1/6K1 w - - 2 55",
	"2rq1rk1/pb2bppp/1pn1pn2/2pp4/3P1B2/2PBPN2/PP1N1PPP/R2Q1RK1 w - - 0 10",
	"8/8/4kp2/8/4PK2/8/8/8 b - - 0 50",
}

// mirror flips ranks and swaps colors, returning the position from
// the other side's point of view.
func mirror(pos *Position) *Position {
	m := &Position{
		SideToMove:     pos.SideToMove.Opposite(),
		EpSquare:       SquareA1,
		HalfmoveClock:  pos.HalfmoveClock,
		FullmoveNumber: pos.FullmoveNumber,
	}
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		if fig, col, ok := pos.PieceAt(sq); ok {
			bb := (sq ^ 0x38).Bitboard()
			m.ByColor[col.Opposite()] |= bb
			m.ByFigure[fig] |= bb
		}
	}
	if pos.CastlingRights&WhiteOO != 0 {
		m.CastlingRights |= BlackOO
	}
	if pos.CastlingRights&WhiteOOO != 0 {
		m.CastlingRights |= BlackOOO
	}
	if pos.CastlingRights&BlackOO != 0 {
		m.CastlingRights |= WhiteOO
	}
	if pos.CastlingRights&BlackOOO != 0 {
		m.CastlingRights |= WhiteOOO
	}
	if pos.EpSquare != SquareA1 {
		m.EpSquare = pos.EpSquare ^ 0x38
	}
	return PositionFromFEN(m.String())
}

// Evaluation is color symmetric: seen from the side to move, a
// position and its mirror score the same.
func TestEvaluateSymmetry(t *testing.T) {
	oldContempt := Contempt
	Contempt = 0
	defer func() { Contempt = oldContempt }()

	for _, fen := range testFENs {
		pos := PositionFromFEN(fen)
		mir := mirror(pos)
		if got, want := Evaluate(mir), Evaluate(pos); got != want {
			t.Errorf("%s: mirror evaluates to %d, original to %d", fen, got, want)
		}
	}
}

// The starting position is perfectly balanced: only the tempo bonus
// remains.
func TestEvaluateStartPos(t *testing.T) {
	oldContempt := Contempt
	Contempt = 0
	defer func() { Contempt = oldContempt }()

	pos := PositionFromFEN(FENStartPos)
	if got := Evaluate(pos); got != tempoBonus {
		t.Errorf("startpos evaluates to %d, want tempo bonus %d", got, tempoBonus)
	}
}

func TestEvaluateMaterialImbalance(t *testing.T) {
	// White is a queen up; the score from White's point of view must
	// be large, and from Black's similarly negative.
	pos := PositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	if got := Evaluate(pos); got < 600 {
		t.Errorf("queen-up position evaluates to only %d", got)
	}
	pos = PositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 b - - 0 1")
	if got := Evaluate(pos); got > -600 {
		t.Errorf("queen-down side evaluates to %d", got)
	}
}

func TestContempt(t *testing.T) {
	oldContempt := Contempt
	defer func() { Contempt = oldContempt }()

	pos := PositionFromFEN(FENStartPos)
	Contempt = 0
	base := Evaluate(pos)
	Contempt = 25
	if got := Evaluate(pos); got != base+25 {
		t.Errorf("contempt not applied: got %d, want %d", got, base+25)
	}
}

func TestPhase(t *testing.T) {
	if got := phase(PositionFromFEN(FENStartPos)); got != totalPhase {
		t.Errorf("startpos phase = %d, want %d", got, totalPhase)
	}
	if got := phase(PositionFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")); got != 0 {
		t.Errorf("bare kings phase = %d, want 0", got)
	}
	if got := phase(PositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")); got != 4 {
		t.Errorf("lone queen phase = %d, want 4", got)
	}
}
