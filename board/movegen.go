// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// movegen.go enumerates pseudo-legal moves. Legality is defined by
// the filter: make the move and verify one's own king survives.

package board

// GenerateMoves appends all pseudo-legal moves for the side to move.
func (pos *Position) GenerateMoves(moves *[]Move) {
	pos.genPawnMoves(moves)
	pos.genKnightMoves(moves)
	pos.genSliderMoves(Bishop, moves)
	pos.genSliderMoves(Rook, moves)
	pos.genSliderMoves(Queen, moves)
	pos.genKingMoves(moves)
	pos.genCastles(moves)
}

// LegalMoves returns the legal moves for the side to move.
func (pos *Position) LegalMoves() []Move {
	pseudo := make([]Move, 0, 64)
	pos.GenerateMoves(&pseudo)

	legal := pseudo[:0]
	for _, m := range pseudo {
		if pos.IsLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

func (pos *Position) genPawnMoves(moves *[]Move) {
	us := pos.SideToMove
	occ := pos.Occupied()
	enemies := pos.ByColor[us.Opposite()]

	step, startRank, promoRank := 8, 1, 7
	if us == Black {
		step, startRank, promoRank = -8, 6, 0
	}

	for bb := pos.ByPiece(us, Pawn); bb != 0; {
		from := bb.Pop()

		// Pushes.
		to := Square(int(from) + step)
		if !occ.Has(to) {
			if to.Rank() == promoRank {
				for fig := Knight; fig <= Queen; fig++ {
					*moves = append(*moves, MakePromotion(from, to, fig, false))
				}
			} else {
				*moves = append(*moves, MakeMove(from, to, Quiet))
				if from.Rank() == startRank {
					to2 := Square(int(to) + step)
					if !occ.Has(to2) {
						*moves = append(*moves, MakeMove(from, to2, DoublePush))
					}
				}
			}
		}

		// Captures.
		for att := PawnAttacks(us, from) & enemies; att != 0; {
			to := att.Pop()
			if to.Rank() == promoRank {
				for fig := Knight; fig <= Queen; fig++ {
					*moves = append(*moves, MakePromotion(from, to, fig, true))
				}
			} else {
				*moves = append(*moves, MakeMove(from, to, Capture))
			}
		}

		// En passant.
		if pos.EpSquare != SquareA1 && PawnAttacks(us, from).Has(pos.EpSquare) {
			*moves = append(*moves, MakeMove(from, pos.EpSquare, EnPassant))
		}
	}
}

func (pos *Position) genKnightMoves(moves *[]Move) {
	us := pos.SideToMove
	friends := pos.ByColor[us]
	enemies := pos.ByColor[us.Opposite()]

	for bb := pos.ByPiece(us, Knight); bb != 0; {
		from := bb.Pop()
		pos.genBitboardMoves(from, KnightAttacks(from)&^friends, enemies, moves)
	}
}

func (pos *Position) genSliderMoves(fig Figure, moves *[]Move) {
	us := pos.SideToMove
	occ := pos.Occupied()
	friends := pos.ByColor[us]
	enemies := pos.ByColor[us.Opposite()]

	for bb := pos.ByPiece(us, fig); bb != 0; {
		from := bb.Pop()
		var att Bitboard
		switch fig {
		case Bishop:
			att = BishopAttacks(from, occ)
		case Rook:
			att = RookAttacks(from, occ)
		case Queen:
			att = QueenAttacks(from, occ)
		}
		pos.genBitboardMoves(from, att&^friends, enemies, moves)
	}
}

func (pos *Position) genKingMoves(moves *[]Move) {
	us := pos.SideToMove
	king := pos.ByPiece(us, King)
	if king == 0 {
		return
	}
	from := king.AsSquare()
	friends := pos.ByColor[us]
	enemies := pos.ByColor[us.Opposite()]
	pos.genBitboardMoves(from, KingAttacks(from)&^friends, enemies, moves)
}

func (pos *Position) genBitboardMoves(from Square, att, enemies Bitboard, moves *[]Move) {
	for att != 0 {
		to := att.Pop()
		flags := Quiet
		if enemies.Has(to) {
			flags = Capture
		}
		*moves = append(*moves, MakeMove(from, to, flags))
	}
}

// genCastles generates castling moves. A castle requires the right
// bit, empty squares between king and rook, and the king's square,
// transit square and destination all unattacked.
func (pos *Position) genCastles(moves *[]Move) {
	us := pos.SideToMove
	them := us.Opposite()
	occ := pos.Occupied()

	rank := 0
	oo, ooo := WhiteOO, WhiteOOO
	if us == Black {
		rank = 7
		oo, ooo = BlackOO, BlackOOO
	}
	kingSq := RankFile(rank, 4)

	if pos.CastlingRights&oo != 0 {
		f1, g1 := RankFile(rank, 5), RankFile(rank, 6)
		if !occ.Has(f1) && !occ.Has(g1) &&
			!pos.IsSquareAttacked(kingSq, them) &&
			!pos.IsSquareAttacked(f1, them) &&
			!pos.IsSquareAttacked(g1, them) {
			*moves = append(*moves, MakeMove(kingSq, g1, KingSideCastle))
		}
	}
	if pos.CastlingRights&ooo != 0 {
		d1, c1, b1 := RankFile(rank, 3), RankFile(rank, 2), RankFile(rank, 1)
		if !occ.Has(d1) && !occ.Has(c1) && !occ.Has(b1) &&
			!pos.IsSquareAttacked(kingSq, them) &&
			!pos.IsSquareAttacked(d1, them) &&
			!pos.IsSquareAttacked(c1, them) {
			*moves = append(*moves, MakeMove(kingSq, c1, QueenSideCastle))
		}
	}
}
