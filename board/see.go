// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// see.go implements static exchange evaluation with the swap-list
// algorithm: both sides recapture on the destination square with
// their cheapest attacker, revealed X-ray attackers joining in, and
// the gain list is folded negamax style from the tail.

package board

// seeValue holds the figure values used for exchange evaluation.
var seeValue = [FigureArraySize]int32{100, 320, 330, 500, 900, 20000}

// SEEValue returns the exchange value of fig.
func SEEValue(fig Figure) int32 {
	return seeValue[fig]
}

// SEE returns the static exchange evaluation of m, the material
// balance after the full series of recaptures on the destination,
// assuming both sides capture with their cheapest piece first.
func (pos *Position) SEE(m Move) int32 {
	from, to := m.From(), m.To()

	fig, _, ok := pos.PieceAt(from)
	if !ok {
		return 0
	}

	var score int32
	if m.IsCapture() {
		if m.Flags() == EnPassant {
			score = seeValue[Pawn]
		} else if victim, _, ok := pos.PieceAt(to); ok {
			score = seeValue[victim]
		}
	}
	if m.IsPromotion() {
		score += seeValue[m.PromotionFigure()] - seeValue[Pawn]
		fig = m.PromotionFigure()
	}

	occ := pos.Occupied()
	attackers := pos.AttackersTo(to, occ)
	occ &^= from.Bitboard()
	attackers &= occ

	us := pos.SideToMove.Opposite()
	gain := make([]int32, 1, 16)
	gain[0] = score

	for {
		ours := attackers & pos.ByColor[us]
		if ours == 0 {
			break
		}

		// Pick the cheapest attacker.
		var attFig Figure
		var attSq Square
		for attFig = Pawn; attFig <= King; attFig++ {
			if subset := ours & pos.ByFigure[attFig]; subset != 0 {
				attSq = subset.AsSquare()
				break
			}
		}

		score = seeValue[fig] - score
		gain = append(gain, score)
		fig = attFig

		occ &^= attSq.Bitboard()
		// A capture may reveal sliders behind the attacker.
		if attFig == Pawn || attFig == Bishop || attFig == Queen {
			attackers |= BishopAttacks(to, occ) & (pos.ByFigure[Bishop] | pos.ByFigure[Queen])
		}
		if attFig == Rook || attFig == Queen {
			attackers |= RookAttacks(to, occ) & (pos.ByFigure[Rook] | pos.ByFigure[Queen])
		}
		attackers &= occ

		us = us.Opposite()
	}

	for i := len(gain) - 1; i > 0; i-- {
		// The defender recaptures only when it pays.
		if -gain[i] < gain[i-1] {
			gain[i-1] = -gain[i]
		}
	}
	return gain[0]
}
