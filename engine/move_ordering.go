// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// move_ordering.go scores and sorts moves so the best candidates are
// searched first: hash move, then captures by MVV-LVA with an SEE
// tiebreak, promotions, killers, the countermove, and finally quiet
// moves by history.

package engine

import (
	. "github.com/perchfish/perch/board"
)

const (
	orderHashMove     = 5000000
	orderCapture      = 4000000
	orderPromotion    = 3500000
	orderFirstKiller  = 3000000
	orderSecondKiller = 2900000
	orderCounterMove  = 2800000
)

// orderMoves sorts moves in place, best first.
func (eng *Engine) orderMoves(pos *Position, moves []Move, ply int32, hash, lastMove Move) {
	order := make([]int32, len(moves))
	for i, m := range moves {
		order[i] = eng.moveOrder(pos, m, ply, hash, lastMove)
	}
	sortMoves(moves, order)
}

func (eng *Engine) moveOrder(pos *Position, m Move, ply int32, hash, lastMove Move) int32 {
	if m == hash {
		return orderHashMove
	}
	if m.IsCapture() {
		victim := Pawn // en passant
		if fig, _, ok := pos.PieceAt(m.To()); ok {
			victim = fig
		}
		attacker, _, _ := pos.PieceAt(m.From())
		return orderCapture + 100*int32(victim) - int32(attacker) + pos.SEE(m)
	}
	if m.IsPromotion() {
		return orderPromotion + int32(m.PromotionFigure())
	}
	if ply < MaxPly {
		if m == eng.killers[ply][0] {
			return orderFirstKiller
		}
		if m == eng.killers[ply][1] {
			return orderSecondKiller
		}
	}
	if lastMove != NullMove && m == eng.counter[lastMove.From()][lastMove.To()] {
		return orderCounterMove
	}
	return eng.history[m.From()][m.To()]
}

// Gaps from Best Increments for the Average Case of Shellsort,
// Marcin Ciura.
var shellSortGaps = [...]int{132, 57, 23, 10, 4, 1}

// sortMoves shell sorts moves by descending order key.
func sortMoves(moves []Move, order []int32) {
	for _, gap := range shellSortGaps {
		for i := gap; i < len(order); i++ {
			j := i
			to, tm := order[j], moves[j]
			for ; j >= gap && order[j-gap] < to; j -= gap {
				order[j] = order[j-gap]
				moves[j] = moves[j-gap]
			}
			order[j], moves[j] = to, tm
		}
	}
}

// saveKiller records a quiet move that caused a cutoff.
// The first slot is not duplicated.
func (eng *Engine) saveKiller(ply int32, m Move) {
	if ply >= MaxPly {
		return
	}
	if eng.killers[ply][0] != m {
		eng.killers[ply][1] = eng.killers[ply][0]
		eng.killers[ply][0] = m
	}
}

// historySaturation caps the history counters; on overflow the whole
// table is halved so recent cutoffs keep their relative weight.
const historySaturation = 2000000

// updateHistory rewards a quiet cutoff move with depth squared.
func (eng *Engine) updateHistory(m Move, depth int32) {
	h := &eng.history[m.From()][m.To()]
	*h += depth * depth
	if *h > historySaturation {
		for i := range eng.history {
			for j := range eng.history[i] {
				eng.history[i][j] /= 2
			}
		}
	}
}
