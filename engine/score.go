// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	. "github.com/perchfish/perch/board"
)

// Score is a pair of midgame and endgame values. Terms are
// accumulated separately for the two game stages and blended by the
// phase of the position.
type Score struct {
	M, E int32
}

// Accum sums scores.
type Accum struct {
	M, E int32
}

func (a *Accum) add(s Score) {
	a.M += s.M
	a.E += s.E
}

func (a *Accum) addN(s Score, n int32) {
	a.M += s.M * n
	a.E += s.E * n
}

func (a *Accum) deduct(o Accum) {
	a.M -= o.M
	a.E -= o.E
}

// Game phase per figure: knights and bishops count 1, rooks 2,
// queens 4. The total is capped at 24, the phase of the starting
// position.
var phaseWeight = [FigureArraySize]int32{0, 1, 1, 2, 4, 0}

const totalPhase = 24

// phase computes the progress of the game from the non-pawn material
// still on the board. totalPhase is the opening, 0 the bare endgame.
func phase(pos *Position) int32 {
	curr := int32(0)
	for fig := Knight; fig <= Queen; fig++ {
		curr += phaseWeight[fig] * pos.ByFigure[fig].Popcnt()
	}
	if curr > totalPhase {
		curr = totalPhase
	}
	return curr
}

// blend interpolates the midgame and endgame accumulators by phase.
func blend(a Accum, phase int32) int32 {
	return (a.M*phase + a.E*(totalPhase-phase)) / totalPhase
}
