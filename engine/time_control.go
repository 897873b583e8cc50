// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"sync"
	"time"

	. "github.com/perchfish/perch/board"
)

// atomicFlag is an atomic bool that can only be set.
type atomicFlag struct {
	lock sync.Mutex
	flag bool
}

func (af *atomicFlag) set() {
	af.lock.Lock()
	af.flag = true
	af.lock.Unlock()
}

func (af *atomicFlag) get() bool {
	af.lock.Lock()
	tmp := af.flag
	af.lock.Unlock()
	return tmp
}

// TimeControl budgets the search. With clock information it allots a
// slice of the remaining time; a move time overrides the clocks; with
// neither the search runs until the depth limit or an external stop.
type TimeControl struct {
	WTime, WInc time.Duration // time and increment for White
	BTime, BInc time.Duration // time and increment for Black
	MoveTime    time.Duration // fixed time per move, overrides the clocks
	Depth       int32         // maximum depth to search (inclusive)

	sideToMove Color
	stopped    atomicFlag

	hasDeadline bool
	deadline    time.Time
}

// NewTimeControl returns a time control for pos's side to move with
// no time limit and a depth limit of 64.
func NewTimeControl(pos *Position) *TimeControl {
	return &TimeControl{
		Depth:      64,
		sideToMove: pos.SideToMove,
	}
}

// NewFixedDepthTimeControl returns a time control limited to depth.
func NewFixedDepthTimeControl(pos *Position, depth int32) *TimeControl {
	tc := NewTimeControl(pos)
	tc.Depth = depth
	return tc
}

// NewMoveTimeTimeControl returns a time control that spends exactly
// moveTime on the move.
func NewMoveTimeTimeControl(pos *Position, moveTime time.Duration) *TimeControl {
	tc := NewTimeControl(pos)
	tc.MoveTime = moveTime
	return tc
}

// thinkingTime allots a slice of the remaining time t with increment
// inc: with the clock nearly out the engine spreads what is left over
// many moves, with comfortable time it spends more and banks on the
// increment. Never more than half the remaining time.
func thinkingTime(t, inc time.Duration) time.Duration {
	var tt time.Duration
	switch {
	case t < 2*time.Second:
		tt = t / 40
	case t < 10*time.Second:
		tt = t/30 + inc/2
	default:
		tt = t/25 + 3*inc/4
	}
	if tt > t/2 {
		tt = t / 2
	}
	return tt
}

// Start starts the clock. Should be called as soon as possible after
// the go command arrives.
func (tc *TimeControl) Start() {
	tc.stopped = atomicFlag{}

	if tc.MoveTime > 0 {
		tc.hasDeadline = true
		tc.deadline = time.Now().Add(tc.MoveTime)
		return
	}

	t, inc := tc.WTime, tc.WInc
	if tc.sideToMove == Black {
		t, inc = tc.BTime, tc.BInc
	}
	if t == 0 {
		// No clock information: run until depth or stop.
		tc.hasDeadline = false
		return
	}
	tc.hasDeadline = true
	tc.deadline = time.Now().Add(thinkingTime(t, inc))
}

// Stop marks the search as stopped.
func (tc *TimeControl) Stop() {
	tc.stopped.set()
}

// Stopped returns true if the search should stop.
func (tc *TimeControl) Stopped() bool {
	if tc.stopped.get() {
		return true
	}
	if tc.hasDeadline && time.Now().After(tc.deadline) {
		tc.stopped.set()
		return true
	}
	return false
}
