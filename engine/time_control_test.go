package engine

import (
	"testing"
	"time"

	. "github.com/perchfish/perch/board"
)

func TestThinkingTime(t *testing.T) {
	tests := []struct {
		t, inc time.Duration
		want   time.Duration
	}{
		// Nearly out of time: spread thin.
		{1 * time.Second, 0, 25 * time.Millisecond},
		{1 * time.Second, time.Second, 25 * time.Millisecond},
		// Low time: lean on the increment.
		{6 * time.Second, time.Second, 200*time.Millisecond + 500*time.Millisecond},
		// Comfortable time.
		{60 * time.Second, 0, 2400 * time.Millisecond},
		{50 * time.Second, 2 * time.Second, 2*time.Second + 1500*time.Millisecond},
		// Never more than half the clock.
		{4 * time.Second, time.Minute, 2 * time.Second},
	}
	for i, test := range tests {
		if got := thinkingTime(test.t, test.inc); got != test.want {
			t.Errorf("#%d thinkingTime(%v, %v) = %v, want %v",
				i, test.t, test.inc, got, test.want)
		}
	}
}

func TestFixedDepthNeverStops(t *testing.T) {
	pos := PositionFromFEN(FENStartPos)
	tc := NewFixedDepthTimeControl(pos, 5)
	tc.Start()
	if tc.Stopped() {
		t.Error("fixed-depth control stopped immediately")
	}
}

func TestStopFlag(t *testing.T) {
	pos := PositionFromFEN(FENStartPos)
	tc := NewTimeControl(pos)
	tc.Start()
	if tc.Stopped() {
		t.Error("stopped before Stop")
	}
	tc.Stop()
	if !tc.Stopped() {
		t.Error("not stopped after Stop")
	}
}

func TestMoveTimeDeadline(t *testing.T) {
	pos := PositionFromFEN(FENStartPos)
	tc := NewMoveTimeTimeControl(pos, 10*time.Millisecond)
	tc.Start()
	if tc.Stopped() {
		t.Error("stopped before the move time elapsed")
	}
	time.Sleep(20 * time.Millisecond)
	if !tc.Stopped() {
		t.Error("not stopped after the move time elapsed")
	}
}

func TestBlackClockIsUsed(t *testing.T) {
	pos := PositionFromFEN("4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	tc := NewTimeControl(pos)
	tc.WTime = time.Hour
	tc.BTime = 10 * time.Millisecond
	tc.Start()
	time.Sleep(20 * time.Millisecond)
	if !tc.Stopped() {
		t.Error("black to move must run on black's clock")
	}
}
