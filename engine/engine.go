// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements the search for the perch chess engine.
//
// The search is a principal-variation alpha-beta with iterative
// deepening and aspiration windows, backed by a transposition table.
// Implemented features:
//
//   - Aspiration windows
//   - Check extension
//   - Reverse futility pruning
//   - Null-move pruning
//   - Internal iterative deepening
//   - Singular extensions
//   - Late-move pruning and futility pruning
//   - Principal variation search with late-move reductions
//   - Killer, history and countermove ordering heuristics
//   - Quiescence search with static-exchange pruning
//   - Mate-distance-independent transposition scores
package engine

import (
	. "github.com/perchfish/perch/board"
	"github.com/perchfish/perch/internal/logging"
)

var log = logging.GetLog()

const (
	// MateScore - N is mate in N plies.
	MateScore = 29000
	// InfinityScore bounds all scores.
	InfinityScore = 30000
	// MaxPly is the deepest the search ever recurses.
	MaxPly = 128

	// KnownWinScore is strictly greater than all evaluation scores;
	// scores above it are forced mates.
	KnownWinScore = MateScore - MaxPly

	initialAspirationWindow = 35
	maxAspirationWindow     = 2500
	checkpointStep          = 2048
)

// Stats stores statistics about the search.
type Stats struct {
	Nodes     uint64 // number of nodes searched
	Depth     int32  // last completed depth
	CacheHit  uint64 // transposition table hits
	CacheMiss uint64 // transposition table misses
}

// CacheHitRatio returns the ratio of transposition table hits over
// the total number of lookups.
func (s *Stats) CacheHitRatio() float32 {
	return float32(s.CacheHit) / float32(s.CacheHit+s.CacheMiss)
}

// Logger logs search progress.
type Logger interface {
	// BeginSearch signals a new search is started.
	BeginSearch()
	// EndSearch signals the end of the search.
	EndSearch()
	// PrintPV logs the best move after iterative deepening completed
	// one depth.
	PrintPV(stats Stats, score int32, move Move)
}

// NulLogger is a logger that does nothing.
type NulLogger struct{}

func (nl *NulLogger) BeginSearch()               {}
func (nl *NulLogger) EndSearch()                 {}
func (nl *NulLogger) PrintPV(Stats, int32, Move) {}

// Engine implements the logic to search the best move for a position.
type Engine struct {
	Log      Logger    // logger
	Stats    Stats     // search statistics
	Position *Position // current position

	killers [MaxPly][2]Move // quiet moves that caused recent cutoffs
	history [64][64]int32   // quiet move bonus by from/to
	counter [64][64]Move    // reply that refuted the previous from/to

	// gameHistory holds the hashes of every position reached since
	// the root of the game, extended along the current search line.
	// The last entry is always the current position's hash.
	gameHistory []uint64

	timeControl *TimeControl
	stopped     bool
}

// NewEngine creates a new engine to search pos.
// If pos is nil then the starting position is used.
func NewEngine(pos *Position, log Logger) *Engine {
	if log == nil {
		log = &NulLogger{}
	}
	eng := &Engine{Log: log}
	eng.SetPosition(pos)
	return eng
}

// SetPosition sets the current position and resets the game history.
// If pos is nil, the starting position is set.
func (eng *Engine) SetPosition(pos *Position) {
	if pos == nil {
		pos = PositionFromFEN(FENStartPos)
	}
	eng.Position = pos
	eng.gameHistory = append(eng.gameHistory[:0], pos.Hash)
}

// DoMove executes a move on the game board.
func (eng *Engine) DoMove(m Move) {
	next := eng.Position.MakeMove(m)
	eng.Position = &next
	eng.gameHistory = append(eng.gameHistory, next.Hash)
}

// NewGame clears the transposition table and the ordering heuristics.
func (eng *Engine) NewGame() {
	GlobalHashTable.Clear()
	eng.killers = [MaxPly][2]Move{}
	eng.history = [64][64]int32{}
	eng.counter = [64][64]Move{}
}

// Play searches the current position under tc and returns the best
// move found, or NullMove if the game is over. tc should already be
// started.
func (eng *Engine) Play(tc *TimeControl) Move {
	eng.Log.BeginSearch()
	defer eng.Log.EndSearch()

	eng.Stats = Stats{}
	eng.timeControl = tc
	eng.stopped = false

	bestMove := NullMove
	score := int32(0)
	for depth := int32(1); depth <= tc.Depth; depth++ {
		if depth > 1 && tc.Stopped() {
			break
		}

		move, s := eng.searchAspiration(depth, score)
		if eng.stopped && depth > 1 {
			// A canceled iteration is discarded; the previous
			// depth's move stands.
			break
		}
		if move != NullMove {
			bestMove, score = move, s
		}
		eng.Stats.Depth = depth
		eng.Log.PrintPV(eng.Stats, score, bestMove)
		if move == NullMove {
			break
		}
	}

	log.Debugf("searched %d nodes to depth %d, tt hit ratio %.2f",
		eng.Stats.Nodes, eng.Stats.Depth, eng.Stats.CacheHitRatio())
	return bestMove
}

// searchAspiration searches depth with a window centered on the
// previous iteration's score, gradually reopening it on failure.
func (eng *Engine) searchAspiration(depth, estimated int32) (Move, int32) {
	α, β := int32(-InfinityScore), int32(InfinityScore)
	δ := int32(initialAspirationWindow)
	if depth > 4 {
		α, β = estimated-δ, estimated+δ
	}

	for {
		move, score := eng.searchRoot(depth, α, β)
		if eng.stopped {
			return move, score
		}
		if α < score && score < β {
			return move, score
		}

		δ = δ * 8 / 5
		if δ > maxAspirationWindow {
			α, β = -InfinityScore, InfinityScore
			continue
		}
		if score <= α {
			α = max(score-δ, -InfinityScore)
		} else {
			β = min(score+δ, InfinityScore)
		}
	}
}

// searchRoot runs the principal-variation search over the root moves.
// The first root move is always searched, even under time pressure,
// so a legal move can be returned.
func (eng *Engine) searchRoot(depth, α, β int32) (Move, int32) {
	pos := eng.Position
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.IsInCheck() {
			return NullMove, -MateScore
		}
		return NullMove, 0
	}

	ttMove := NullMove
	if entry, ok := GlobalHashTable.get(pos.Hash); ok {
		ttMove = entry.move
	}
	eng.orderMoves(pos, moves, 0, ttMove, NullMove)

	bestMove, bestScore := NullMove, int32(-InfinityScore)
	localα := α
	for i, m := range moves {
		if i > 0 && eng.stopped {
			break
		}

		child := pos.MakeMove(m)
		eng.gameHistory = append(eng.gameHistory, child.Hash)
		var score int32
		if i == 0 {
			score = -eng.alphaBeta(&child, depth-1, -β, -localα, 1, true, true, m)
		} else {
			score = -eng.alphaBeta(&child, depth-1, -localα-1, -localα, 1, true, true, m)
			if score > localα && score < β {
				score = -eng.alphaBeta(&child, depth-1, -β, -localα, 1, true, true, m)
			}
		}
		eng.gameHistory = eng.gameHistory[:len(eng.gameHistory)-1]

		if score > bestScore {
			bestMove, bestScore = m, score
		}
		if score > localα {
			localα = score
		}
	}

	// A root position that is already drawn by repetition, the
	// fifty-move rule or bare material scores 0; a legal move is
	// still returned.
	if eng.isRepetition(pos.Hash) || pos.HalfmoveClock >= 100 || pos.InsufficientMaterial() {
		return bestMove, 0
	}

	if !eng.stopped {
		GlobalHashTable.put(hashEntry{
			key:   pos.Hash,
			move:  bestMove,
			score: scoreToHash(bestScore, 0),
			depth: int8(depth),
			kind:  exact,
		})
	}
	return bestMove, bestScore
}

// isRepetition returns true if the current position occurred earlier
// in the game or on the current search line.
func (eng *Engine) isRepetition(hash uint64) bool {
	for i := len(eng.gameHistory) - 2; i >= 0; i-- {
		if eng.gameHistory[i] == hash {
			return true
		}
	}
	return false
}

// legalChild verifies that us's king survived the move that produced
// child.
func legalChild(child *Position, us Color) bool {
	king := child.ByPiece(us, King)
	return king != 0 && !child.IsSquareAttacked(king.AsSquare(), us.Opposite())
}

// alphaBeta searches pos to depth with the window [α, β].
//
// The returned score is from the current player's point of view and
// may lie outside the window: a score at or above β is a lower bound,
// one at or below α an upper bound. Mate scores are relative to the
// search root.
func (eng *Engine) alphaBeta(pos *Position, depth, α, β, ply int32, allowNull, allowSingular bool, lastMove Move) int32 {
	eng.Stats.Nodes++
	if eng.Stats.Nodes%checkpointStep == 0 && eng.timeControl.Stopped() {
		eng.stopped = true
	}
	if eng.stopped {
		return 0
	}
	if ply >= MaxPly {
		return Evaluate(pos)
	}
	if eng.isRepetition(pos.Hash) {
		return 0
	}
	if pos.HalfmoveClock >= 100 {
		return 0
	}
	if pos.InsufficientMaterial() {
		return 0
	}

	entry, hasEntry := GlobalHashTable.get(pos.Hash)
	if hasEntry {
		eng.Stats.CacheHit++
	} else {
		eng.Stats.CacheMiss++
	}
	if hasEntry && int32(entry.depth) >= depth {
		score := scoreFromHash(entry.score, ply)
		switch entry.kind {
		case exact:
			return score
		case lowerBound:
			if score >= β {
				return score
			}
		case upperBound:
			if score <= α {
				return score
			}
		}
	}

	inCheck := pos.IsInCheck()
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return eng.quiescence(pos, α, β, ply)
	}

	static := Evaluate(pos)

	// Reverse futility pruning: a static eval still over β after a
	// generous margin will not drop below it in a shallow search.
	if !inCheck && depth <= 3 && static-120*depth >= β {
		return static - 120*depth
	}

	// Null-move pruning: give the opponent a free move; if the
	// reduced search still fails high the real position is too good.
	if allowNull && !inCheck && depth >= 3 && static >= β &&
		pos.Occupied().Popcnt() > 4 {
		null := pos.MakeNullMove()
		reduction := 3 + depth/4
		eng.gameHistory = append(eng.gameHistory, null.Hash)
		score := -eng.alphaBeta(&null, depth-1-reduction, -β, -β+1, ply+1, false, allowSingular, NullMove)
		eng.gameHistory = eng.gameHistory[:len(eng.gameHistory)-1]
		if eng.stopped {
			return 0
		}
		if score >= β {
			return β
		}
	}

	ttMove := NullMove
	if hasEntry {
		ttMove = entry.move
	}

	// Internal iterative deepening: with no hash move at high depth,
	// a reduced search populates the table with one.
	if depth >= 6 && ttMove == NullMove {
		reduced := depth - 2
		if depth > 8 {
			reduced = depth - 4
		}
		eng.alphaBeta(pos, reduced, α, β, ply, false, false, lastMove)
		if e, ok := GlobalHashTable.get(pos.Hash); ok {
			ttMove = e.move
		}
	}

	// Singular extension: when every alternative fails well below the
	// hash move's score, the hash move is forced and gets one more ply.
	singularExt := int32(0)
	if allowSingular && depth >= 6 && ttMove != NullMove && hasEntry &&
		int32(entry.depth) >= depth-3 && entry.kind != upperBound {
		singularBeta := scoreFromHash(entry.score, ply) - 2*depth
		if eng.isSingular(pos, ttMove, singularBeta, depth, ply) {
			singularExt = 1
		}
	}

	var moves []Move
	pos.GenerateMoves(&moves)
	eng.orderMoves(pos, moves, ply, ttMove, lastMove)

	us := pos.SideToMove
	bestMove, bestScore := NullMove, int32(-InfinityScore)
	localα := α
	movesTried := int32(0)
	numLegal := 0

	for _, m := range moves {
		child := pos.MakeMove(m)
		if !legalChild(&child, us) {
			continue
		}
		numLegal++
		givesCheck := child.IsInCheck()
		quiet := m.IsQuiet()

		// Late-move pruning: quiet moves this far down the list at
		// low depth are almost never best.
		if !inCheck && depth <= 3 && quiet && !givesCheck &&
			movesTried >= 8+depth*depth {
			continue
		}
		// Futility pruning: a quiet move cannot raise a hopeless
		// static eval over α near the frontier.
		if !inCheck && depth <= 2 && quiet && !givesCheck &&
			movesTried > 0 && static+250*depth <= localα {
			continue
		}

		ext := int32(0)
		if m == ttMove {
			ext = singularExt
		}

		eng.gameHistory = append(eng.gameHistory, child.Hash)
		var score int32
		if movesTried == 0 {
			score = -eng.alphaBeta(&child, depth-1+ext, -β, -localα, ply+1, true, true, m)
		} else {
			reduction := int32(0)
			if depth >= 3 && quiet && !givesCheck && !inCheck &&
				!eng.passedPawnPush(pos, m) {
				reduction = 1
				if movesTried >= 8 {
					reduction++
				}
				if depth >= 6 {
					reduction++
				}
			}
			score = -eng.alphaBeta(&child, depth-1-reduction, -localα-1, -localα, ply+1, true, true, m)
			if reduction > 0 && score > localα {
				score = -eng.alphaBeta(&child, depth-1, -localα-1, -localα, ply+1, true, true, m)
			}
			if score > localα && score < β {
				score = -eng.alphaBeta(&child, depth-1, -β, -localα, ply+1, true, true, m)
			}
		}
		eng.gameHistory = eng.gameHistory[:len(eng.gameHistory)-1]
		movesTried++

		if eng.stopped {
			return 0
		}

		if score >= β {
			if quiet {
				eng.saveKiller(ply, m)
				eng.updateHistory(m, depth)
				if lastMove != NullMove {
					eng.counter[lastMove.From()][lastMove.To()] = m
				}
			}
			GlobalHashTable.put(hashEntry{
				key:   pos.Hash,
				move:  m,
				score: scoreToHash(score, ply),
				depth: int8(depth),
				kind:  lowerBound,
			})
			return score
		}
		if score > bestScore {
			bestMove, bestScore = m, score
			if score > localα {
				localα = score
			}
		}
	}

	if numLegal == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	kind := exact
	if bestScore <= α {
		kind = upperBound
	}
	GlobalHashTable.put(hashEntry{
		key:   pos.Hash,
		move:  bestMove,
		score: scoreToHash(bestScore, ply),
		depth: int8(depth),
		kind:  kind,
	})
	return bestScore
}

// isSingular probes every alternative to ttMove with a reduced null
// window just below singularBeta; if none reaches it the hash move is
// singular.
func (eng *Engine) isSingular(pos *Position, ttMove Move, singularBeta, depth, ply int32) bool {
	var moves []Move
	pos.GenerateMoves(&moves)

	us := pos.SideToMove
	for _, m := range moves {
		if m == ttMove {
			continue
		}
		child := pos.MakeMove(m)
		if !legalChild(&child, us) {
			continue
		}
		eng.gameHistory = append(eng.gameHistory, child.Hash)
		score := -eng.alphaBeta(&child, (depth-1)/2, -singularBeta, -singularBeta+1, ply+1, false, false, m)
		eng.gameHistory = eng.gameHistory[:len(eng.gameHistory)-1]
		if eng.stopped || score >= singularBeta {
			return false
		}
	}
	return true
}

// quiescence resolves captures and promotions past the horizon so the
// returned score is quiet.
func (eng *Engine) quiescence(pos *Position, α, β, ply int32) int32 {
	eng.Stats.Nodes++
	if eng.Stats.Nodes%checkpointStep == 0 && eng.timeControl.Stopped() {
		eng.stopped = true
	}
	if eng.stopped {
		return 0
	}
	if ply >= MaxPly {
		return Evaluate(pos)
	}

	static := Evaluate(pos)
	if static >= β {
		return β
	}
	if static > α {
		α = static
	}

	inCheck := pos.IsInCheck()
	var moves []Move
	pos.GenerateMoves(&moves)
	if !inCheck {
		tactical := moves[:0]
		for _, m := range moves {
			if m.IsCapture() || m.IsPromotion() {
				tactical = append(tactical, m)
			}
		}
		moves = tactical
	}
	eng.orderMoves(pos, moves, ply, NullMove, NullMove)

	us := pos.SideToMove
	numLegal := 0
	for _, m := range moves {
		// Let minor tactical sacrifices through, prune the rest.
		if !inCheck && pos.SEE(m) < -200 {
			continue
		}
		child := pos.MakeMove(m)
		if !legalChild(&child, us) {
			continue
		}
		numLegal++
		score := -eng.quiescence(&child, -β, -α, ply+1)
		if eng.stopped {
			return 0
		}
		if score >= β {
			return β
		}
		if score > α {
			α = score
		}
	}

	if inCheck && numLegal == 0 {
		return -MateScore + ply
	}
	return α
}

// passedPawnPush returns true if m advances a passed pawn.
func (eng *Engine) passedPawnPush(pos *Position, m Move) bool {
	fig, col, ok := pos.PieceAt(m.From())
	if !ok || fig != Pawn {
		return false
	}
	return passedMask[col][m.To()]&pos.ByPiece(col.Opposite(), Pawn) == 0
}

// max returns the maximum of a and b.
func max(a, b int32) int32 {
	if a >= b {
		return a
	}
	return b
}

// min returns the minimum of a and b.
func min(a, b int32) int32 {
	if a <= b {
		return a
	}
	return b
}
