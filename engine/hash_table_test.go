package engine

import (
	"testing"

	. "github.com/perchfish/perch/board"
)

func TestHashTableSize(t *testing.T) {
	ht := NewHashTable(1)
	if size := ht.Size(); size&(size-1) != 0 {
		t.Errorf("size %d is not a power of two", size)
	}
	if ht.Size() > (1<<20)/16 {
		t.Errorf("1 MB table has %d entries", ht.Size())
	}
}

func TestHashTablePutGet(t *testing.T) {
	ht := NewHashTable(1)
	e := hashEntry{key: 0x123456789abcdef0, move: MakeMove(SquareE2, SquareE4, DoublePush), score: 42, depth: 7, kind: exact}
	ht.put(e)

	got, ok := ht.get(e.key)
	if !ok {
		t.Fatal("stored entry not found")
	}
	if got != e {
		t.Errorf("got %+v, want %+v", got, e)
	}
	if _, ok := ht.get(e.key + 1); ok {
		t.Error("found an entry that was never stored")
	}
}

func TestHashTableReplacement(t *testing.T) {
	ht := NewHashTable(1)
	size := uint64(ht.Size())

	keyA := uint64(0x1000)
	keyB := keyA + size // same slot, different key

	ht.put(hashEntry{key: keyA, depth: 5, kind: exact})

	// A shallower entry for a different key does not evict a deeper
	// occupant.
	ht.put(hashEntry{key: keyB, depth: 3, kind: exact})
	if _, ok := ht.get(keyB); ok {
		t.Error("shallow entry evicted a deeper occupant")
	}
	if _, ok := ht.get(keyA); !ok {
		t.Error("deep occupant disappeared")
	}

	// An equal-depth entry takes the slot.
	ht.put(hashEntry{key: keyB, depth: 5, kind: exact})
	if _, ok := ht.get(keyB); !ok {
		t.Error("equal-depth entry was rejected")
	}

	// The same key is always updated, even at lower depth.
	ht.put(hashEntry{key: keyB, depth: 1, kind: lowerBound})
	if got, _ := ht.get(keyB); got.depth != 1 || got.kind != lowerBound {
		t.Error("same-key update was rejected")
	}
}

func TestHashTableClear(t *testing.T) {
	ht := NewHashTable(1)
	ht.put(hashEntry{key: 42, depth: 1, kind: exact})
	ht.Clear()
	if _, ok := ht.get(42); ok {
		t.Error("entry survived Clear")
	}
}

// Mate scores are stored relative to the entry's node, not the search
// root: storing at ply p and probing at ply q must shift the score by
// q - p.
func TestMateScoreAdjustment(t *testing.T) {
	mateIn5 := int32(MateScore - 5) // mate in 5 plies from the root

	stored := scoreToHash(mateIn5, 2)
	if got := scoreFromHash(stored, 2); got != mateIn5 {
		t.Errorf("store/probe at the same ply changed the score: %d", got)
	}
	// Probed one ply deeper, the mate is one ply farther from the
	// new root.
	if got := scoreFromHash(stored, 3); got != mateIn5-1 {
		t.Errorf("got %d, want %d", got, mateIn5-1)
	}

	matedIn5 := int32(-MateScore + 5)
	stored = scoreToHash(matedIn5, 2)
	if got := scoreFromHash(stored, 2); got != matedIn5 {
		t.Errorf("mated store/probe at the same ply changed the score: %d", got)
	}

	// Ordinary scores pass through untouched.
	if got := scoreFromHash(scoreToHash(123, 40), 7); got != 123 {
		t.Errorf("plain score adjusted: %d", got)
	}
}
