// Copyright 2026 The Perch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hash_table.go implements a global transposition table.

package engine

import (
	"unsafe" // for sizeof

	. "github.com/perchfish/perch/board"
)

var (
	// DefaultHashTableSizeMB is the default size in MB.
	DefaultHashTableSizeMB = 128
	// GlobalHashTable is the global transposition table.
	GlobalHashTable *HashTable
)

type hashKind uint8

const (
	noEntry    hashKind = iota
	exact               // the score is exact
	lowerBound          // search failed high, the score is a lower bound
	upperBound          // search failed low, the score is an upper bound
)

// hashEntry is a value in the transposition table.
// Mate scores are stored in root-independent form, see scoreToHash.
type hashEntry struct {
	key   uint64
	move  Move
	score int16
	depth int8
	kind  hashKind
}

// HashTable is a transposition table. The engine uses it to cache
// position scores so it doesn't have to search them again.
type HashTable struct {
	table []hashEntry // len(table) is a power of two and equals mask+1
	mask  uint64
}

// NewHashTable builds a transposition table that takes up to
// hashSizeMB megabytes.
func NewHashTable(hashSizeMB int) *HashTable {
	entrySize := uint64(unsafe.Sizeof(hashEntry{}))
	hashSize := uint64(hashSizeMB) << 20 / entrySize

	// Round down to a power of two.
	for hashSize&(hashSize-1) != 0 {
		hashSize &= hashSize - 1
	}
	return &HashTable{
		table: make([]hashEntry, hashSize),
		mask:  hashSize - 1,
	}
}

// Size returns the number of entries in the table.
func (ht *HashTable) Size() int {
	return int(ht.mask + 1)
}

// put stores an entry. The slot is always taken when empty or already
// holding the same key; otherwise a deeper occupant survives.
func (ht *HashTable) put(entry hashEntry) {
	e := &ht.table[entry.key&ht.mask]
	if e.kind == noEntry || e.key == entry.key || entry.depth >= e.depth {
		*e = entry
	}
}

// get returns the entry for key, if present.
func (ht *HashTable) get(key uint64) (hashEntry, bool) {
	e := ht.table[key&ht.mask]
	if e.kind != noEntry && e.key == key {
		return e, true
	}
	return hashEntry{}, false
}

// Clear removes all entries from the table.
func (ht *HashTable) Clear() {
	for i := range ht.table {
		ht.table[i] = hashEntry{}
	}
}

// scoreToHash rewrites mate scores to be independent of the search
// root before storing: a mate N plies from here stays a mate N plies
// from here no matter which ply stored it.
func scoreToHash(score, ply int32) int16 {
	if score >= MateScore-MaxPly {
		return int16(score + ply)
	}
	if score <= -MateScore+MaxPly {
		return int16(score - ply)
	}
	return int16(score)
}

// scoreFromHash is the inverse adjustment applied on probe.
func scoreFromHash(score int16, ply int32) int32 {
	s := int32(score)
	if s >= MateScore-MaxPly {
		return s - ply
	}
	if s <= -MateScore+MaxPly {
		return s + ply
	}
	return s
}

func init() {
	GlobalHashTable = NewHashTable(DefaultHashTableSizeMB)
}
