package alphabeta

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 16

const (
	minSizePowerOf2 = 10
	maxSizePowerOf2 = 26
)

// DefaultTTMemoryFraction is the share of system memory a table may use.
const DefaultTTMemoryFraction = 0.05

// Mixed into the key of positions where the minimiser is on turn.
const minimizerSalt = 0x9e3779b97f4a7c15

// 16 bytes (entrySize)
type TableEntry struct {
	// The packed board is a perfect key; the hash only picks the bucket.
	board      uint64
	score      int16
	flag       uint8
	minimizing bool
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

// TranspositionTable caches search results by position. Scores are stored
// relative to the running point total at the node, so the same position
// reached through different move orders shares one entry.
type TranspositionTable struct {
	table        []TableEntry
	sizePowerOf2 int
	sizeMask     uint64

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	// "type 2" collisions: two positions landing in the same bucket.
	t2collisions atomic.Uint64
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

func (t *TranspositionTable) index(board uint64, minimizing bool) uint64 {
	key := board
	if minimizing {
		key ^= minimizerSalt
	}
	return hashUint64(key) & t.sizeMask
}

func (t *TranspositionTable) lookup(board uint64, minimizing bool) (TableEntry, bool) {
	t.lookups.Add(1)
	entry := t.table[t.index(board, minimizing)]
	if !entry.valid() {
		return TableEntry{}, false
	}
	if entry.board != board || entry.minimizing != minimizing {
		t.t2collisions.Add(1)
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return entry, true
}

func (t *TranspositionTable) store(board uint64, minimizing bool, tentry TableEntry) {
	tentry.board = board
	tentry.minimizing = minimizing
	// just overwrite whatever is there for now.
	t.table[t.index(board, minimizing)] = tentry
	t.created.Add(1)
}

// Reset sizes the table to a power of two that fits in fractionOfMemory of
// system memory, but never larger than the number of distinct positions a
// board with the given number of cells can have, and clears it.
func (t *TranspositionTable) Reset(fractionOfMemory float64, cells int) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	power := minSizePowerOf2
	if desiredNElems >= 1 {
		power = int(math.Log2(desiredNElems))
	}
	// 2^cells boards, times two sides to move.
	power = min(power, cells+1, maxSizePowerOf2)
	power = max(power, minSizePowerOf2)

	numElems := 1 << power
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}
	t.sizePowerOf2 = power
	t.sizeMask = uint64(numElems - 1)

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}
