package hll

import (
	"fmt"
	"sort"
)

// Indices are uint32 (p is at most 18). Ranks are uint8: the largest possible rank is 65-p, which
// also fits in the 6 rank bits of a VAL opcode.

// Yields (rank, run length) spans, including zero spans.
type spanIt func() (val uint8, run uint32, ok bool)

// Yields non-zero registers in ascending index order.
type registerIt func() (idx uint32, rank uint8, ok bool)

type pendingEntry struct {
	index uint32
	rank  uint8
}

// sortedPending flattens the temp set into entries sorted by register index. The temp set already
// holds a single, maximal rank per index, so the result has no duplicate indices.
func sortedPending(tmpSet map[uint32]uint8) []pendingEntry {
	entries := make([]pendingEntry, 0, len(tmpSet))
	for idx, r := range tmpSet {
		entries = append(entries, pendingEntry{idx, r})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].index < entries[j].index
	})
	return entries
}

func makePendingIt(entries []pendingEntry) registerIt {
	i := 0
	return func() (uint32, uint8, bool) {
		if i >= len(entries) {
			return 0, 0, false
		}
		e := entries[i]
		i++
		return e.index, e.rank, true
	}
}

type mergeElem struct {
	valid bool
	index uint32
	rho   uint8
}

// merge combines two ascending register streams into a new sparse list of m registers. When both
// streams carry the same index, the larger rank wins.
func merge(m uint32, capBytes int, first, second registerIt) *sparse {
	var a, b mergeElem
	loadA := func() {
		a.index, a.rho, a.valid = first()
	}
	loadB := func() {
		b.index, b.rho, b.valid = second()
	}

	loadA()
	loadB()

	output := newSpanWriter(m, capBytes)

	for a.valid && b.valid {
		if a.index < b.index {
			output.set(a.index, a.rho)
			loadA()
		} else if b.index < a.index {
			output.set(b.index, b.rho)
			loadB()
		} else { // The indexes are equal. Keep the one with the highest rho value.
			output.set(a.index, maxU8(a.rho, b.rho))
			loadA()
			loadB()
		}
	}

	for a.valid {
		output.set(a.index, a.rho)
		loadA()
	}

	for b.valid {
		output.set(b.index, b.rho)
		loadB()
	}

	return output.finish()
}

func toNormal(s *sparse) normal {
	M := newNormal(s.m)

	it := s.registers()
	for idx, r, ok := it(); ok; idx, r, ok = it() {
		M.setIfGreater(idx, r)
	}
	return M
}

func maxU8(x, y uint8) uint8 {
	if x >= y {
		return x
	}
	return y
}

// For debugging purposes, render the opcode stream as e.g. "ZERO(3) VAL(2,1) XZERO(60)".
func (s *sparse) String() string {
	out := ""
	for i := 0; i < len(s.buf); {
		val, run, width, ok := readSpan(s.buf, i)
		if !ok {
			return out + " <truncated>"
		}
		if i > 0 {
			out += " "
		}
		switch {
		case val != 0 || s.buf[i]>>6 != 0:
			out += fmt.Sprintf("VAL(%d,%d)", val, run)
		case width == 2:
			out += fmt.Sprintf("XZERO(%d)", run)
		default:
			out += fmt.Sprintf("ZERO(%d)", run)
		}
		i += width
	}
	return out
}
