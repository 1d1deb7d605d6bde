package hll

import (
	"github.com/pkg/errors"
)

// The sparse list is a stream of opcodes that together cover all m registers in index order:
//
//	ZERO(n)     000nnnnn           n in [1,32] zero registers
//	XZERO(n)    001nnnnn nnnnnnnn  n in [1,8192] zero registers
//	VAL(r, n)   nnrrrrrr           rank r repeated over n in [1,3] registers
//
// Run lengths of the zero opcodes are stored minus one. A VAL opcode is any byte with one of the
// two high bits set; those bits hold its run length directly.
const (
	opcodeZERO  = 0x00
	opcodeXZERO = 0x20

	opcodeZEROMaxRun  = 32
	opcodeXZEROMaxRun = 8192
	opcodeVALMaxRun   = 3

	opcodeVALRankMask = 0x3f
)

type sparse struct {
	buf        []byte
	m          uint32
	numNonZero uint32
}

// An empty sparse list: every register is zero.
func newSparse(m uint32) *sparse {
	return newSpanWriter(m, 0).finish()
}

func (s *sparse) Copy() *sparse {
	if s == nil {
		return nil
	}
	buf := make([]byte, len(s.buf))
	copy(buf, s.buf)
	return &sparse{
		buf:        buf,
		m:          s.m,
		numNonZero: s.numNonZero,
	}
}

func (s *sparse) SizeInBytes() int {
	return len(s.buf)
}

func (s *sparse) GetNumNonZero() uint32 {
	return s.numNonZero
}

// Returns a function that can be called repeatedly to yield (rank, run length) spans from the
// list, zero spans included.
func (s *sparse) spans() spanIt {
	i := 0
	return func() (uint8, uint32, bool) {
		if i >= len(s.buf) {
			return 0, 0, false
		}
		val, run, width, ok := readSpan(s.buf, i)
		if !ok {
			return 0, 0, false
		}
		i += width
		return val, run, true
	}
}

// Returns a function that yields the non-zero registers of the list in ascending index order.
func (s *sparse) registers() registerIt {
	next := s.spans()
	var idx, left uint32
	var val uint8
	return func() (uint32, uint8, bool) {
		for left == 0 {
			v, run, ok := next()
			if !ok {
				return 0, 0, false
			}
			if v == 0 {
				idx += run
				continue
			}
			val, left = v, run
		}
		out := idx
		idx++
		left--
		return out, val, true
	}
}

// countZeros sums the zero runs without expanding the register array.
func (s *sparse) countZeros() uint32 {
	var v uint32
	it := s.spans()
	for val, run, ok := it(); ok; val, run, ok = it() {
		if val == 0 {
			v += run
		}
	}
	return v
}

// sumInverses returns Z = sum(2^-M[j]) over all m logical registers.
func (s *sparse) sumInverses() float64 {
	z := float64(0)
	it := s.spans()
	for val, run, ok := it(); ok; val, run, ok = it() {
		z += float64(run) * inversePow[val]
	}
	return z
}

// readSpan decodes the opcode starting at buf[i]. ok is false for a truncated XZERO.
func readSpan(buf []byte, i int) (val uint8, run uint32, width int, ok bool) {
	b := buf[i]
	switch {
	case b>>6 != 0:
		return b & opcodeVALRankMask, uint32(b >> 6), 1, true
	case b&opcodeXZERO != 0:
		if i+1 >= len(buf) {
			return 0, 0, 0, false
		}
		return 0, (uint32(b&0x1f)<<8 | uint32(buf[i+1])) + 1, 2, true
	default:
		return 0, uint32(b&0x1f) + 1, 1, true
	}
}

// Append the opcodes for run consecutive registers holding val.
func appendSpan(b []byte, val uint8, run uint32) []byte {
	if val == 0 {
		for run > opcodeXZEROMaxRun {
			b = append(b, opcodeXZERO|(opcodeXZEROMaxRun-1)>>8, (opcodeXZEROMaxRun-1)&0xff)
			run -= opcodeXZEROMaxRun
		}
		switch {
		case run == 0:
			return b
		case run <= opcodeZEROMaxRun:
			return append(b, opcodeZERO|byte(run-1))
		default:
			r := run - 1
			return append(b, opcodeXZERO|byte(r>>8), byte(r))
		}
	}

	for run > 0 {
		n := run
		if n > opcodeVALMaxRun {
			n = opcodeVALMaxRun
		}
		b = append(b, byte(n)<<6|val)
		run -= n
	}
	return b
}

// spanWriter builds a sparse list from non-zero registers supplied in strictly ascending index
// order. Adjacent registers with equal rank share opcodes.
type spanWriter struct {
	buf     []byte
	m       uint32
	next    uint32 // first register not yet covered
	val     uint8  // rank of the open span
	run     uint32 // length of the open span, 0 if none
	nonZero uint32
}

func newSpanWriter(m uint32, capBytes int) *spanWriter {
	return &spanWriter{
		buf: make([]byte, 0, capBytes),
		m:   m,
	}
}

func (w *spanWriter) set(idx uint32, rank uint8) {
	if idx > w.next {
		w.push(0, idx-w.next)
	}
	w.push(rank, 1)
	w.nonZero++
}

func (w *spanWriter) push(val uint8, run uint32) {
	if run == 0 {
		return
	}
	if w.run > 0 && val == w.val {
		w.run += run
	} else {
		w.buf = appendSpan(w.buf, w.val, w.run)
		w.val, w.run = val, run
	}
	w.next += run
}

func (w *spanWriter) finish() *sparse {
	w.push(0, w.m-w.next)
	w.buf = appendSpan(w.buf, w.val, w.run)
	w.run = 0
	return &sparse{
		buf:        w.buf,
		m:          w.m,
		numNonZero: w.nonZero,
	}
}

// parseSparse validates an opcode stream read from outside the process and wraps it. The stream
// must cover exactly 2^p registers with ranks in [1, 65-p].
func parseSparse(buf []byte, p uint8) (*sparse, error) {
	m := uint32(1) << p
	var covered uint64
	var nonZero uint32
	for i := 0; i < len(buf); {
		val, run, width, ok := readSpan(buf, i)
		if !ok {
			return nil, errors.Wrapf(ErrMalformedEncoding, "truncated XZERO opcode at byte %d", i)
		}
		if buf[i]>>6 != 0 && (val == 0 || val > maxRank(p)) {
			return nil, errors.Wrapf(ErrMalformedEncoding, "rank %d at byte %d outside [1,%d]",
				val, i, maxRank(p))
		}
		covered += uint64(run)
		if covered > uint64(m) {
			return nil, errors.Wrapf(ErrMalformedEncoding, "opcodes cover more than %d registers", m)
		}
		if val != 0 {
			nonZero += run
		}
		i += width
	}
	if covered != uint64(m) {
		return nil, errors.Wrapf(ErrMalformedEncoding, "opcodes cover %d registers, want %d", covered, m)
	}

	cp := make([]byte, len(buf))
	copy(cp, buf)
	return &sparse{buf: cp, m: m, numNonZero: nonZero}, nil
}
