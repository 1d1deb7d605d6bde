package hll

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestSparseEmpty(t *testing.T) {
	testCases := []struct {
		m        uint32
		expected string
		size     int
	}{
		{16, "ZERO(16)", 1},
		{32, "ZERO(32)", 1},
		{64, "XZERO(64)", 2},
		{1 << 14, "XZERO(8192) XZERO(8192)", 4},
		{1 << 18, "", 64}, // 32 XZERO(8192)
	}

	for _, testCase := range testCases {
		s := newSparse(testCase.m)
		assert.Equal(t, testCase.size, s.SizeInBytes())
		assert.Equal(t, testCase.m, s.countZeros())
		assert.Equal(t, float64(testCase.m), s.sumInverses())
		assert.Equal(t, uint32(0), s.GetNumNonZero())
		if testCase.expected != "" {
			assert.Equal(t, testCase.expected, s.String())
		}
	}
}

func TestSpanWriter(t *testing.T) {
	w := newSpanWriter(64, 0)
	w.set(0, 3)
	w.set(1, 3)
	w.set(2, 3)
	w.set(3, 3)
	w.set(10, 1)
	w.set(60, 61)
	s := w.finish()

	assert.Equal(t, "VAL(3,3) VAL(3,1) ZERO(6) VAL(1,1) XZERO(49) VAL(61,1) ZERO(3)", s.String())
	assert.Equal(t, uint32(6), s.GetNumNonZero())
	assert.Equal(t, uint32(58), s.countZeros())

	iter := s.registers()
	expected := []struct {
		idx  uint32
		rank uint8
	}{{0, 3}, {1, 3}, {2, 3}, {3, 3}, {10, 1}, {60, 61}}
	for _, e := range expected {
		idx, r, ok := iter()
		assert.T(t, ok)
		assert.Equal(t, e.idx, idx)
		assert.Equal(t, e.rank, r)
	}
	_, _, ok := iter()
	assert.T(t, !ok) // iterator should be exhausted
}

func TestAppendSpanLongZeroRun(t *testing.T) {
	// 8192 + 20: one full XZERO, and the short tail falls back to ZERO.
	b := appendSpan(nil, 0, 8212)
	assert.Equal(t, []byte{0x3f, 0xff, 0x13}, b)

	// 8192 + 40: the tail is long enough for a second XZERO.
	b = appendSpan(nil, 0, 8232)
	assert.Equal(t, []byte{0x3f, 0xff, 0x20, 39}, b)

	b = appendSpan(nil, 5, 7)
	assert.Equal(t, []byte{0xc5, 0xc5, 0x45}, b)
}

func TestParseSparse(t *testing.T) {
	// p=4: ZERO(2) VAL(5,2) ZERO(12)
	s, err := parseSparse([]byte{0x01, 0x85, 0x0b}, 4)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(2), s.GetNumNonZero())
	assert.Equal(t, normal{0, 0, 5, 5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, toNormal(s))

	malformed := [][]byte{
		{},                 // covers nothing
		{0x0e},             // 15 registers
		{0x0f, 0x41},       // 17 registers
		{0x20},             // truncated XZERO
		{0x40, 0x0e},       // VAL with rank 0
		{0x7e, 0x0e},       // rank 62 > 65-4
		{0x20, 0x10},       // XZERO(17) on its own is 17 registers
		{0x3f, 0xff, 0x0f}, // way past 16
	}
	for i, buf := range malformed {
		_, err := parseSparse(buf, 4)
		assert.Tf(t, isMalformed(err), "case %d: %v", i, err)
	}
}
