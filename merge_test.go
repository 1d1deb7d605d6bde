package hll

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/pkg/errors"
)

func filled(t *testing.T, p uint8, count int) *Hll {
	h := mustNew(t, p)
	for _, x := range randUint64s(t, count) {
		h.AddHash(x)
	}
	return h
}

func TestMergePrecisionMismatch(t *testing.T) {
	a := filled(t, 10, 50)
	b := filled(t, 11, 50)
	aBefore, bBefore := a.Encode(), b.Encode()

	out, err := Merge(a, b)
	assert.T(t, out == nil)
	assert.T(t, errors.Is(err, ErrPrecisionMismatch), err)

	err = a.Combine(b)
	assert.T(t, errors.Is(err, ErrPrecisionMismatch), err)

	assert.Equal(t, aBefore, a.Encode())
	assert.Equal(t, bBefore, b.Encode())
}

func TestMergeCases(t *testing.T) {
	const p = 10
	testCases := []struct {
		name         string
		aN, bN       int
		expectSparse bool
	}{
		{"sparse+sparse", 40, 60, true},
		{"sparse+dense", 40, 20000, false},
		{"dense+sparse", 20000, 40, false},
		{"dense+dense", 20000, 30000, false},
	}

	for _, testCase := range testCases {
		a := filled(t, p, testCase.aN)
		b := filled(t, p, testCase.bN)
		aRegs, bRegs := a.Registers(), b.Registers()

		merged, err := Merge(a, b)
		assert.Equalf(t, nil, err, "%s: %v", testCase.name, err)
		assert.Equalf(t, testCase.expectSparse, merged.IsSparse(), "%s", testCase.name)

		expected := normal(aRegs).Copy()
		expected.mergeNormal(bRegs)
		assert.Equalf(t, []uint8(expected), merged.Registers(), "%s", testCase.name)

		// The inputs keep their registers.
		assert.Equalf(t, aRegs, a.Registers(), "%s", testCase.name)
		assert.Equalf(t, bRegs, b.Registers(), "%s", testCase.name)
	}
}

func TestMergeCommutativeAssociative(t *testing.T) {
	const p = 9
	a := filled(t, p, 30)    // sparse
	b := filled(t, p, 5000)  // dense
	c := filled(t, p, 120)   // sparse
	d := filled(t, p, 15000) // dense

	for _, pair := range [][2]*Hll{{a, b}, {a, c}, {b, d}, {c, d}} {
		ab, err := Merge(pair[0], pair[1])
		assert.Equal(t, nil, err)
		ba, err := Merge(pair[1], pair[0])
		assert.Equal(t, nil, err)
		assert.Equal(t, ab.Registers(), ba.Registers())
		assert.Equal(t, ab.Estimate(), ba.Estimate())
	}

	for _, triple := range [][3]*Hll{{a, b, c}, {a, c, d}, {c, a, b}} {
		x, y, z := triple[0], triple[1], triple[2]
		xy, _ := Merge(x, y)
		left, _ := Merge(xy, z)
		yz, _ := Merge(y, z)
		right, _ := Merge(x, yz)
		assert.Equal(t, left.Registers(), right.Registers())
	}
}

func TestMergeIdentity(t *testing.T) {
	for _, count := range []int{0, 25, 200, 20000} {
		h := filled(t, 11, count)
		empty := mustNew(t, 11)

		merged, err := Merge(h, empty)
		assert.Equal(t, nil, err)
		assert.Equal(t, h.Registers(), merged.Registers())
		assert.Equal(t, h.Encode(), merged.Encode())

		merged, err = Merge(empty, h)
		assert.Equal(t, nil, err)
		assert.Equal(t, h.Registers(), merged.Registers())
	}
}

func TestCombineSparseUnionPromotes(t *testing.T) {
	// Registers 0-63 and 64-127 alternate between rank 1 and 2, one VAL opcode each. Either half
	// is about 66 bytes, under the 128 byte limit for p=8; the union is about 130.
	a := mustNew(t, 8)
	b := mustNew(t, 8)
	for i := uint64(0); i < 64; i++ {
		a.AddHash(i<<56 | 1<<(56-(i%2+1)))
		b.AddHash((i+64)<<56 | 1<<(56-(i%2+1)))
	}
	assert.T(t, a.IsSparse())
	assert.T(t, b.IsSparse())

	err := a.Combine(b)
	assert.Equal(t, nil, err)
	assert.T(t, !a.IsSparse())
	for i, r := range a.Registers() {
		if i < 128 {
			assert.Equal(t, uint8(i%2+1), r)
		} else {
			assert.Equal(t, uint8(0), r)
		}
	}
}

func TestCombineSelf(t *testing.T) {
	h := filled(t, 10, 300)
	before := h.Registers()
	assert.Equal(t, nil, h.Combine(h))
	assert.Equal(t, before, h.Registers())
}
