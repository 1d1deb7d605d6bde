package hll

import "math"

// Precomputed 2^-r for every rank a register can hold.
var inversePow [66]float64

func init() {
	for r := range inversePow {
		inversePow[r] = math.Ldexp(1, -r)
	}
}

// normal is the dense register array: one byte per register, holding the largest rank seen.
type normal []byte

func newNormal(numRegisters uint32) normal {
	return make(normal, numRegisters)
}

// This function assumes that registerIdx is within range. It may panic if not.
func (n normal) Get(registerIdx uint32) uint8 {
	return n[registerIdx]
}

func (n normal) setIfGreater(registerIdx uint32, val uint8) {
	if val > n[registerIdx] {
		n[registerIdx] = val
	}
}

func (n normal) Copy() normal {
	if n == nil {
		return nil
	}
	out := make(normal, len(n))
	copy(out, n)
	return out
}

// sumInverses returns Z = sum(2^-M[j]) over every register.
func (n normal) sumInverses() float64 {
	z := float64(0)
	for _, r := range n {
		z += inversePow[r]
	}
	return z
}

func (n normal) countZeros() uint32 {
	var v uint32
	for _, r := range n {
		if r == 0 {
			v++
		}
	}
	return v
}

// Fold another dense array into this one, keeping the larger value at every index.
func (n normal) mergeNormal(other normal) {
	for i, r := range other {
		if r > n[i] {
			n[i] = r
		}
	}
}
