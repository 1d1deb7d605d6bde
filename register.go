package hll

import "math/bits"

// registerRank splits a hash into the register it addresses and the rank it contributes. The top p
// bits pick the register. The rank is the 1-based position of the first set bit in the remaining
// 64-p bits; a sentinel bit at position p-1 of the shifted remainder bounds it at 65-p.
func registerRank(x uint64, p uint8) (index uint32, rank uint8) {
	index = uint32(extract(x, 64, 64-uint(p)))
	remainder := (x << p) | (1 << (p - 1))
	rank = uint8(bits.LeadingZeros64(remainder)) + 1
	if limit := maxRank(p); rank > limit {
		rank = limit
	}
	return index, rank
}

// maxRank is the largest rank a register can hold at precision p.
func maxRank(p uint8) uint8 {
	return 65 - p
}
