package hll

// Bit manipulation functions

const all1s uint64 = 1<<64 - 1

// Return a mask with the low n bits set. n >= 64 yields all ones; 1<<64 is never computed.
func lowOnes(n uint) uint64 {
	if n >= 64 {
		return all1s
	}
	return all1s >> (64 - n)
}

// Return bits x[lo:hi), shifted into the low order bits of the result.
// lo and hi must satisfy 0 <= lo <= hi <= 64.
func extract(x uint64, hi, lo uint) uint64 {
	if hi <= lo {
		return 0
	}
	return (x >> lo) & lowOnes(hi-lo)
}
