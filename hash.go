package hll

import "github.com/lytics/hll/v2/hasher"

// Hasher maps an arbitrary value to a 64-bit digest. Estimates are only as good as the uniformity
// of the hash; any well-distributed 64-bit hash works.
type Hasher interface {
	Hash64(data []byte) uint64
}

var defaultHasher Hasher = hasher.XXHash
