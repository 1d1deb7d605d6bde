// Package hasher provides 64-bit hash functions suitable for feeding an hll.Hll.
package hasher

import (
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"
)

const (
	NameXXHash  = "xxhash"
	NameMurmur3 = "murmur3"
)

// Func adapts a plain function to the hll.Hasher interface.
type Func func(data []byte) uint64

func (f Func) Hash64(data []byte) uint64 {
	return f(data)
}

// XXHash is the default hasher: unseeded 64-bit xxHash.
var XXHash = Func(xxhash.Sum64)

// Murmur3 returns the 64-bit half of murmur3-128 with the given seed. Distinct seeds give
// independent hash families, which is what repeated accuracy trials need.
func Murmur3(seed uint32) Func {
	return func(data []byte) uint64 {
		return murmur3.Sum64WithSeed(data, seed)
	}
}

// ByName resolves a configured hash name. An empty name selects xxhash. xxhash is unseeded, so
// asking for it with a non-zero seed is an error rather than a silently ignored setting.
func ByName(name string, seed uint32) (Func, error) {
	switch name {
	case "", NameXXHash:
		if seed != 0 {
			return nil, errors.Errorf("hasher: %s does not take a seed (got %d)", NameXXHash, seed)
		}
		return XXHash, nil
	case NameMurmur3:
		return Murmur3(seed), nil
	default:
		return nil, errors.Errorf("hasher: unknown hash %q", name)
	}
}
