package hll

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	// MinPrecision and MaxPrecision bound p, the log2 of the register count.
	MinPrecision = 4
	MaxPrecision = 18
)

// Hll is a HyperLogLog distinct-count estimator. It starts out sparse and is promoted to a dense
// register array once the sparse list stops saving space.
//
// An Hll is not safe for concurrent use. Reads flush pending sparse updates and may promote, so
// even Estimate mutates; guard a shared Hll with a single sync.Mutex.
type Hll struct {
	bigM         normal           // Used for the dense case. nil while sparse.
	sparseList   *sparse          // This will be nil if isSparse==false.
	tempSet      map[uint32]uint8 // Pending sparse updates: register index -> largest rank seen.
	alpha        float64          // constant used in cardinality calculation
	isSparse     bool
	p            uint8
	m            uint32
	pendingLimit int // merge the temp set into the sparse list once it holds more entries
	hasher       Hasher
	logger       log.Logger
}

// New returns an empty sparse estimator with 2^p registers. p must be in [4,18].
func New(p uint8, opts ...Option) (*Hll, error) {
	if err := checkPrecision(p); err != nil {
		return nil, err
	}
	h := newShell(p, opts)
	h.sparseList = newSparse(h.m)
	return h, nil
}

// newShell sets up everything but the register storage.
func newShell(p uint8, opts []Option) *Hll {
	h := &Hll{
		p:        p,
		m:        1 << p,
		isSparse: true,
		tempSet:  map[uint32]uint8{},
		hasher:   defaultHasher,
		logger:   log.NewNopLogger(),
	}
	h.alpha = alpha(h.m)
	for _, opt := range opts {
		opt(h)
	}
	if h.pendingLimit <= 0 {
		h.pendingLimit = defaultPendingLimit(h.m)
	}
	return h
}

// When the temp set reaches roughly 2.3% of the register count, merge it into the sparse list.
func defaultPendingLimit(m uint32) int {
	limit := int(m) * 3 / 128
	if limit < 16 {
		limit = 16
	}
	return limit
}

// The sparse list is abandoned once it reaches half the size of the dense array. Equal-rank runs
// keep even a completely filled sparse list below m bytes, so m itself is not a usable cutoff.
func sparseMaxBytes(m uint32) int {
	return int(m / 2)
}

// Add hashes value with the configured Hasher and records it.
func (h *Hll) Add(value []byte) {
	h.AddHash(h.hasher.Hash64(value))
}

func (h *Hll) AddString(s string) {
	h.Add([]byte(s))
}

// AddHash records a precomputed 64-bit hash. The hash should be uniformly distributed; the accuracy
// guarantees do not hold otherwise.
func (h *Hll) AddHash(x uint64) {
	idx, r := registerRank(x, h.p)
	if h.isSparse {
		h.addSparse(idx, r)
	} else {
		h.bigM.setIfGreater(idx, r)
	}
}

func (h *Hll) addSparse(idx uint32, r uint8) {
	if cur, ok := h.tempSet[idx]; !ok || r > cur {
		h.tempSet[idx] = r
	}
	if len(h.tempSet) > h.pendingLimit {
		h.mergeTmpSetIfAny()
	}
}

// Flush merges pending sparse updates into the sparse list, promoting to dense if the list has
// grown too large. Every read does this implicitly.
func (h *Hll) Flush() {
	h.mergeTmpSetIfAny()
}

func (h *Hll) mergeTmpSetIfAny() {
	if !h.isSparse || len(h.tempSet) == 0 {
		return
	}
	pending := sortedPending(h.tempSet)
	h.sparseList = merge(h.m, h.sparseList.SizeInBytes()+len(pending), h.sparseList.registers(),
		makePendingIt(pending))
	h.tempSet = make(map[uint32]uint8, h.pendingLimit)
	h.maybePromote()
}

func (h *Hll) maybePromote() {
	if h.isSparse && h.sparseList.SizeInBytes() >= sparseMaxBytes(h.m) {
		h.switchToNormal()
	}
}

func (h *Hll) switchToNormal() {
	level.Debug(h.logger).Log("msg", "promoting sparse registers to dense", "p", h.p,
		"sparse_bytes", h.sparseList.SizeInBytes(), "nonzero", h.sparseList.GetNumNonZero())
	h.isSparse = false
	h.bigM = toNormal(h.sparseList)
	h.sparseList = nil
	h.tempSet = nil
}

// IsSparse reports whether the registers are still held in the sparse list.
func (h *Hll) IsSparse() bool {
	h.mergeTmpSetIfAny()
	return h.isSparse
}

func (h *Hll) Precision() uint8 {
	return h.p
}

func (h *Hll) NumRegisters() uint32 {
	return h.m
}

// Registers returns a copy of the logical register array, one rank per index.
func (h *Hll) Registers() []uint8 {
	h.mergeTmpSetIfAny()
	if h.isSparse {
		return toNormal(h.sparseList)
	}
	return h.bigM.Copy()
}

// Clone returns a deep copy. Pending updates are flushed first so the copy carries none.
func (h *Hll) Clone() *Hll {
	h.mergeTmpSetIfAny()
	cp := *h
	cp.bigM = h.bigM.Copy()
	cp.sparseList = h.sparseList.Copy()
	if h.isSparse {
		cp.tempSet = map[uint32]uint8{}
	}
	return &cp
}
