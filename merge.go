package hll

import "github.com/pkg/errors"

// Merge returns a new estimator whose registers are the pairwise maximum of a's and b's, i.e. the
// estimator of the union of both inputs. The result takes its hasher, logger and pending limit from
// a. Both inputs are flushed, which may promote them, but their registers are unchanged.
func Merge(a, b *Hll) (*Hll, error) {
	if a.p != b.p {
		return nil, errors.Wrapf(ErrPrecisionMismatch, "p=%d/%d", a.p, b.p)
	}
	out := a.Clone()
	if err := out.Combine(b); err != nil {
		return nil, err
	}
	return out, nil
}

// Combine merges other into h. This allows you to parallelize cardinality estimation: each
// goroutine can process a shard of the input, then the results can be merged later to give the
// cardinality of the entire data set (the union of the shards).
//
// The inputs must have the same p, otherwise ErrPrecisionMismatch is returned and neither is
// touched. other is flushed, and so may be converted to its dense representation.
func (h *Hll) Combine(other *Hll) error {
	if h.p != other.p {
		return errors.Wrapf(ErrPrecisionMismatch, "p=%d/%d", h.p, other.p)
	}

	h.mergeTmpSetIfAny()
	if h == other {
		return nil
	}
	other.mergeTmpSetIfAny()

	// If the other Hll is dense, then the union will be dense. If this Hll isn't also dense, do the
	// conversion now.
	if h.isSparse && !other.isSparse {
		h.switchToNormal()
	}

	if h.isSparse && other.isSparse { // Case 1: both inputs are sparse
		capBytes := h.sparseList.SizeInBytes()
		if n := other.sparseList.SizeInBytes(); n > capBytes {
			capBytes = n
		}
		h.sparseList = merge(h.m, capBytes, h.sparseList.registers(), other.sparseList.registers())
		h.maybePromote()
	} else if !other.isSparse { // Case 2: both inputs are dense
		h.bigM.mergeNormal(other.bigM)
	} else { // Case 3: h is dense, other is sparse
		it := other.sparseList.registers()
		for idx, r, ok := it(); ok; idx, r, ok = it() {
			h.bigM.setIfGreater(idx, r)
		}
	}
	return nil
}
