package hll

import "math"

const (
	alpha_16 = 0.673
	alpha_32 = 0.697
	alpha_64 = 0.709

	two32 = float64(1 << 32)
)

func alpha(m uint32) float64 {
	switch m {
	case 16:
		return alpha_16
	case 32:
		return alpha_32
	case 64:
		return alpha_64
	default:
		return 0.7213 / (1.0 + 1.079/float64(m))
	}
}

// Estimate returns the estimated number of distinct values added so far.
func (h *Hll) Estimate() float64 {
	// Pending updates must be folded in first; they are invisible to both register layouts.
	h.mergeTmpSetIfAny()

	if h.isSparse {
		return estimate(h.alpha, h.m, h.sparseList.sumInverses(), h.sparseList.countZeros())
	}
	return estimate(h.alpha, h.m, h.bigM.sumInverses(), h.bigM.countZeros())
}

// Cardinality returns Estimate rounded to the nearest integer.
func (h *Hll) Cardinality() uint64 {
	return roundFloatToUint64(h.Estimate())
}

// estimate applies the harmonic-mean estimator to Z = sum(2^-M[j]) and V zero registers, with the
// small and large range corrections.
func estimate(alpha float64, m uint32, z float64, v uint32) float64 {
	fm := float64(m)
	e := alpha * fm * fm / z

	if e <= 2.5*fm && v > 0 {
		return linearCounting(m, v)
	}
	if e > two32/30 && e < two32 {
		return -two32 * math.Log(1-e/two32)
	}
	return e
}

// Returns linear counting cardinality estimate.
func linearCounting(m, v uint32) float64 {
	return float64(m) * math.Log(float64(m)/float64(v))
}

func roundFloatToUint64(value float64) uint64 {
	return uint64(math.Round(value))
}
