package hll

import (
	"encoding/base64"
	"encoding/json"

	"github.com/go-kit/log/level"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// Encoded layout: one precision byte, one mode byte, then the body. A dense body is exactly 2^p
// register bytes; a sparse body is the opcode stream described in sparse.go.
const (
	modeDense  byte = 0
	modeSparse byte = 1

	headerLen = 2
)

// Encode serializes the estimator. Pending updates are flushed first.
func (h *Hll) Encode() []byte {
	h.mergeTmpSetIfAny()

	mode, body := h.body()
	buf := make([]byte, headerLen, headerLen+len(body))
	buf[0], buf[1] = h.p, mode
	return append(buf, body...)
}

// The flushed mode and body. The body aliases internal storage.
func (h *Hll) body() (byte, []byte) {
	if h.isSparse {
		return modeSparse, h.sparseList.buf
	}
	return modeDense, h.bigM
}

// Decode reconstructs an estimator from the output of Encode. Anything that does not describe
// exactly 2^p in-range registers is rejected with ErrMalformedEncoding; no partial estimator is
// returned.
func Decode(buf []byte, opts ...Option) (*Hll, error) {
	if len(buf) < headerLen {
		return nil, errors.Wrapf(ErrMalformedEncoding, "%d byte input is shorter than the header", len(buf))
	}
	return decodeBody(buf[0], buf[1], buf[headerLen:], opts)
}

func decodeBody(p, mode byte, body []byte, opts []Option) (*Hll, error) {
	if err := checkPrecision(p); err != nil {
		return nil, errors.Wrap(ErrMalformedEncoding, err.Error())
	}

	h := newShell(p, opts)
	switch mode {
	case modeDense:
		if len(body) != int(h.m) {
			return nil, errors.Wrapf(ErrMalformedEncoding, "dense body is %d bytes, want %d", len(body), h.m)
		}
		for i, r := range body {
			if r > maxRank(p) {
				return nil, errors.Wrapf(ErrMalformedEncoding, "register %d holds rank %d, max %d", i, r, maxRank(p))
			}
		}
		h.isSparse = false
		h.bigM = normal(body).Copy()
		h.tempSet = nil
	case modeSparse:
		s, err := parseSparse(body, p)
		if err != nil {
			return nil, err
		}
		h.sparseList = s
		if s.SizeInBytes() >= sparseMaxBytes(h.m) {
			level.Warn(h.logger).Log("msg", "decoded sparse list exceeds size limit", "p", p,
				"sparse_bytes", s.SizeInBytes(), "limit", sparseMaxBytes(h.m))
		}
		h.maybePromote()
	default:
		return nil, errors.Wrapf(ErrMalformedEncoding, "unknown mode %d", mode)
	}
	return h, nil
}

// MarshalBinary implements encoding.BinaryMarshaler, which also makes an Hll usable with gob.
func (h *Hll) MarshalBinary() ([]byte, error) {
	return h.Encode(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. A hasher or logger already set on h is
// kept.
func (h *Hll) UnmarshalBinary(buf []byte) error {
	rt, err := Decode(buf, h.carriedOptions()...)
	if err != nil {
		return err
	}
	*h = *rt
	return nil
}

// Options that survive an in-place unmarshal.
func (h *Hll) carriedOptions() []Option {
	return []Option{WithHasher(h.hasher), WithLogger(h.logger)}
}

// When marshalling an Hll to JSON, we only marshal a subset of its fields.
type jsonableHll struct {
	BigM       string `json:"M,omitempty"`
	SparseList string `json:"s,omitempty"`
	P          uint8  `json:"p"`
}

// Convert the Hll struct into JSON. The register body is snappy-compressed and URL-safe base64
// encoded.
func (h *Hll) MarshalJSON() ([]byte, error) {
	// Combine tmpSet with sparse list. This saves serializing the tmpSet, which saves space.
	h.mergeTmpSetIfAny()

	mode, body := h.body()
	compressed, err := snappyB64(body)
	if err != nil {
		return nil, err
	}

	j := jsonableHll{P: h.p}
	if mode == modeSparse {
		j.SparseList = string(compressed)
	} else {
		j.BigM = string(compressed)
	}
	return json.Marshal(&j)
}

// Unmarshals JSON byte-array into a Hll struct.
func (h *Hll) UnmarshalJSON(buf []byte) error {
	j := jsonableHll{}
	if err := json.Unmarshal(buf, &j); err != nil {
		return errors.Wrap(ErrMalformedEncoding, err.Error())
	}

	var mode byte
	var encoded string
	switch {
	case j.BigM != "" && j.SparseList != "":
		return errors.Wrap(ErrMalformedEncoding, "both dense and sparse registers present")
	case j.BigM != "":
		mode, encoded = modeDense, j.BigM
	case j.SparseList != "":
		mode, encoded = modeSparse, j.SparseList
	default:
		return errors.Wrap(ErrMalformedEncoding, "no registers present")
	}

	body, err := unsnappyB64([]byte(encoded))
	if err != nil {
		return errors.Wrap(ErrMalformedEncoding, err.Error())
	}

	rt, err := decodeBody(j.P, mode, body, h.carriedOptions())
	if err != nil {
		return err
	}
	*h = *rt
	return nil
}

// Compress the input using snappy and encode the result using URL-safe base64.
func snappyB64(in []byte) ([]byte, error) {
	compressed := snappy.Encode(nil, in)
	outBuf := make([]byte, base64.URLEncoding.EncodedLen(len(compressed)))
	base64.URLEncoding.Encode(outBuf, compressed)
	return outBuf, nil
}

// The inverse of snappyB64.
func unsnappyB64(in []byte) ([]byte, error) {
	unBase64ed := make([]byte, base64.URLEncoding.DecodedLen(len(in)))
	n, err := base64.URLEncoding.Decode(unBase64ed, in)
	if err != nil {
		return nil, err
	}

	uncompressed, err := snappy.Decode(nil, unBase64ed[:n])
	if err != nil {
		return nil, err
	}

	// The snappy library returns nil when the output length is zero.
	if uncompressed == nil {
		uncompressed = []byte{}
	}
	return uncompressed, nil
}
