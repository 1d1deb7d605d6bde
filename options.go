package hll

import "github.com/go-kit/log"

// Option configures an Hll at construction or decode time.
type Option func(*Hll)

// WithHasher replaces the default xxhash-based Hasher used by Add and AddString.
func WithHasher(hs Hasher) Option {
	return func(h *Hll) {
		if hs != nil {
			h.hasher = hs
		}
	}
}

// WithLogger sets the logger used for promotion and decode diagnostics.
func WithLogger(l log.Logger) Option {
	return func(h *Hll) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithPendingLimit sets how many pending sparse updates are buffered before they are merged into
// the sparse list. Values <= 0 select the default.
func WithPendingLimit(n int) Option {
	return func(h *Hll) {
		h.pendingLimit = n
	}
}
