// Package bloom deduplicates imported URLs with a Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is used by NewFilter when fpRate is not positive.
const DefaultFalsePositiveRate = 0.001

// Filter is a concurrency-safe Bloom filter over strings. A false positive
// makes a new key look seen; a seen key is never reported as new.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected keys.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	if fpRate <= 0 {
		fpRate = DefaultFalsePositiveRate
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Seen records key and reports whether it was probably recorded before.
func (f *Filter) Seen(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAddString(key)
}

// Add records key.
func (f *Filter) Add(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(key)
}
