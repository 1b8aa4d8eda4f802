package demo

import (
	"math/rand/v2"
	"sync"

	"github.com/fwojciec/findmystore"
)

// Compile-time interface verification.
var _ findmystore.StockEstimator = (*Estimator)(nil)

// Simulated price pools.
var (
	EstimatePrices = []float64{79, 99, 129, 149, 179, 199, 249, 299, 349, 399, 899, 999}
	RestockPrices  = []float64{99, 129, 149, 199, 249, 299}
)

// MaxEstimatedQty is the largest simulated quantity.
const MaxEstimatedQty = 12

// Estimator simulates stock for live stores, which have no inventory feed.
type Estimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEstimator creates an Estimator. The same seed yields the same sequence.
func NewEstimator(seed uint64) *Estimator {
	return &Estimator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Estimate returns a quantity in [0, MaxEstimatedQty] and a price from EstimatePrices.
func (e *Estimator) Estimate(_ int64, _ string) (int, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(MaxEstimatedQty + 1), EstimatePrices[e.rng.IntN(len(EstimatePrices))]
}

// RestockPrice returns a price from RestockPrices.
func (e *Estimator) RestockPrice(_ string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return RestockPrices[e.rng.IntN(len(RestockPrices))]
}
