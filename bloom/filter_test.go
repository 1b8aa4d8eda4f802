package bloom_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/findmystore/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	t.Run("reports repeats", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(100, 0.001)

		assert.False(t, f.Seen("https://smartmart.example/offers"))
		assert.True(t, f.Seen("https://smartmart.example/offers"))
		assert.False(t, f.Seen("https://smartmart.example/stores"))
	})

	t.Run("added keys are seen", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(100, 0.001)
		f.Add("https://medicare.example/")
		assert.True(t, f.Seen("https://medicare.example/"))
	})

	t.Run("zero size and rate use defaults", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(0, 0)
		assert.False(t, f.Seen("a"))
		assert.True(t, f.Seen("a"))
	})

	t.Run("one caller wins under concurrency", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.001)
		var fresh atomic.Int32
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !f.Seen("https://medicare.example/flyer") {
					fresh.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), fresh.Load())
	})

	t.Run("no false negatives", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(500, 0.01)
		for i := range 500 {
			f.Add(fmt.Sprintf("https://example.com/page/%d", i))
		}
		for i := range 500 {
			assert.True(t, f.Seen(fmt.Sprintf("https://example.com/page/%d", i)))
		}
	})
}
