package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocator_StartsAtOne(t *testing.T) {
	a := NewAllocator()
	assert.Equal(t, 0, a.Last())
	assert.Equal(t, 1, a.Peek())
	assert.Equal(t, 1, a.Next())
	assert.Equal(t, 2, a.Next())
	assert.Equal(t, 2, a.Last())
}

func TestAllocator_StrictlyIncreasing(t *testing.T) {
	a := NewAllocator()
	prev := 0
	for i := 0; i < 500; i++ {
		id := a.Next()
		if id <= prev {
			t.Fatalf("id %d is not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestAllocatorFrom_ContinuesAfterMax(t *testing.T) {
	a := NewAllocatorFrom(215)
	assert.Equal(t, 215, a.Last())
	assert.Equal(t, 216, a.Next())
}

func TestAllocatorFrom_NegativeSeedClamped(t *testing.T) {
	a := NewAllocatorFrom(-4)
	assert.Equal(t, 1, a.Next())
}
