package solid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/solid/codec"
	"github.com/meigma/solid/internal/testutil"
)

// countingAllocator records Alloc and Free calls on top of the heap.
type countingAllocator struct {
	mu     sync.Mutex
	allocs int
	frees  int
	sizes  []int
}

func (c *countingAllocator) Alloc(n int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allocs++
	c.sizes = append(c.sizes, n)
	return make([]byte, n)
}

func (c *countingAllocator) Free([]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frees++
}

func TestHeapAllocator(t *testing.T) {
	t.Parallel()

	var h HeapAllocator
	b := h.Alloc(10)
	assert.Len(t, b, 10)
	h.Free(b)
}

func TestPoolAllocator(t *testing.T) {
	t.Parallel()

	p := NewPoolAllocator()

	tests := []struct {
		n       int
		wantCap int
	}{
		{0, 4096},
		{100, 4096},
		{4096, 4096},
		{4097, 8192},
		{1 << 20, 1 << 20},
		{1<<26 + 1, 1<<26 + 1},
	}
	for _, tt := range tests {
		b := p.Alloc(tt.n)
		assert.Len(t, b, tt.n)
		assert.Equal(t, tt.wantCap, cap(b), "n=%d", tt.n)
		p.Free(b)
	}

	// Foreign slices are ignored.
	p.Free(make([]byte, 3000))
	p.Free(nil)

	b := p.Alloc(5000)
	assert.Len(t, b, 5000)
	assert.Equal(t, 8192, cap(b))
}

func TestArchiveAllocatorBalance(t *testing.T) {
	t.Parallel()

	b := testutil.NewBuilder()
	b0 := b.Block(codec.Zstd)
	b1 := b.Block(codec.S2)
	b.File("a", []byte("block zero"), b0)
	b.File("b", []byte("block one"), b1)
	alloc := &countingAllocator{}
	a, _ := openTestArchive(t, b.Build(t), WithAllocator(alloc))

	first, err := a.ReadFile(0)
	require.NoError(t, err)
	assert.Equal(t, 2, alloc.allocs, "block cache and result buffer")

	second, err := a.ReadFile(1)
	require.NoError(t, err)
	assert.Equal(t, 1, alloc.frees, "the replaced block is released before the next is opened")

	a.Release(first)
	a.Release(second)
	require.NoError(t, a.Close())

	assert.Equal(t, alloc.allocs, alloc.frees)
	assert.Equal(t, []int{10, 10, 9, 9}, alloc.sizes)
}

func TestArchiveWithPoolAllocator(t *testing.T) {
	t.Parallel()

	a, _ := openTestArchive(t, threeEntryArchive(t), WithAllocator(NewPoolAllocator()))

	for range 3 {
		got, err := a.ReadFile(1)
		require.NoError(t, err)
		assert.Equal(t, "world", string(got))
		a.Release(got)
	}
}
