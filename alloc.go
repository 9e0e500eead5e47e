package solid

import (
	"math/bits"
	"sync"
)

// Allocator supplies the byte buffers an Archive hands out: decoded block
// caches and ReadFile results.
//
// Alloc returns a slice of length n whose contents are unspecified. Free
// returns a slice obtained from Alloc; callers must not use it afterwards.
type Allocator interface {
	Alloc(n int) []byte
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op.
type HeapAllocator struct{}

// Alloc implements Allocator.
func (HeapAllocator) Alloc(n int) []byte { return make([]byte, n) }

// Free implements Allocator.
func (HeapAllocator) Free([]byte) {}

const (
	minPoolShift = 12 // 4KB
	maxPoolShift = 26 // 64MB
)

// PoolAllocator recycles buffers in power-of-two size classes from 4KB to
// 64MB. Larger requests come from the heap and are dropped on Free.
//
// Reuse matters when many archives with similarly sized blocks are
// processed one after another. PoolAllocator is safe for concurrent use.
type PoolAllocator struct {
	classes [maxPoolShift - minPoolShift + 1]sync.Pool
}

// NewPoolAllocator returns an empty PoolAllocator.
func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{}
}

func poolClass(n int) (int, bool) {
	shift := minPoolShift
	if n > 1<<minPoolShift {
		shift = bits.Len(uint(n - 1))
	}
	if shift > maxPoolShift {
		return 0, false
	}
	return shift - minPoolShift, true
}

// Alloc implements Allocator.
func (p *PoolAllocator) Alloc(n int) []byte {
	class, ok := poolClass(n)
	if !ok {
		return make([]byte, n)
	}
	if bp, ok := p.classes[class].Get().(*[]byte); ok {
		return (*bp)[:n]
	}
	return make([]byte, n, 1<<(class+minPoolShift))
}

// Free implements Allocator. Slices whose capacity is not a pool class are ignored.
func (p *PoolAllocator) Free(b []byte) {
	c := cap(b)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	class, ok := poolClass(c)
	if !ok || 1<<(class+minPoolShift) != c {
		return
	}
	b = b[:c]
	p.classes[class].Put(&b)
}
