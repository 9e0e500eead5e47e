package codec

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecoderMemory is the default zstd decoder memory ceiling (256MB).
const DefaultMaxDecoderMemory = 256 << 20

var defaultPool = NewPool(DefaultMaxDecoderMemory)

// Pool manages reusable zstd decoders.
//
// Solid blocks are decoded one after another, so a single warm decoder is
// usually enough; the pool keeps that decoder's tables between blocks.
type Pool struct {
	pool             *sync.Pool
	maxDecoderMemory uint64
	lowmem           bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithLowmem enables low-memory mode for pooled decoders.
func WithLowmem(enabled bool) PoolOption {
	return func(p *Pool) {
		p.lowmem = enabled
	}
}

// NewPool creates a zstd decoder pool.
// If maxMemory is 0, no memory limit is applied to decoders.
func NewPool(maxMemory uint64, opts ...PoolOption) *Pool {
	p := &Pool{maxDecoderMemory: maxMemory}
	for _, opt := range opts {
		opt(p)
	}
	p.pool = &sync.Pool{
		New: func() any {
			dec, err := p.newDecoder(nil)
			if err != nil {
				return nil
			}
			return dec
		},
	}
	return p
}

// Get returns a decoder reading from r and a release function that must be
// called when the caller is done with it. On error no release is needed.
func (p *Pool) Get(r io.Reader) (*zstd.Decoder, func(), error) {
	dec, ok := p.pool.Get().(*zstd.Decoder)
	if !ok || dec == nil {
		// New failed or the pool is cold; build a one-off decoder.
		dec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	}

	if err := dec.Reset(r); err != nil {
		dec.Close()
		dec, err = p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	}

	return dec, func() {
		_ = dec.Reset(nil) //nolint:errcheck // clearing state before pool return
		p.pool.Put(dec)
	}, nil
}

func (p *Pool) newDecoder(r io.Reader) (*zstd.Decoder, error) {
	opts := []zstd.DOption{
		// Blocks are consumed on the caller's goroutine; no background decoding.
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(p.lowmem),
	}
	if p.maxDecoderMemory != 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(p.maxDecoderMemory))
	}
	return zstd.NewReader(r, opts...)
}
