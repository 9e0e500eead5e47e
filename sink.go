package solid

import (
	"fmt"
	"hash"
	"io"
)

// sink receives an entry's bytes in order, one decoded range at a time.
type sink interface {
	write(p []byte) error
}

// bufferSink copies into a buffer allocated once with the entry's exact size.
type bufferSink struct {
	buf []byte
	n   int
}

func (s *bufferSink) write(p []byte) error {
	if len(p) > len(s.buf)-s.n {
		return fmt.Errorf("%w: entry produced more than %d bytes", ErrDecode, len(s.buf))
	}
	s.n += copy(s.buf[s.n:], p)
	return nil
}

// streamSink forwards each range to w as soon as it is decoded.
type streamSink struct {
	w io.Writer
	n int64
}

func (s *streamSink) write(p []byte) error {
	n, err := s.w.Write(p)
	s.n += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// checksumSink hashes everything passed on to the wrapped sink.
type checksumSink struct {
	sink
	h hash.Hash32
}

func (s checksumSink) write(p []byte) error {
	s.h.Write(p) //nolint:errcheck // hash.Hash never errors
	return s.sink.write(p)
}
