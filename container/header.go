package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the encoded size of Header.
const HeaderSize = 32

// Version is the only container version this package reads.
const Version = 1

// Magic identifies SOLID files.
var Magic = [6]byte{'S', 'O', 'L', 'I', 'D', 0x1a}

// Header errors.
var (
	// ErrBadMagic is returned when a file does not start with Magic.
	ErrBadMagic = errors.New("container: not a solid archive")

	// ErrUnsupportedVersion is returned for container versions other than Version.
	ErrUnsupportedVersion = errors.New("container: unsupported version")
)

// Header is the fixed-size file prefix.
type Header struct {
	Version     uint16
	IndexOffset uint64
	IndexSize   uint64
	// IndexCRC is the IEEE CRC32 of the index bytes.
	IndexCRC uint32
}

// MarshalBinary encodes h in its on-disk little-endian form.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	copy(buf, Magic[:])
	binary.LittleEndian.PutUint16(buf[6:], h.Version)
	binary.LittleEndian.PutUint64(buf[8:], h.IndexOffset)
	binary.LittleEndian.PutUint64(buf[16:], h.IndexSize)
	binary.LittleEndian.PutUint32(buf[24:], h.IndexCRC)
	return buf, nil
}

// UnmarshalBinary decodes and validates an on-disk header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: short header (%d bytes)", ErrBadMagic, len(data))
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return ErrBadMagic
	}
	h.Version = binary.LittleEndian.Uint16(data[6:])
	if h.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	h.IndexOffset = binary.LittleEndian.Uint64(data[8:])
	h.IndexSize = binary.LittleEndian.Uint64(data[16:])
	h.IndexCRC = binary.LittleEndian.Uint32(data[24:])
	return nil
}
