package solid

import (
	"time"
	"unicode/utf16"
)

// Entry describes one archive member.
//
// Entry values are immutable; they are built once when the archive is
// opened and copied out on every access.
type Entry struct {
	index   int
	name    string
	rawName []uint16
	size    uint64
	isDir   bool

	crc    uint32
	hasCRC bool

	ctime    uint64
	hasCTime bool
	mtime    uint64
	hasMTime bool

	block  BlockID
	offset uint64
}

// newEntry decodes a raw record. Unpaired surrogates decode to U+FFFD;
// embedded NULs are preserved.
func newEntry(index int, rec *Record) Entry {
	raw := make([]uint16, len(rec.Name))
	copy(raw, rec.Name)
	return Entry{
		index:    index,
		name:     string(utf16.Decode(raw)),
		rawName:  raw,
		size:     rec.Size,
		isDir:    rec.IsDir,
		crc:      rec.CRC32,
		hasCRC:   rec.HasCRC32,
		ctime:    rec.CTime,
		hasCTime: rec.HasCTime,
		mtime:    rec.MTime,
		hasMTime: rec.HasMTime,
		block:    rec.Block,
		offset:   rec.Offset,
	}
}

// Index returns the entry's position in the archive.
func (e Entry) Index() int { return e.index }

// Name returns the decoded entry name.
func (e Entry) Name() string { return e.name }

// RawName returns a copy of the UTF-16 code units the name was stored as.
func (e Entry) RawName() []uint16 {
	out := make([]uint16, len(e.rawName))
	copy(out, e.rawName)
	return out
}

// Size returns the exact uncompressed payload length. Directories report 0.
func (e Entry) Size() uint64 { return e.size }

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.isDir }

// CRC32 returns the recorded IEEE checksum of the payload.
// ok is false when the container recorded none.
func (e Entry) CRC32() (sum uint32, ok bool) { return e.crc, e.hasCRC }

// Created returns the creation time. ok is false when unrecorded.
func (e Entry) Created() (t time.Time, ok bool) {
	if !e.hasCTime {
		return time.Time{}, false
	}
	return FromFileTime(e.ctime), true
}

// Modified returns the modification time. ok is false when unrecorded.
func (e Entry) Modified() (t time.Time, ok bool) {
	if !e.hasMTime {
		return time.Time{}, false
	}
	return FromFileTime(e.mtime), true
}

// Block returns the solid block holding the payload.
// It is meaningless for directories and empty files.
func (e Entry) Block() BlockID { return e.block }

// Offset returns the payload's byte offset within its decoded block.
func (e Entry) Offset() uint64 { return e.offset }

// FILETIME counts 100ns ticks since 1601-01-01 UTC.
const (
	fileTimeTicksPerSecond = 10_000_000
	fileTimeUnixOffset     = 11_644_473_600 // seconds from 1601 to 1970
)

// FromFileTime converts NTFS FILETIME ticks to a UTC time.
func FromFileTime(ticks uint64) time.Time {
	sec := int64(ticks/fileTimeTicksPerSecond) - fileTimeUnixOffset //nolint:gosec // max ticks/1e7 fits int64
	nsec := int64(ticks%fileTimeTicksPerSecond) * 100                //nolint:gosec // < 1e9
	return time.Unix(sec, nsec).UTC()
}

// ToFileTime converts t to NTFS FILETIME ticks. Times before 1601 map to 0.
func ToFileTime(t time.Time) uint64 {
	sec := t.Unix() + fileTimeUnixOffset
	if sec < 0 {
		return 0
	}
	return uint64(sec)*fileTimeTicksPerSecond + uint64(t.Nanosecond()/100) //nolint:gosec // sec checked above
}
