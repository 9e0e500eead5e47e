package solid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/solid/codec"
	"github.com/meigma/solid/internal/testutil"
)

func TestEntryOptionalFields(t *testing.T) {
	t.Parallel()

	b := testutil.NewBuilder()
	blk := b.Block(codec.None)
	zero, mtime := uint64(0), ToFileTime(time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC))
	crcZero := uint32(0)

	bare := b.File("bare", []byte("x"), blk)
	bare.CRC = nil
	zeroed := b.File("zeroed", []byte("y"), blk)
	zeroed.CRC, zeroed.CTime, zeroed.MTime = &crcZero, &zero, &mtime

	a, _ := openTestArchive(t, b.Build(t), WithVerifyChecksums(false))

	e, err := a.Entry(0)
	require.NoError(t, err)
	_, ok := e.CRC32()
	assert.False(t, ok)
	_, ok = e.Created()
	assert.False(t, ok)
	_, ok = e.Modified()
	assert.False(t, ok)

	e, err = a.Entry(1)
	require.NoError(t, err)
	sum, ok := e.CRC32()
	assert.True(t, ok)
	assert.Zero(t, sum)
	created, ok := e.Created()
	assert.True(t, ok)
	assert.Equal(t, time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC), created)
	modified, ok := e.Modified()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC), modified)
}

func TestEntryNames(t *testing.T) {
	t.Parallel()

	b := testutil.NewBuilder()
	blk := b.Block(codec.None)
	b.File("emoji 😀.txt", []byte("a"), blk)
	b.File("Grüße/文件.txt", []byte("b"), blk)
	unpaired := b.File("", []byte("c"), blk)
	unpaired.Name = []uint16{0xd800, 'a'}
	nul := b.File("", []byte("d"), blk)
	nul.Name = []uint16{'a', 0, 'b'}

	a, _ := openTestArchive(t, b.Build(t))

	names := make([]string, 0, a.Len())
	for _, e := range a.Entries() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"emoji 😀.txt", "Grüße/文件.txt", "�a", "a\x00b"}, names)

	e, err := a.Entry(0)
	require.NoError(t, err)
	raw := e.RawName()
	assert.Len(t, raw, len("emoji ")+2+len(".txt"), "surrogate pair is two code units")
	raw[0] = 'X'
	assert.Equal(t, "emoji 😀.txt", e.Name(), "RawName returns a copy")

	e, err = a.Entry(2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0xd800, 'a'}, e.RawName())
}

func TestEntryLocation(t *testing.T) {
	t.Parallel()

	a, _ := openTestArchive(t, threeEntryArchive(t))

	e, err := a.Entry(1)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Index())
	assert.Equal(t, BlockID(0), e.Block())
	assert.Equal(t, uint64(5), e.Offset())
	assert.False(t, e.IsDir())

	e, err = a.Entry(2)
	require.NoError(t, err)
	assert.True(t, e.IsDir())
	assert.Zero(t, e.Size())
	assert.Equal(t, NoBlock, e.Block())
}

func TestFileTime(t *testing.T) {
	t.Parallel()

	const unixEpochTicks = 116_444_736_000_000_000

	assert.Equal(t, time.Unix(0, 0).UTC(), FromFileTime(unixEpochTicks))
	assert.Equal(t, uint64(unixEpochTicks), ToFileTime(time.Unix(0, 0)))
	assert.Equal(t, time.Unix(1, 100).UTC(), FromFileTime(unixEpochTicks+10_000_001))

	now := time.Date(2025, 6, 30, 8, 15, 42, 123_456_700, time.UTC)
	assert.Equal(t, now, FromFileTime(ToFileTime(now)))

	assert.Zero(t, ToFileTime(time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)))
}
