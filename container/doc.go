// Package container reads SOLID v1 archive files.
//
// A SOLID file has three parts:
//   - Header: 32 fixed bytes at offset 0 naming the index location
//   - Blocks: packed solid blocks, each holding the concatenated bytes of one or more entries
//   - Index: FlatBuffers table of blocks and entries (schema/index.fbs)
//
// [Reader] is the metadata reader used by the solid package. The [Index] it
// returns is both the entry table and the block decoder for the file.
package container
