//go:generate flatc --go --go-namespace fb -o internal schema/index.fbs

// Package solid provides read-only access to solid-block archives.
//
// A solid archive packs the bytes of many entries into a few compressed
// blocks. Decoding a block is expensive compared to copying a range out of
// it, so an [Archive] keeps the most recently decoded block and serves every
// entry of that block from memory. Extracting entries in on-disk order
// decodes each block exactly once.
//
// Archives are opened with [Open] (a path on an afero filesystem) or
// [OpenSource] (any io.ReaderAt). The container format is pluggable through
// [MetadataReader] and [BlockDecoder]; the default is the SOLID v1 format
// implemented by the container subpackage.
//
// # Extraction
//
//	a, err := solid.Open("site.solid")
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//	for i, e := range a.Entries() {
//	    if e.IsDir() {
//	        continue
//	    }
//	    data, err := a.ReadFile(i)
//	    ...
//	}
//
// An Archive is not safe for concurrent use. Distinct Archives share no state.
package solid
