// Package uber reads the chunked .uber archive that carries a game's sound
// directory. The archive starts with a table of chunk offsets; chunks are
// tagged by their first four bytes, stored reversed.
package uber

import (
	"errors"
	"io"
)

// The offset table begins after an 8 byte preamble.
const OFFSET_TABLE_START = 8

const TAG_SIZE = 4

const SDIR_TAG = "sdir"

var (
	ErrNotFound   = errors.New("uber: no chunk with that tag")
	ErrShortTable = errors.New("uber: offset table runs past end of file")
	ErrTooLarge   = errors.New("uber: archive larger than 4GiB")
)

type Chunk struct {
	Index int
	Start uint32
	End   uint32
	Tag   string
}

func (chunk Chunk) Size() uint32 {
	return chunk.End - chunk.Start
}

type Archive struct {
	// Chunk start offsets in table order, followed by the archive size.
	Offsets []uint32

	reader io.ReaderAt
	closer io.Closer
	size   int64
}

func (archive *Archive) Size() int64 {
	return archive.size
}

func (archive *Archive) Close() error {
	if archive.closer == nil {
		return nil
	}
	return archive.closer.Close()
}
