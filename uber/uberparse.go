package uber

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func readUint32(reader io.ReaderAt, at int64) (uint32, error) {
	var buffer [4]byte

	if _, err := reader.ReadAt(buffer[:], at); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: reading offset at %#x", ErrShortTable, at)
		}
		return 0, err
	}

	return binary.BigEndian.Uint32(buffer[:]), nil
}

// ReadOffsetTable reads big-endian chunk offsets starting at byte 8. The
// first offset is also where the table ends, so entries are read until the
// read position reaches it. The archive size is appended as a final entry.
func ReadOffsetTable(reader io.ReaderAt, size int64) ([]uint32, error) {
	if size > math.MaxUint32 {
		return nil, ErrTooLarge
	}

	var position int64 = OFFSET_TABLE_START

	first, err := readUint32(reader, position)

	if err != nil {
		return nil, err
	}

	position += 4

	var result = []uint32{first}

	for position < int64(first) {
		offset, err := readUint32(reader, position)

		if err != nil {
			return nil, err
		}

		result = append(result, offset)
		position += 4
	}

	return append(result, uint32(size)), nil
}

// DecodeTag turns the first bytes of a chunk into its lower-case tag. Tags
// that are not ASCII decode to "" and never match.
func DecodeTag(data []byte) string {
	if len(data) > TAG_SIZE {
		data = data[:TAG_SIZE]
	}

	var reversed = make([]byte, len(data))

	for i, b := range data {
		if b >= 0x80 {
			return ""
		}
		reversed[len(data)-1-i] = b
	}

	return cases.Lower(language.Und).String(string(reversed))
}

func NewArchive(reader io.ReaderAt, size int64) (*Archive, error) {
	offsets, err := ReadOffsetTable(reader, size)

	if err != nil {
		return nil, err
	}

	return &Archive{
		Offsets: offsets,
		reader:  reader,
		size:    size,
	}, nil
}

func Open(filename string) (*Archive, error) {
	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	info, err := file.Stat()

	if err != nil {
		file.Close()
		return nil, err
	}

	archive, err := NewArchive(file, info.Size())

	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	archive.closer = file

	return archive, nil
}

// Chunks lists the chunk extents between consecutive table entries. A
// chunk that would start past the end of the archive, or end before it
// starts, ends the listing.
func (archive *Archive) Chunks() ([]Chunk, error) {
	var result []Chunk = nil

	for i := 0; i+1 < len(archive.Offsets); i++ {
		var start = archive.Offsets[i]
		var end = archive.Offsets[i+1]

		if int64(start) >= archive.size || end < start {
			break
		}

		var head = make([]byte, min(TAG_SIZE, end-start))

		if _, err := archive.reader.ReadAt(head, int64(start)); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		result = append(result, Chunk{
			Index: i,
			Start: start,
			End:   end,
			Tag:   DecodeTag(head),
		})
	}

	return result, nil
}

func (archive *Archive) ReadChunk(chunk Chunk) ([]byte, error) {
	var result = make([]byte, chunk.Size())

	n, err := archive.reader.ReadAt(result, int64(chunk.Start))

	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return result[:n], nil
}

// Chunk returns the contents of the first chunk whose tag matches,
// ignoring case.
func (archive *Archive) Chunk(tag string) ([]byte, error) {
	chunks, err := archive.Chunks()

	if err != nil {
		return nil, err
	}

	var want = cases.Lower(language.Und).String(tag)

	for _, chunk := range chunks {
		if chunk.Tag != "" && chunk.Tag == want {
			return archive.ReadChunk(chunk)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, tag)
}

// ExtractChunk opens filename and returns the first chunk tagged tag.
func ExtractChunk(filename string, tag string) ([]byte, error) {
	archive, err := Open(filename)

	if err != nil {
		return nil, err
	}

	defer archive.Close()

	return archive.Chunk(tag)
}
