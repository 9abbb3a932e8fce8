package uber

import "encoding/binary"

// Assemble lays chunks out behind a preamble and an offset table that
// ReadOffsetTable reads back. Each chunk's tag is whatever its first four
// bytes already are.
func Assemble(preamble [OFFSET_TABLE_START]byte, chunks [][]byte) []byte {
	var tableEnd = OFFSET_TABLE_START + 4*len(chunks)

	if len(chunks) == 0 {
		tableEnd = OFFSET_TABLE_START + 4
	}

	var size = tableEnd

	for _, chunk := range chunks {
		size += len(chunk)
	}

	var result = make([]byte, size)
	copy(result, preamble[:])

	if len(chunks) == 0 {
		binary.BigEndian.PutUint32(result[OFFSET_TABLE_START:], uint32(tableEnd))
		return result
	}

	var offset = tableEnd

	for index, chunk := range chunks {
		binary.BigEndian.PutUint32(result[OFFSET_TABLE_START+4*index:], uint32(offset))
		copy(result[offset:], chunk)
		offset += len(chunk)
	}

	return result
}

// EncodeTag is the inverse of DecodeTag for four character ASCII tags.
func EncodeTag(tag string) [TAG_SIZE]byte {
	var result [TAG_SIZE]byte

	for i := 0; i < TAG_SIZE && i < len(tag); i++ {
		result[TAG_SIZE-1-i] = tag[i]
	}

	return result
}
