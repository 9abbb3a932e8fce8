package sdir

import (
	"encoding/binary"
	"io"
)

// Bytes writes the parsed fields over the stored descriptor.
func (record *Record) Bytes() [RECORD_SIZE]byte {
	var result = record.Raw

	binary.BigEndian.PutUint32(result[RECORD_SAMPLE_OFFSET:], record.SampleOffset)
	binary.BigEndian.PutUint32(result[RECORD_NUM_NIBBLES:], record.NumNibbles)
	binary.BigEndian.PutUint16(result[RECORD_SAMPLE_RATE:], record.SampleRate)
	copy(result[RECORD_COEFFICIENTS:], record.Coefficients[:])
	result[RECORD_PS] = record.PS

	return result
}

func (directory *Directory) Bytes() []byte {
	var result = make([]byte, HEADER_SIZE, HEADER_SIZE+RECORD_SIZE*len(directory.Records))

	copy(result, directory.Header[:])

	for i := 0; i < 4; i++ {
		result[i] = MAGIC[3-i]
	}

	binary.BigEndian.PutUint32(result[OFFSET_COUNT:], uint32(len(directory.Records)))

	for i := range directory.Records {
		var record = directory.Records[i].Bytes()
		result = append(result, record[:]...)
	}

	return result
}

func (directory *Directory) Serialize(out io.Writer) error {
	_, err := out.Write(directory.Bytes())
	return err
}
