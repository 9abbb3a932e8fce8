package sdir

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var ErrFormat = errors.New("sdir: not a sound directory")

func reversed(data []byte) string {
	var result = make([]byte, len(data))

	for i, b := range data {
		result[len(data)-1-i] = b
	}

	return string(result)
}

func ParseRecord(index int, data []byte) Record {
	var result Record

	result.Index = index
	copy(result.Raw[:], data)

	result.SampleOffset = binary.BigEndian.Uint32(result.Raw[RECORD_SAMPLE_OFFSET:])
	result.NumNibbles = binary.BigEndian.Uint32(result.Raw[RECORD_NUM_NIBBLES:])
	result.SampleRate = binary.BigEndian.Uint16(result.Raw[RECORD_SAMPLE_RATE:])
	copy(result.Coefficients[:], result.Raw[RECORD_COEFFICIENTS:])
	result.PS = result.Raw[RECORD_PS]

	return result
}

// Parse reads every record in the directory, empty ones included. A
// directory cut short of its record count keeps the records it has: a
// trailing partial record is zero-filled and missing records are left out,
// since they would read back empty.
func Parse(data []byte) (*Directory, error) {
	if len(data) < HEADER_SIZE {
		return nil, fmt.Errorf("%w: %d byte header", ErrFormat, len(data))
	}

	if magic := reversed(data[0:4]); magic != MAGIC {
		return nil, fmt.Errorf("%w: magic %q", ErrFormat, magic)
	}

	var result Directory

	copy(result.Header[:], data)

	var count = binary.BigEndian.Uint32(data[OFFSET_COUNT:])
	var body = data[HEADER_SIZE:]

	var present = uint64(count)

	if present*RECORD_SIZE > uint64(len(body)) {
		present = (uint64(len(body)) + RECORD_SIZE - 1) / RECORD_SIZE

		logrus.WithFields(logrus.Fields{
			"declared": count,
			"present":  present,
			"bytes":    len(body),
		}).Warn("sound directory is shorter than its record count")
	}

	result.Records = make([]Record, present)

	for i := range result.Records {
		var end = min((i+1)*RECORD_SIZE, len(body))
		result.Records[i] = ParseRecord(i, body[i*RECORD_SIZE:end])
	}

	return &result, nil
}
