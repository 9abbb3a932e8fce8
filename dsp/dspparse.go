package dsp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

var ErrShortFile = errors.New("dsp: file shorter than its 96 byte header")

// Parse reads a container. The payload aliases data.
func Parse(data []byte) (*File, error) {
	if len(data) < HEADER_SIZE {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFile, len(data))
	}

	var result File

	result.Header.NumSamples = binary.BigEndian.Uint32(data[OFFSET_NUM_SAMPLES:])
	result.Header.NumNibbles = binary.BigEndian.Uint32(data[OFFSET_NUM_NIBBLES:])
	result.Header.SampleRate = binary.BigEndian.Uint32(data[OFFSET_SAMPLE_RATE:])
	result.Header.LoopFlag = binary.BigEndian.Uint16(data[OFFSET_LOOP_FLAG:])
	result.Header.Format = binary.BigEndian.Uint16(data[OFFSET_FORMAT:])
	result.Header.LoopStart = binary.BigEndian.Uint32(data[OFFSET_LOOP_START:])
	result.Header.LoopEnd = binary.BigEndian.Uint32(data[OFFSET_LOOP_END:])
	result.Header.Reserved = binary.BigEndian.Uint32(data[OFFSET_RESERVED:])
	copy(result.Header.Coefficients[:], data[OFFSET_COEFFICIENTS:COEFFICIENTS_END])
	result.Header.Gain = binary.BigEndian.Uint16(data[OFFSET_GAIN:])
	result.Header.PS = data[OFFSET_PREDICTOR]

	result.Payload = data[HEADER_SIZE:]

	return &result, nil
}

func ReadFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)

	if err != nil {
		return nil, err
	}

	return Parse(data)
}
