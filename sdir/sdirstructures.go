// Package sdir reads the sound directory chunk: a 16 byte header followed
// by one 64 byte descriptor per sample stored in the .samp file.
package sdir

import (
	"github.com/lambertjamesd/uberdsp/adpcm"
)

const HEADER_SIZE = 16
const RECORD_SIZE = 64

const MAGIC = "SDIR"

const OFFSET_COUNT = 0x0C

const (
	RECORD_SAMPLE_OFFSET = 0x00
	RECORD_NUM_NIBBLES   = 0x04
	RECORD_SAMPLE_RATE   = 0x0E
	RECORD_COEFFICIENTS  = 0x10
	RECORD_PS            = 0x33
)

type Record struct {
	Index        int
	SampleOffset uint32
	NumNibbles   uint32
	SampleRate   uint16
	Coefficients [adpcm.COEFFICIENT_BYTES]byte
	PS           uint8

	// The descriptor as stored, loop metadata and unknown fields included.
	Raw [RECORD_SIZE]byte
}

type Directory struct {
	Header  [HEADER_SIZE]byte
	Records []Record
}

// Empty slots have no nibbles.
func (record *Record) IsEmpty() bool {
	return record.NumNibbles == 0
}

func (record *Record) SampleCount() int {
	var result = adpcm.NibblesToSamples(record.NumNibbles)

	if result < 0 {
		return 0
	}

	return result
}

// DataOffset is where the record's ADPCM bytes start in the .samp file.
// Sample offsets count nibbles and are biased by the two header nibbles.
func (record *Record) DataOffset() uint32 {
	if record.SampleOffset < 2 {
		return 0
	}
	return (record.SampleOffset - 2) / 2
}

func (record *Record) DataLength() uint32 {
	return record.NumNibbles / 2
}

func (record *Record) Coefs() adpcm.Coefficients {
	return adpcm.MustParseCoefficients(record.Coefficients[:])
}

func (record *Record) Header() adpcm.FrameHeader {
	return adpcm.FrameHeader(record.PS)
}
