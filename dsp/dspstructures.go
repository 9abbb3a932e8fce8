package dsp

import "github.com/lambertjamesd/uberdsp/adpcm"

const HEADER_SIZE = 0x60

const (
	OFFSET_NUM_SAMPLES   = 0x00
	OFFSET_NUM_NIBBLES   = 0x04
	OFFSET_SAMPLE_RATE   = 0x08
	OFFSET_LOOP_FLAG     = 0x0C
	OFFSET_FORMAT        = 0x0E
	OFFSET_LOOP_START    = 0x10
	OFFSET_LOOP_END      = 0x14
	OFFSET_RESERVED      = 0x18
	OFFSET_COEFFICIENTS  = 0x1C
	OFFSET_GAIN          = 0x3C
	OFFSET_PREDICTOR     = 0x3F
	COEFFICIENTS_END     = OFFSET_COEFFICIENTS + adpcm.COEFFICIENT_BYTES
	RESERVED_FIELD_VALUE = 2
)

type Header struct {
	NumSamples   uint32
	NumNibbles   uint32
	SampleRate   uint32
	LoopFlag     uint16
	Format       uint16
	LoopStart    uint32
	LoopEnd      uint32
	Reserved     uint32
	Coefficients [adpcm.COEFFICIENT_BYTES]byte
	Gain         uint16
	PS           uint8
}

type File struct {
	Header  Header
	Payload []byte
}

func (header *Header) Coefs() adpcm.Coefficients {
	return adpcm.MustParseCoefficients(header.Coefficients[:])
}

// Size is the length of the serialized file.
func (file *File) Size() int {
	return HEADER_SIZE + len(file.Payload)
}
