package aiff

import (
	"errors"
	"math"
)

const FORM_HEADER = 0x464F524D

const AIFC = 0x41494643
const AIFF = 0x41494646

const COMM = 0x434F4D4D
const SSND = 0x53534E44

// Uncompressed AIFC data.
const NONE = 0x4E4F4E45

var (
	ErrInvalidHeader = errors.New("aiff: invalid header")
	ErrUnsupported   = errors.New("aiff: unsupported sample format")
)

// Sign * 1.Mantissa * pow(2, Exponent - 0x3FFF)
type ExtendedFloat struct {
	Sign     bool
	Exponent uint16
	Mantissa uint64
}

type CommonChunk struct {
	NumChannels     int16
	NumSampleFrames int32
	SampleSize      int16
	SampleRate      ExtendedFloat
	CompressionType uint32
	CompressionName string
}

type SoundDataChunk struct {
	Offset       uint32
	BlockSize    uint32
	WaveformData []byte
}

type Aiff struct {
	Compressed bool
	Common     *CommonChunk
	SoundData  *SoundDataChunk
}

func ExtendedFromF64(val float64) ExtendedFloat {
	if val == 0 {
		return ExtendedFloat{}
	}

	var asInt = math.Float64bits(val)

	var sign = asInt & 0x8000000000000000
	var exponent = (asInt ^ sign) >> 52
	var mantissa = asInt & 0xFFFFFFFFFFFFF

	exponent = exponent + 0x3FFF - 1023

	mantissa = 0x8000000000000000 | (mantissa << (63 - 52))

	return ExtendedFloat{
		sign != 0,
		uint16(exponent),
		mantissa,
	}
}

func F64FromExtended(val ExtendedFloat) float64 {
	if val.Exponent == 0 && val.Mantissa == 0 {
		return 0
	}

	var sign float64 = 1

	if val.Sign {
		sign = -1
	}

	var mant = float64(val.Mantissa) / math.Pow(2, 63)

	return sign * mant * math.Pow(2, float64(val.Exponent)-0x3FFF)
}

func (aiff *Aiff) SampleRate() uint32 {
	if aiff.Common == nil {
		return 0
	}

	return uint32(math.Round(F64FromExtended(aiff.Common.SampleRate)))
}
