package adpcm

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrShortCoefficients = errors.New("adpcm: coefficient table shorter than 32 bytes")

// ParseCoefficients reads eight big-endian (coef1, coef2) pairs.
func ParseCoefficients(data []byte) (Coefficients, error) {
	var result Coefficients

	if len(data) < COEFFICIENT_BYTES {
		return result, fmt.Errorf("%w: got %d", ErrShortCoefficients, len(data))
	}

	for predictor := 0; predictor < PREDICTOR_COUNT; predictor = predictor + 1 {
		result[predictor].Coef1 = int16(binary.BigEndian.Uint16(data[predictor*4:]))
		result[predictor].Coef2 = int16(binary.BigEndian.Uint16(data[predictor*4+2:]))
	}

	return result, nil
}

// MustParseCoefficients is ParseCoefficients for tables already known to be
// the right size. Short input is zero-filled.
func MustParseCoefficients(data []byte) Coefficients {
	var padded [COEFFICIENT_BYTES]byte
	copy(padded[:], data)
	result, _ := ParseCoefficients(padded[:])
	return result
}

func (coefs Coefficients) Bytes() [COEFFICIENT_BYTES]byte {
	var result [COEFFICIENT_BYTES]byte

	for predictor, pair := range coefs {
		binary.BigEndian.PutUint16(result[predictor*4:], uint16(pair.Coef1))
		binary.BigEndian.PutUint16(result[predictor*4+2:], uint16(pair.Coef2))
	}

	return result
}
