package audioconvert

import (
	"encoding/binary"
)

func EncodeSamples(data []int16, order binary.ByteOrder) []byte {
	var result = make([]byte, len(data)*2)

	for index, val := range data {
		order.PutUint16(result[index*2:], uint16(val))
	}

	return result
}

func DecodeSamples(data []byte, order binary.ByteOrder) []int16 {
	var result = make([]int16, len(data)/2)

	for index := range result {
		result[index] = int16(order.Uint16(data[index*2:]))
	}

	return result
}
