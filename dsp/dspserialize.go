package dsp

import (
	"encoding/binary"
	"io"
)

func (header *Header) put(out []byte) {
	binary.BigEndian.PutUint32(out[OFFSET_NUM_SAMPLES:], header.NumSamples)
	binary.BigEndian.PutUint32(out[OFFSET_NUM_NIBBLES:], header.NumNibbles)
	binary.BigEndian.PutUint32(out[OFFSET_SAMPLE_RATE:], header.SampleRate)
	binary.BigEndian.PutUint16(out[OFFSET_LOOP_FLAG:], header.LoopFlag)
	binary.BigEndian.PutUint16(out[OFFSET_FORMAT:], header.Format)
	binary.BigEndian.PutUint32(out[OFFSET_LOOP_START:], header.LoopStart)
	binary.BigEndian.PutUint32(out[OFFSET_LOOP_END:], header.LoopEnd)
	binary.BigEndian.PutUint32(out[OFFSET_RESERVED:], header.Reserved)
	copy(out[OFFSET_COEFFICIENTS:COEFFICIENTS_END], header.Coefficients[:])
	binary.BigEndian.PutUint16(out[OFFSET_GAIN:], header.Gain)
	out[OFFSET_PREDICTOR-1] = 0
	out[OFFSET_PREDICTOR] = header.PS
}

func (file *File) Bytes() []byte {
	var result = make([]byte, file.Size())
	file.Header.put(result)
	copy(result[HEADER_SIZE:], file.Payload)
	return result
}

func (file *File) Serialize(out io.Writer) error {
	_, err := out.Write(file.Bytes())
	return err
}

// Build lays out a standalone container: the 96 byte header followed by
// payload. Loop fields are always zero and coefficients shorter than 32
// bytes are zero-filled.
func Build(sampleCount uint32, nibbleCount uint32, sampleRate uint32, coefficients []byte, ps uint8, payload []byte) []byte {
	var file = File{
		Header: Header{
			NumSamples: sampleCount,
			NumNibbles: nibbleCount,
			SampleRate: sampleRate,
			Reserved:   RESERVED_FIELD_VALUE,
			PS:         ps,
		},
		Payload: payload,
	}

	copy(file.Header.Coefficients[:], coefficients)

	return file.Bytes()
}
