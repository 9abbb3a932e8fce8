package aiff

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/lambertjamesd/uberdsp/audioconvert"
)

func writeExtended(out *bytes.Buffer, val ExtendedFloat) {
	var exponent = val.Exponent & 0x7FFF

	if val.Sign {
		exponent |= 0x8000
	}

	binary.Write(out, binary.BigEndian, exponent)
	binary.Write(out, binary.BigEndian, val.Mantissa)
}

func writePString(out *bytes.Buffer, value string) {
	out.WriteByte(uint8(len(value)))
	out.WriteString(value)

	if len(value)%2 == 0 {
		out.WriteByte(0)
	}
}

func (commonChunk *CommonChunk) serialize(compressed bool) *bytes.Buffer {
	var result bytes.Buffer

	binary.Write(&result, binary.BigEndian, commonChunk.NumChannels)
	binary.Write(&result, binary.BigEndian, commonChunk.NumSampleFrames)
	binary.Write(&result, binary.BigEndian, commonChunk.SampleSize)
	writeExtended(&result, commonChunk.SampleRate)

	if compressed {
		binary.Write(&result, binary.BigEndian, commonChunk.CompressionType)
		writePString(&result, commonChunk.CompressionName)
	}

	return &result
}

func (soundData *SoundDataChunk) serialize() *bytes.Buffer {
	var result bytes.Buffer

	binary.Write(&result, binary.BigEndian, uint32(0))
	binary.Write(&result, binary.BigEndian, soundData.BlockSize)
	result.Write(soundData.WaveformData)

	return &result
}

type chunkData struct {
	header uint32
	data   *bytes.Buffer
}

func (aiff *Aiff) Serialize(writer io.Writer) error {
	var chunks = []chunkData{
		{COMM, aiff.Common.serialize(aiff.Compressed)},
	}

	if aiff.SoundData != nil {
		chunks = append(chunks, chunkData{SSND, aiff.SoundData.serialize()})
	}

	var totalLength uint32 = 4

	for _, chunk := range chunks {
		totalLength += 8 + uint32(chunk.data.Len()) + uint32(chunk.data.Len()&1)
	}

	var formType uint32 = AIFF

	if aiff.Compressed {
		formType = AIFC
	}

	var header = []uint32{FORM_HEADER, totalLength, formType}

	if err := binary.Write(writer, binary.BigEndian, header); err != nil {
		return err
	}

	for _, chunk := range chunks {
		var chunkHeader = []uint32{chunk.header, uint32(chunk.data.Len())}

		if err := binary.Write(writer, binary.BigEndian, chunkHeader); err != nil {
			return err
		}

		if chunk.data.Len()%2 != 0 {
			chunk.data.WriteByte(0)
		}

		if _, err := writer.Write(chunk.data.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

// NewMono wraps 16 bit samples in an uncompressed single channel AIFF.
func NewMono(samples []int16, sampleRate uint32) *Aiff {
	var data = audioconvert.EncodeSamples(samples, binary.BigEndian)

	return &Aiff{
		Common: &CommonChunk{
			NumChannels:     1,
			NumSampleFrames: int32(len(samples)),
			SampleSize:      16,
			SampleRate:      ExtendedFromF64(float64(sampleRate)),
		},
		SoundData: &SoundDataChunk{
			WaveformData: data,
		},
	}
}

func WriteFile(filename string, aiff *Aiff) error {
	var buffer bytes.Buffer

	if err := aiff.Serialize(&buffer); err != nil {
		return err
	}

	return os.WriteFile(filename, buffer.Bytes(), 0664)
}
