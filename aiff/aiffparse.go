package aiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/lambertjamesd/uberdsp/audioconvert"
)

func readExtended(reader io.Reader) (ExtendedFloat, error) {
	var exponent uint16
	err := binary.Read(reader, binary.BigEndian, &exponent)

	if err != nil {
		return ExtendedFloat{}, err
	}

	var mantissa uint64
	err = binary.Read(reader, binary.BigEndian, &mantissa)

	if err != nil {
		return ExtendedFloat{}, err
	}

	return ExtendedFloat{
		(exponent & 0x8000) != 0,
		exponent & 0x7FFF,
		mantissa,
	}, nil
}

func readPString(reader io.Reader) (string, error) {
	var len uint8
	err := binary.Read(reader, binary.BigEndian, &len)

	if err != nil {
		return "", err
	}

	var buffer = make([]byte, len)

	if _, err = io.ReadFull(reader, buffer); err != nil {
		return "", err
	}

	if len%2 == 0 {
		// read padding byte
		binary.Read(reader, binary.BigEndian, &len)
	}

	return string(buffer), nil
}

func parseCommonChunk(reader io.Reader, compressed bool) (*CommonChunk, error) {
	var result CommonChunk

	err := binary.Read(reader, binary.BigEndian, &result.NumChannels)

	if err != nil {
		return nil, err
	}

	err = binary.Read(reader, binary.BigEndian, &result.NumSampleFrames)

	if err != nil {
		return nil, err
	}

	err = binary.Read(reader, binary.BigEndian, &result.SampleSize)

	if err != nil {
		return nil, err
	}

	sampleRate, err := readExtended(reader)

	if err != nil {
		return nil, err
	}

	result.SampleRate = sampleRate

	if compressed {
		err = binary.Read(reader, binary.BigEndian, &result.CompressionType)

		if err != nil {
			return nil, err
		}

		compressionName, err := readPString(reader)

		if err != nil {
			return nil, err
		}

		result.CompressionName = compressionName
	}

	return &result, nil
}

func parseSoundDataChunk(reader io.Reader, chunkSize uint32) (*SoundDataChunk, error) {
	var result SoundDataChunk

	if chunkSize < 8 {
		return nil, fmt.Errorf("%w: SSND chunk of %d bytes", ErrInvalidHeader, chunkSize)
	}

	err := binary.Read(reader, binary.BigEndian, &result.Offset)

	if err != nil {
		return nil, err
	}

	err = binary.Read(reader, binary.BigEndian, &result.BlockSize)

	if err != nil {
		return nil, err
	}

	var data = make([]byte, chunkSize-8)

	if _, err = io.ReadFull(reader, data); err != nil {
		return nil, err
	}

	if int(result.Offset) > len(data) {
		return nil, fmt.Errorf("%w: SSND offset %d past %d bytes of data", ErrInvalidHeader, result.Offset, len(data))
	}

	result.WaveformData = data[result.Offset:]

	return &result, nil
}

func Parse(reader io.ReadSeeker) (*Aiff, error) {
	var result Aiff

	var id uint32

	err := binary.Read(reader, binary.BigEndian, &id)

	if err != nil {
		return nil, err
	}

	if id != FORM_HEADER {
		return nil, fmt.Errorf("%w: missing FORM header", ErrInvalidHeader)
	}

	var chunkSize uint32

	if err = binary.Read(reader, binary.BigEndian, &chunkSize); err != nil {
		return nil, err
	}

	if err = binary.Read(reader, binary.BigEndian, &id); err != nil {
		return nil, err
	}

	if id == AIFC {
		result.Compressed = true
	} else if id != AIFF {
		return nil, fmt.Errorf("%w: form type is not AIFF or AIFC", ErrInvalidHeader)
	}

	for {
		err = binary.Read(reader, binary.BigEndian, &id)

		if err != nil {
			break
		}

		if err = binary.Read(reader, binary.BigEndian, &chunkSize); err != nil {
			return nil, err
		}

		currPos, err := reader.Seek(0, io.SeekCurrent)

		if err != nil {
			return nil, err
		}

		switch id {
		case COMM:
			result.Common, err = parseCommonChunk(reader, result.Compressed)
		case SSND:
			result.SoundData, err = parseSoundDataChunk(reader, chunkSize)
		}

		if err != nil {
			return nil, err
		}

		// chunks are padded to an even length
		var next = currPos + int64(chunkSize) + int64(chunkSize&1)

		if _, err = reader.Seek(next, io.SeekStart); err != nil {
			return nil, err
		}
	}

	if result.Common == nil {
		return nil, fmt.Errorf("%w: no COMM chunk", ErrInvalidHeader)
	}

	return &result, nil
}

func ReadFile(filename string) (*Aiff, error) {
	data, err := os.ReadFile(filename)

	if err != nil {
		return nil, err
	}

	return Parse(bytes.NewReader(data))
}

// Samples returns the audio as mono 16 bit samples. Stereo input is mixed
// down by averaging, rounding toward negative infinity.
func (aiff *Aiff) Samples() ([]int16, error) {
	if aiff.Compressed && aiff.Common.CompressionType != NONE {
		return nil, fmt.Errorf("%w: compression type %#08x", ErrUnsupported, aiff.Common.CompressionType)
	}

	if aiff.Common.SampleSize != 16 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupported, aiff.Common.SampleSize)
	}

	var data []byte = nil

	if aiff.SoundData != nil {
		data = aiff.SoundData.WaveformData
	}

	var channels = int(aiff.Common.NumChannels)

	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}

	var frames = len(data) / (2 * channels)

	if aiff.Common.NumSampleFrames >= 0 && int(aiff.Common.NumSampleFrames) < frames {
		frames = int(aiff.Common.NumSampleFrames)
	}

	var interleaved = audioconvert.DecodeSamples(data[:frames*2*channels], binary.BigEndian)

	if channels == 1 {
		return interleaved, nil
	}

	var result = make([]int16, frames)

	for i := range result {
		result[i] = int16((int32(interleaved[i*2]) + int32(interleaved[i*2+1])) >> 1)
	}

	return result, nil
}
