package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lambertjamesd/uberdsp/audioconvert"
)

func parseHeader(reader io.Reader, header *WaveHeader) error {
	return binary.Read(reader, binary.LittleEndian, header)
}

func Parse(reader io.ReadSeeker) (*Wave, error) {
	var result Wave

	var header uint32
	err := binary.Read(reader, binary.BigEndian, &header)

	if err != nil {
		return nil, err
	}

	if header != RIFF_HEADER {
		return nil, fmt.Errorf("%w: missing RIFF tag", ErrInvalidHeader)
	}

	var chunkSize uint32
	if err = binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
		return nil, err
	}

	if err = binary.Read(reader, binary.BigEndian, &header); err != nil {
		return nil, err
	}

	if header != WAVE_FORMAT {
		return nil, fmt.Errorf("%w: missing WAVE tag", ErrInvalidHeader)
	}

	var hasHeader = false
	var hasData = false

	for !hasHeader || !hasData {
		err = binary.Read(reader, binary.BigEndian, &header)

		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrInvalidHeader)
		} else if err != nil {
			return nil, err
		}

		if err = binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, err
		}

		startPos, err := reader.Seek(0, io.SeekCurrent)

		if err != nil {
			return nil, err
		}

		if header == FORMAT_HEADER {
			if err = parseHeader(reader, &result.Header); err != nil {
				return nil, err
			}
			hasHeader = true
		} else if header == DATA_HEADER {
			result.Data = make([]byte, chunkSize)
			n, err := io.ReadFull(reader, result.Data)

			// a truncated data chunk keeps what was written
			if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
				return nil, err
			}
			result.Data = result.Data[:n]
			hasData = true
		}

		// chunks are padded to an even length
		if _, err = reader.Seek(startPos+int64(chunkSize)+int64(chunkSize&1), io.SeekStart); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

func ReadFile(filename string) (*Wave, error) {
	data, err := os.ReadFile(filename)

	if err != nil {
		return nil, err
	}

	return Parse(bytes.NewReader(data))
}

// Samples returns the audio as mono 16 bit samples. Stereo input is mixed
// down by averaging, rounding toward negative infinity.
func (wave *Wave) Samples() ([]int16, error) {
	if wave.Header.Format != FORMAT_PCM || wave.Header.BitsPerSample != 16 {
		return nil, fmt.Errorf("%w: format %d with %d bits per sample", ErrUnsupported, wave.Header.Format, wave.Header.BitsPerSample)
	}

	switch wave.Header.NChannels {
	case 1:
		return audioconvert.DecodeSamples(wave.Data, binary.LittleEndian), nil
	case 2:
		var result = make([]int16, len(wave.Data)/4)

		for i := range result {
			var left = int32(int16(binary.LittleEndian.Uint16(wave.Data[i*4:])))
			var right = int32(int16(binary.LittleEndian.Uint16(wave.Data[i*4+2:])))
			result[i] = int16((left + right) >> 1)
		}

		return result, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, wave.Header.NChannels)
	}
}
