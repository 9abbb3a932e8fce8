package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/lambertjamesd/uberdsp/audioconvert"
)

func generateHeader(header *WaveHeader) []byte {
	var result bytes.Buffer

	binary.Write(&result, binary.LittleEndian, header)

	return result.Bytes()
}

func (wave *Wave) Serialize(out io.Writer) error {
	var header = generateHeader(&wave.Header)

	var headStore uint32
	var chunkSize uint32

	headStore = RIFF_HEADER
	err := binary.Write(out, binary.BigEndian, &headStore)

	if err != nil {
		return err
	}

	chunkSize = uint32(len(header) + len(wave.Data) + 20)
	binary.Write(out, binary.LittleEndian, &chunkSize)

	headStore = WAVE_FORMAT
	binary.Write(out, binary.BigEndian, &headStore)

	headStore = FORMAT_HEADER
	binary.Write(out, binary.BigEndian, &headStore)
	chunkSize = uint32(len(header))
	binary.Write(out, binary.LittleEndian, &chunkSize)
	out.Write(header)

	headStore = DATA_HEADER
	binary.Write(out, binary.BigEndian, &headStore)
	chunkSize = uint32(len(wave.Data))
	binary.Write(out, binary.LittleEndian, &chunkSize)
	_, err = out.Write(wave.Data)
	return err
}

// NewMono wraps 16 bit samples in a single channel PCM wave.
func NewMono(samples []int16, sampleRate uint32) *Wave {
	var data = audioconvert.EncodeSamples(samples, binary.LittleEndian)

	return &Wave{
		Header: WaveHeader{
			Format:        FORMAT_PCM,
			NChannels:     1,
			SampleRate:    sampleRate,
			ByteRate:      sampleRate * 2,
			BlockAlign:    2,
			BitsPerSample: 16,
		},
		Data: data,
	}
}

func WriteFile(filename string, wave *Wave) error {
	var buffer bytes.Buffer

	if err := wave.Serialize(&buffer); err != nil {
		return err
	}

	return os.WriteFile(filename, buffer.Bytes(), 0664)
}
