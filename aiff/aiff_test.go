package aiff

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestExtendedRoundTrip(t *testing.T) {
	for _, rate := range []float64{0, 8000, 22050, 32000, 44100, 48000} {
		if got := F64FromExtended(ExtendedFromF64(rate)); got != rate {
			t.Errorf("%v came back as %v", rate, got)
		}
	}
}

func TestMonoFileRoundTrip(t *testing.T) {
	var samples = []int16{0, 1, -1, 32767, -32768, 1234, -4321}
	var filename = filepath.Join(t.TempDir(), "sound.aiff")

	if err := WriteFile(filename, NewMono(samples, 32000)); err != nil {
		t.Fatal(err)
	}

	parsed, err := ReadFile(filename)

	if err != nil {
		t.Fatal(err)
	}

	if parsed.SampleRate() != 32000 {
		t.Errorf("sample rate %d", parsed.SampleRate())
	}

	decoded, err := parsed.Samples()

	if err != nil {
		t.Fatal(err)
	}

	if len(decoded) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(decoded), len(samples))
	}

	for i := range samples {
		if decoded[i] != samples[i] {
			t.Errorf("sample %d = %d, want %d", i, decoded[i], samples[i])
		}
	}
}

func TestStereoDownmix(t *testing.T) {
	var file = &Aiff{
		Common: &CommonChunk{
			NumChannels:     2,
			NumSampleFrames: 2,
			SampleSize:      16,
			SampleRate:      ExtendedFromF64(22050),
		},
		SoundData: &SoundDataChunk{
			// (3, -4) and (-1, -2)
			WaveformData: []byte{0, 3, 0xff, 0xfc, 0xff, 0xff, 0xff, 0xfe},
		},
	}

	var buffer bytes.Buffer

	if err := file.Serialize(&buffer); err != nil {
		t.Fatal(err)
	}

	parsed, err := Parse(bytes.NewReader(buffer.Bytes()))

	if err != nil {
		t.Fatal(err)
	}

	samples, err := parsed.Samples()

	if err != nil {
		t.Fatal(err)
	}

	if len(samples) != 2 || samples[0] != -1 || samples[1] != -2 {
		t.Errorf("got %v, want [-1 -2]", samples)
	}
}

func TestCompressedFiles(t *testing.T) {
	var file = NewMono([]int16{5, 6}, 16000)
	file.Compressed = true
	file.Common.CompressionType = NONE
	file.Common.CompressionName = "not compressed"

	var buffer bytes.Buffer

	if err := file.Serialize(&buffer); err != nil {
		t.Fatal(err)
	}

	parsed, err := Parse(bytes.NewReader(buffer.Bytes()))

	if err != nil {
		t.Fatal(err)
	}

	if parsed.Common.CompressionName != "not compressed" {
		t.Errorf("compression name %q", parsed.Common.CompressionName)
	}

	if samples, err := parsed.Samples(); err != nil || len(samples) != 2 || samples[1] != 6 {
		t.Errorf("got %v, %v", samples, err)
	}

	parsed.Common.CompressionType = 0x56415043

	if _, err := parsed.Samples(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want ErrUnsupported", err)
	}
}

func TestParseRejectsOtherForms(t *testing.T) {
	if _, err := Parse(bytes.NewReader([]byte("RIFF\x00\x00\x00\x04WAVE"))); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("got %v, want ErrInvalidHeader", err)
	}

	if _, err := Parse(bytes.NewReader([]byte("FORM\x00\x00\x00\x04TEXT"))); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("got %v, want ErrInvalidHeader", err)
	}
}
