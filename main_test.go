package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lambertjamesd/uberdsp/adpcm"
	"github.com/lambertjamesd/uberdsp/dsp"
	"github.com/lambertjamesd/uberdsp/sdir"
	"github.com/lambertjamesd/uberdsp/uber"
	"github.com/lambertjamesd/uberdsp/wav"
)

func TestMain(m *testing.M) {
	cmdRoot.AddCommand(&cmdList, &cmdExtract, &cmdRebuild, &cmdSdir, &cmdDecode, &cmdEncode)
	bindFlags()
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmdRoot.SetArgs(args)
	return cmdRoot.Execute()
}

func TestDecodeEncode(t *testing.T) {
	var dir = t.TempDir()

	var coefficients = make([]byte, adpcm.COEFFICIENT_BYTES)
	// predictor 1 is (2048, 0): the next sample repeats the last
	coefficients[4] = 0x08

	var samples = make([]int16, 50)
	for i := range samples {
		samples[i] = int16(i * 300)
	}

	var payload = adpcm.Encode(samples, adpcm.MustParseCoefficients(coefficients))
	var reference = dsp.Build(uint32(len(samples)), uint32(len(payload)*2), 32000, coefficients, 0x10, payload)
	var referencePath = filepath.Join(dir, "reference.dsp")

	if err := os.WriteFile(referencePath, reference, 0o644); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"decoded.wav", "decoded.aiff"} {
		t.Run(name, func(t *testing.T) {
			var decodedPath = filepath.Join(dir, name)
			var encodedPath = filepath.Join(dir, name+".dsp")

			if err := run(t, "decode", referencePath, decodedPath); err != nil {
				t.Fatalf("decode: %v", err)
			}

			decoded, rate, err := readPCM(decodedPath)

			if err != nil || rate != 32000 || len(decoded) != len(samples) {
				t.Fatalf("decoded %d samples at %d Hz, %v", len(decoded), rate, err)
			}

			if err := run(t, "encode", decodedPath, referencePath, encodedPath); err != nil {
				t.Fatalf("encode: %v", err)
			}

			encoded, err := dsp.ReadFile(encodedPath)

			if err != nil {
				t.Fatal(err)
			}

			if encoded.Header.SampleRate != 32000 || encoded.Header.PS != 0x10 || encoded.Header.NumSamples != uint32(len(samples)) {
				t.Errorf("header %+v", encoded.Header)
			}

			if !bytes.Equal(encoded.Header.Coefficients[:], coefficients) {
				t.Error("coefficients were not taken from the reference")
			}
		})
	}
}

func TestDecodeMissingFile(t *testing.T) {
	var missing = filepath.Join(t.TempDir(), "missing.dsp")
	var err = run(t, "decode", missing, filepath.Join(t.TempDir(), "out.wav"))

	var fe *fileError

	if !errors.As(err, &fe) || fe.name != missing || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v", err)
	}
}

func TestOutputBase(t *testing.T) {
	defer func() { flagOut = "" }()

	if got := outputBase(filepath.Join("game", "level.uber"), 3); got != filepath.Join("game", "level_03") {
		t.Errorf("got %q", got)
	}

	flagOut = "out"

	if got := outputBase(filepath.Join("game", "level.uber"), 3); got != filepath.Join("out", "level_03") {
		t.Errorf("got %q", got)
	}
}

func TestIsSelected(t *testing.T) {
	defer func() { flagSelect = nil }()

	if !isSelected(5) {
		t.Error("every sound is selected by default")
	}

	flagSelect = []int{1, 3}

	if !isSelected(3) || isSelected(2) {
		t.Error("selection not honored")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(0); got != "0s" {
		t.Errorf("got %q", got)
	}

	if got := formatDuration(90 * time.Second); !strings.Contains(got, "30") {
		t.Errorf("got %q", got)
	}
}

// writeArchivePair stores two 16 byte sounds, each with its own coefficient
// table, in level.uber and level.samp.
func writeArchivePair(t *testing.T, dir string) (string, string) {
	t.Helper()

	var directory = make([]byte, sdir.HEADER_SIZE)
	copy(directory, "RIDS")
	binary.BigEndian.PutUint32(directory[sdir.OFFSET_COUNT:], 2)

	var samp []byte = nil

	for k := 0; k < 2; k++ {
		var record = make([]byte, sdir.RECORD_SIZE)
		binary.BigEndian.PutUint32(record[sdir.RECORD_SAMPLE_OFFSET:], uint32(2+k*32))
		binary.BigEndian.PutUint32(record[sdir.RECORD_NUM_NIBBLES:], 32)
		binary.BigEndian.PutUint16(record[sdir.RECORD_SAMPLE_RATE:], 32000)
		for j := 0; j < adpcm.COEFFICIENT_BYTES; j++ {
			record[sdir.RECORD_COEFFICIENTS+j] = byte(0x80 + k*32 + j)
		}
		directory = append(directory, record...)

		for j := 0; j < 16; j++ {
			samp = append(samp, byte(1+k*16+j))
		}
	}

	var uberPath = filepath.Join(dir, "level.uber")
	var sampPath = filepath.Join(dir, "level.samp")

	if err := os.WriteFile(uberPath, uber.Assemble([8]byte{}, [][]byte{directory}), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(sampPath, samp, 0o644); err != nil {
		t.Fatal(err)
	}

	return uberPath, sampPath
}

func TestListAndSdir(t *testing.T) {
	var dir = t.TempDir()
	uberPath, sampPath := writeArchivePair(t, dir)

	if err := run(t, "list", uberPath, sampPath); err != nil {
		t.Fatalf("list: %v", err)
	}

	if err := run(t, "sdir", uberPath); err != nil {
		t.Fatalf("sdir: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "level.sdir"))

	if err != nil {
		t.Fatal(err)
	}

	directory, err := sdir.Parse(data)

	if err != nil || len(directory.Records) != 2 {
		t.Errorf("dumped directory: %v", err)
	}
}

func TestExtractSelected(t *testing.T) {
	defer func() {
		flagSelect = nil
		flagFormat = "wav"
		flagOut = ""
	}()

	var dir = t.TempDir()
	uberPath, sampPath := writeArchivePair(t, dir)
	var out = filepath.Join(dir, "out")

	if err := run(t, "extract", uberPath, sampPath, "--format", "dsp", "--select", "0", "--out", out); err != nil {
		t.Fatalf("extract: %v", err)
	}

	extracted, err := dsp.ReadFile(filepath.Join(out, "level_00.dsp"))

	if err != nil {
		t.Fatal(err)
	}

	if extracted.Header.SampleRate != 32000 || !bytes.Equal(extracted.Payload, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}) {
		t.Errorf("extracted %+v", extracted.Header)
	}

	if _, err := os.Stat(filepath.Join(out, "level_01.dsp")); !os.IsNotExist(err) {
		t.Error("sound 1 was not selected but was extracted")
	}

	if _, err := os.Stat(filepath.Join(dir, "level_00.dsp")); !os.IsNotExist(err) {
		t.Error("--out was ignored")
	}
}

func TestRebuildCommand(t *testing.T) {
	var dir = t.TempDir()
	uberPath, sampPath := writeArchivePair(t, dir)

	var samples = make([]int16, 28)
	for i := range samples {
		samples[i] = int16(i * 500)
	}

	if err := wav.WriteFile(filepath.Join(dir, "level_01.wav"), wav.NewMono(samples, 32000)); err != nil {
		t.Fatal(err)
	}

	if err := run(t, "rebuild", uberPath, sampPath); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	samp, err := os.ReadFile(sampPath)

	if err != nil {
		t.Fatal(err)
	}

	var coefficients = make([]byte, adpcm.COEFFICIENT_BYTES)
	for j := range coefficients {
		coefficients[j] = byte(0xa0 + j)
	}

	var expected = adpcm.Encode(samples, adpcm.MustParseCoefficients(coefficients))

	if len(samp) != 32 || !bytes.Equal(samp[16:], expected) {
		t.Errorf("samp is %v, want sound 1 to be %v", samp, expected)
	}

	if !bytes.Equal(samp[:16], []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}) {
		t.Error("sound 0 has no source and should be untouched")
	}

	if _, err := os.Stat(filepath.Join(dir, "level_01.dsp")); !os.IsNotExist(err) {
		t.Error("generated level_01.dsp was not cleaned up")
	}
}
