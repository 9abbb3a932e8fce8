package rebuild

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lambertjamesd/uberdsp/adpcm"
	"github.com/lambertjamesd/uberdsp/audioconvert"
	"github.com/lambertjamesd/uberdsp/dsp"
	"github.com/lambertjamesd/uberdsp/sdir"
	"github.com/lambertjamesd/uberdsp/sounds"
	"github.com/lambertjamesd/uberdsp/uber"
	"github.com/lambertjamesd/uberdsp/wav"
)

const soundCount = 3
const payloadSize = 16

// Record k's coefficients start at this offset in the .uber: 8 byte
// preamble, one table entry, the directory header, then 64 byte records.
func coefficientOffset(k int) int64 {
	return int64(uber.OFFSET_TABLE_START + 4 + sdir.HEADER_SIZE + k*sdir.RECORD_SIZE + sdir.RECORD_COEFFICIENTS)
}

func testCoefficients(k int) []byte {
	var result = make([]byte, adpcm.COEFFICIENT_BYTES)
	for j := range result {
		result[j] = byte(0x80 + k*32 + j)
	}
	return result
}

func testPayload(k int) []byte {
	var result = make([]byte, payloadSize)
	for j := range result {
		result[j] = byte(1 + k*payloadSize + j)
	}
	return result
}

type fixture struct {
	dir    string
	target Target
	sounds []*sounds.Sound
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	var directory = make([]byte, sdir.HEADER_SIZE)
	copy(directory, "RIDS")
	binary.BigEndian.PutUint32(directory[sdir.OFFSET_COUNT:], soundCount)

	var samp []byte = nil

	for k := 0; k < soundCount; k++ {
		var record = make([]byte, sdir.RECORD_SIZE)
		binary.BigEndian.PutUint32(record[sdir.RECORD_SAMPLE_OFFSET:], uint32(2+k*payloadSize*2))
		binary.BigEndian.PutUint32(record[sdir.RECORD_NUM_NIBBLES:], payloadSize*2)
		binary.BigEndian.PutUint16(record[sdir.RECORD_SAMPLE_RATE:], 32000)
		copy(record[sdir.RECORD_COEFFICIENTS:], testCoefficients(k))
		record[sdir.RECORD_PS] = 0x02
		directory = append(directory, record...)

		samp = append(samp, testPayload(k)...)
	}

	var dir = t.TempDir()

	var result = &fixture{
		dir: dir,
		target: Target{
			Uber: filepath.Join(dir, "level.uber"),
			Samp: filepath.Join(dir, "level.samp"),
		},
	}

	if err := os.WriteFile(result.target.Uber, uber.Assemble([8]byte{}, [][]byte{directory}), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(result.target.Samp, samp, 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := sounds.NewLoader(sounds.DefaultOptions()).LoadFiles(context.Background(), result.target.Uber, result.target.Samp)

	if err != nil {
		t.Fatal(err)
	}

	if len(list) != soundCount {
		t.Fatalf("loaded %d sounds", len(list))
	}

	result.sounds = list

	return result
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *fixture) read(t *testing.T, filename string) []byte {
	t.Helper()
	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	return content
}

func ramp(count int) []int16 {
	var result = make([]int16, count)
	for i := range result {
		result[i] = int16(i*700 - 7000)
	}
	return result
}

func TestRebuild(t *testing.T) {
	var f = newFixture(t)

	var uberBefore = f.read(t, f.target.Uber)
	var sampBefore = f.read(t, f.target.Samp)

	// Sound 0: a half rate wave that resamples to 42 samples, 24 bytes of ADPCM.
	var samples = ramp(21)

	if err := wav.WriteFile(f.path("level_00.wav"), wav.NewMono(samples, 16000)); err != nil {
		t.Fatal(err)
	}

	// Sound 1: a hand edited container with new coefficients and a short payload.
	var newCoefficients = bytes.Repeat([]byte{0x11}, adpcm.COEFFICIENT_BYTES)
	var edited = dsp.Build(14, 16, 32000, newCoefficients, 0x02, []byte{9, 9, 9, 9, 9, 9, 9, 9})

	if err := os.WriteFile(f.path("level_01.dsp"), edited, 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Rebuild(context.Background(), f.target, f.sounds, DefaultOptions())

	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if report.Processed != 2 {
		t.Errorf("processed %d sounds, want 2", report.Processed)
	}

	var uberAfter = f.read(t, f.target.Uber)
	var sampAfter = f.read(t, f.target.Samp)

	if len(uberAfter) != len(uberBefore) || len(sampAfter) != len(sampBefore) {
		t.Fatalf("file sizes changed: uber %d -> %d, samp %d -> %d", len(uberBefore), len(uberAfter), len(sampBefore), len(sampAfter))
	}

	var first = report.Items[0]

	if first.Source != SourceWAV || first.UberOffset != coefficientOffset(0) || first.SampOffset != 0 || first.Trimmed != 8 {
		t.Errorf("item 0: %+v", first)
	}

	var encoded = adpcm.Encode(audioconvert.Resample(samples, 16000, 32000), adpcm.MustParseCoefficients(testCoefficients(0)))

	if !bytes.Equal(sampAfter[0:payloadSize], encoded[:payloadSize]) {
		t.Errorf("samp payload 0 is %v, want %v", sampAfter[0:payloadSize], encoded[:payloadSize])
	}

	// Unchanged coefficients are still written back.
	if !bytes.Equal(uberAfter[coefficientOffset(0):coefficientOffset(0)+32], testCoefficients(0)) {
		t.Error("uber coefficients 0 changed")
	}

	var second = report.Items[1]

	if second.Source != SourceDSP || second.UberOffset != coefficientOffset(1) || second.SampOffset != payloadSize || second.Padded != 8 {
		t.Errorf("item 1: %+v", second)
	}

	if !bytes.Equal(uberAfter[coefficientOffset(1):coefficientOffset(1)+32], newCoefficients) {
		t.Error("uber coefficients 1 were not replaced")
	}

	var expected = []byte{9, 9, 9, 9, 9, 9, 9, 9, 0, 0, 0, 0, 0, 0, 0, 0}

	if !bytes.Equal(sampAfter[payloadSize:2*payloadSize], expected) {
		t.Errorf("samp payload 1 is %v", sampAfter[payloadSize:2*payloadSize])
	}

	if !report.Items[2].Skipped() || !bytes.Equal(sampAfter[2*payloadSize:], testPayload(2)) {
		t.Error("sound 2 has no source and should be untouched")
	}

	if _, err := os.Stat(f.path("level_00.dsp")); !os.IsNotExist(err) {
		t.Error("generated level_00.dsp was not cleaned up")
	}

	if _, err := os.Stat(f.path("level_01.dsp")); err != nil {
		t.Error("edited level_01.dsp should be kept")
	}

	if len(report.Cleaned) != 1 {
		t.Errorf("cleaned %v", report.Cleaned)
	}

	reloaded, err := sounds.NewLoader(sounds.DefaultOptions()).LoadFiles(context.Background(), f.target.Uber, f.target.Samp)

	if err != nil || len(reloaded) != soundCount {
		t.Fatalf("reload: %d sounds, %v", len(reloaded), err)
	}

	if !bytes.Equal(reloaded[1].Record.Coefficients[:], newCoefficients) {
		t.Error("reloaded sound 1 does not carry the new coefficients")
	}
}

func TestRebuildKeepGenerated(t *testing.T) {
	var f = newFixture(t)

	if err := wav.WriteFile(f.path("level_02.wav"), wav.NewMono(ramp(10), 32000)); err != nil {
		t.Fatal(err)
	}

	var options = DefaultOptions()
	options.KeepGenerated = true

	report, err := Rebuild(context.Background(), f.target, f.sounds, options)

	if err != nil {
		t.Fatal(err)
	}

	if report.Items[2].Padded != 8 {
		t.Errorf("padded %d, want 8", report.Items[2].Padded)
	}

	generated, err := dsp.ReadFile(f.path("level_02.dsp"))

	if err != nil {
		t.Fatal(err)
	}

	if generated.Header.NumSamples != 10 || generated.Header.NumNibbles != 16 || generated.Header.SampleRate != 32000 || generated.Header.PS != 0x02 {
		t.Errorf("generated header %+v", generated.Header)
	}

	if !bytes.Equal(generated.Header.Coefficients[:], testCoefficients(2)) {
		t.Error("generated container should carry the original coefficients")
	}
}

func TestRebuildNothingToDo(t *testing.T) {
	var f = newFixture(t)
	var sampBefore = f.read(t, f.target.Samp)

	report, err := Rebuild(context.Background(), f.target, f.sounds, DefaultOptions())

	if err != nil {
		t.Fatal(err)
	}

	if report.Processed != 0 || len(report.Items) != soundCount {
		t.Errorf("report %+v", report)
	}

	if !bytes.Equal(f.read(t, f.target.Samp), sampBefore) {
		t.Error("samp changed")
	}
}

func TestRebuildMissingPattern(t *testing.T) {
	var f = newFixture(t)

	// Overwrite sound 0's payload so it can no longer be found.
	var samp = f.read(t, f.target.Samp)
	copy(samp, make([]byte, payloadSize))

	if err := os.WriteFile(f.target.Samp, samp, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := wav.WriteFile(f.path("level_00.wav"), wav.NewMono(ramp(28), 32000)); err != nil {
		t.Fatal(err)
	}

	report, err := Rebuild(context.Background(), f.target, f.sounds, DefaultOptions())

	if err != nil {
		t.Fatal(err)
	}

	var item = report.Items[0]

	if item.SampOffset != -1 || item.UberOffset != coefficientOffset(0) {
		t.Errorf("item %+v", item)
	}

	var noted = false

	for _, note := range item.Notes {
		if strings.Contains(note, "not found") {
			noted = true
		}
	}

	if !noted {
		t.Errorf("notes %v", item.Notes)
	}

	if !bytes.Equal(f.read(t, f.target.Samp), samp) {
		t.Error("samp changed")
	}
}

func TestRebuildRejectsBrokenSource(t *testing.T) {
	var f = newFixture(t)
	var sampBefore = f.read(t, f.target.Samp)

	if err := os.WriteFile(f.path("level_01.dsp"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Rebuild(context.Background(), f.target, f.sounds, DefaultOptions()); err == nil {
		t.Fatal("expected an error for a truncated container")
	}

	if !bytes.Equal(f.read(t, f.target.Samp), sampBefore) {
		t.Error("nothing should be patched when a source cannot be read")
	}
}

func TestCleanGenerated(t *testing.T) {
	var dir = t.TempDir()

	for _, name := range []string{"a_00.dsp", "a_00.wav", "a_01.dsp", "b.wav", "c.dsp.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := CleanGenerated(dir)

	if err != nil {
		t.Fatal(err)
	}

	if len(removed) != 1 || filepath.Base(removed[0]) != "a_00.dsp" {
		t.Errorf("removed %v", removed)
	}

	for _, name := range []string{"a_00.wav", "a_01.dsp", "b.wav", "c.dsp.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
