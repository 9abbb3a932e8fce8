package rebuild

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/lambertjamesd/uberdsp/adpcm"
	"github.com/lambertjamesd/uberdsp/audioconvert"
	"github.com/lambertjamesd/uberdsp/dsp"
	"github.com/lambertjamesd/uberdsp/sounds"
	"github.com/lambertjamesd/uberdsp/wav"
)

func exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// discover prefers an edited .wav over a .dsp with the same base name.
func discover(uberPath string, sound *sounds.Sound) *Item {
	var base = sounds.FileBase(uberPath, sound.Index)

	var item = &Item{
		Index:      sound.Index,
		WAVPath:    base + ".wav",
		DSPPath:    base + ".dsp",
		UberOffset: -1,
		SampOffset: -1,
	}

	if exists(item.WAVPath) {
		item.Source = SourceWAV
	} else if exists(item.DSPPath) {
		item.Source = SourceDSP
	}

	return item
}

// EncodePCM builds a standalone container from mono samples recorded at
// rate. The samples are resampled to sampleRate and encoded with the given
// coefficient table, which is stored in the header along with ps.
func EncodePCM(samples []int16, rate uint32, coefficients []byte, ps uint8, sampleRate uint32) []byte {
	if rate != sampleRate {
		logrus.WithFields(logrus.Fields{
			"from": rate,
			"to":   sampleRate,
		}).Info("resampling")

		samples = audioconvert.Resample(samples, int(rate), int(sampleRate))
	}

	var encoded = adpcm.Encode(samples, adpcm.MustParseCoefficients(coefficients))

	return dsp.Build(
		uint32(len(samples)),
		uint32(len(encoded)*2),
		sampleRate,
		coefficients,
		ps,
		encoded,
	)
}

func EncodeWAV(wave *wav.Wave, coefficients []byte, ps uint8, sampleRate uint32) ([]byte, error) {
	samples, err := wave.Samples()

	if err != nil {
		return nil, err
	}

	return EncodePCM(samples, wave.Header.SampleRate, coefficients, ps, sampleRate), nil
}

// prepare fills in item.Container from its source file. WAV sources also
// leave the encoded container beside them.
func prepare(ctx context.Context, item *Item, sound *sounds.Sound) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch item.Source {
	case SourceWAV:
		wave, err := wav.ReadFile(item.WAVPath)

		if err != nil {
			return fmt.Errorf("%s: %w", item.WAVPath, err)
		}

		container, err := EncodeWAV(wave, sound.Record.Coefficients[:], sound.Record.PS, sound.SampleRate())

		if err != nil {
			return fmt.Errorf("%s: %w", item.WAVPath, err)
		}

		if err = os.WriteFile(item.DSPPath, container, 0o644); err != nil {
			return err
		}

		item.Container = container
		item.note("converted %s to dsp (%s)", item.WAVPath, humanize.Bytes(uint64(len(container))))
	case SourceDSP:
		data, err := os.ReadFile(item.DSPPath)

		if err != nil {
			return err
		}

		if _, err = dsp.Parse(data); err != nil {
			return fmt.Errorf("%s: %w", item.DSPPath, err)
		}

		item.Container = data
		item.note("using existing dsp %s (%s)", item.DSPPath, humanize.Bytes(uint64(len(item.Container))))
	}

	return nil
}
