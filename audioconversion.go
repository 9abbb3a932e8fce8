package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lambertjamesd/uberdsp/adpcm"
	"github.com/lambertjamesd/uberdsp/aiff"
	"github.com/lambertjamesd/uberdsp/dsp"
	"github.com/lambertjamesd/uberdsp/rebuild"
	"github.com/lambertjamesd/uberdsp/wav"
)

func isAiff(filename string) bool {
	var ext = strings.ToLower(filepath.Ext(filename))
	return ext == ".aif" || ext == ".aiff" || ext == ".aifc"
}

// readPCM loads mono samples from a .wav or .aiff file.
func readPCM(filename string) ([]int16, uint32, error) {
	if isAiff(filename) {
		file, err := aiff.ReadFile(filename)

		if err != nil {
			return nil, 0, err
		}

		samples, err := file.Samples()

		return samples, file.SampleRate(), err
	}

	if ext := filepath.Ext(filename); !strings.EqualFold(ext, ".wav") {
		logrus.Warnf("%s does not have .wav extension, reading it as a wave file", filename)
	}

	wave, err := wav.ReadFile(filename)

	if err != nil {
		return nil, 0, err
	}

	samples, err := wave.Samples()

	return samples, wave.Header.SampleRate, err
}

// writePCM picks the output format from the file extension.
func writePCM(filename string, samples []int16, sampleRate uint32) error {
	if isAiff(filename) {
		return aiff.WriteFile(filename, aiff.NewMono(samples, sampleRate))
	}

	return wav.WriteFile(filename, wav.NewMono(samples, sampleRate))
}

var cmdDecode = cobra.Command{
	Use:   "decode <input.dsp> <output.wav|output.aiff>",
	Short: "Decode a standalone DSP file to a WAV or AIFF file.",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		filein := args[0]
		fileout := args[1]

		if ext := filepath.Ext(filein); !strings.EqualFold(ext, ".dsp") {
			logrus.Warnf("%s does not have .dsp extension", filein)
		}

		file, err := dsp.ReadFile(filein)

		if err != nil {
			return &fileError{filein, err}
		}

		var samples = adpcm.Decode(file.Payload, file.Header.Coefs(), adpcm.FrameHeader(file.Header.PS), int(file.Header.NumSamples))

		if len(samples) < int(file.Header.NumSamples) {
			logrus.Warnf("header declares %d samples but the payload only holds %d", file.Header.NumSamples, len(samples))
		}

		if err = writePCM(fileout, samples, file.Header.SampleRate); err != nil {
			return &fileError{fileout, err}
		}

		logrus.WithField("samples", len(samples)).Infof("wrote %s", fileout)

		return nil
	},
}

var cmdEncode = cobra.Command{
	Use:   "encode <input.wav|input.aiff> <reference.dsp> <output.dsp>",
	Short: "Encode audio with the coefficients, rate and initial frame header of a reference DSP file.",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		filein := args[0]
		fileref := args[1]
		fileout := args[2]

		samples, rate, err := readPCM(filein)

		if err != nil {
			return &fileError{filein, err}
		}

		if rate == 0 {
			return &fileError{filein, fmt.Errorf("sample rate is 0")}
		}

		reference, err := dsp.ReadFile(fileref)

		if err != nil {
			return &fileError{fileref, err}
		}

		var header = &reference.Header
		var container = rebuild.EncodePCM(samples, rate, header.Coefficients[:], header.PS, header.SampleRate)

		if err = os.WriteFile(fileout, container, 0o666); err != nil {
			return &fileError{fileout, err}
		}

		logrus.WithField("samples", len(samples)).Infof("wrote %s", fileout)

		return nil
	},
}
