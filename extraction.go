package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lambertjamesd/uberdsp/sdir"
	"github.com/lambertjamesd/uberdsp/sounds"
	"github.com/lambertjamesd/uberdsp/uber"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

func formatDuration(duration time.Duration) string {
	if duration == 0 {
		return "0s"
	}

	return durafmt.Parse(duration).LimitFirstN(2).Format(shortUnits)
}

func loadSounds(ctx context.Context, loader *sounds.Loader, uberPath string, sampPath string) ([]*sounds.Sound, error) {
	for _, filename := range []string{uberPath, sampPath} {
		if _, err := os.Stat(filename); err != nil {
			return nil, &fileError{filename, err}
		}
	}

	list, err := loader.LoadFiles(ctx, uberPath, sampPath)

	if err != nil {
		return nil, &fileError{uberPath, err}
	}

	return list, nil
}

var cmdList = cobra.Command{
	Use:   "list <file.uber> <file.samp>",
	Short: "List the sounds stored in an archive pair.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadSounds(cmd.Context(), sounds.NewLoader(loadOptions), args[0], args[1])

		if err != nil {
			return err
		}

		var total time.Duration

		for _, sound := range list {
			fmt.Printf("%s  %6d Hz  %8s  %7d samples  %9s  %016x\n",
				filepath.Base(sounds.FileBase(args[0], sound.Index)),
				sound.Record.SampleRate,
				formatDuration(sound.Duration()),
				sound.SampleCount,
				humanize.Bytes(uint64(len(sound.ADPCM))),
				sound.Checksum,
			)
			total += sound.Duration()
		}

		fmt.Printf("%d sound(s), %s total\n", len(list), formatDuration(total))

		return nil
	},
}

// outputBase is where a sound's files go: beside the archive, or in the
// --out directory when one is given.
func outputBase(uberPath string, index int) string {
	var base = sounds.FileBase(uberPath, index)

	if flagOut == "" {
		return base
	}

	return filepath.Join(flagOut, filepath.Base(base))
}

var cmdExtract = cobra.Command{
	Use:   "extract <file.uber> <file.samp>",
	Short: "Write the selected sounds out as .wav or .dsp files.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var format = strings.ToLower(flagFormat)

		if format == "aif" {
			format = "aiff"
		}

		if format != "wav" && format != "dsp" && format != "aiff" {
			return fmt.Errorf("unknown format %q, expected wav, aiff or dsp", flagFormat)
		}

		if flagOut != "" {
			if err := os.MkdirAll(flagOut, 0o777); err != nil {
				return &fileError{flagOut, err}
			}
		}

		list, err := loadSounds(cmd.Context(), sounds.NewLoader(loadOptions), args[0], args[1])

		if err != nil {
			return err
		}

		var count = 0

		for _, sound := range list {
			if !isSelected(sound.Index) {
				continue
			}

			var filename = outputBase(args[0], sound.Index) + "." + format

			switch format {
			case "wav":
				err = sound.ExportWAV(filename)
			case "aiff":
				err = sound.ExportAIFF(filename)
			default:
				err = sound.ExportDSP(filename)
			}

			if err != nil {
				return &fileError{filename, err}
			}

			logrus.WithFields(logrus.Fields{
				"rate":     sound.Record.SampleRate,
				"duration": formatDuration(sound.Duration()),
			}).Infof("extracted %s", filename)

			count++
		}

		if count == 0 {
			logrus.Warn("no sounds selected")
		} else {
			logrus.Infof("extraction complete, created %d %s file(s)", count, format)
		}

		return nil
	},
}

var cmdSdir = cobra.Command{
	Use:   "sdir <file.uber> [output.sdir]",
	Short: "Copy the sound directory chunk out of an archive.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		var filein = args[0]
		var fileout = strings.TrimSuffix(filein, filepath.Ext(filein)) + ".sdir"

		if len(args) > 1 {
			fileout = args[1]
		}

		data, err := uber.ExtractChunk(filein, uber.SDIR_TAG)

		if err != nil {
			return &fileError{filein, err}
		}

		directory, err := sdir.Parse(data)

		if err != nil {
			return &fileError{filein, err}
		}

		if err = os.WriteFile(fileout, data, 0o666); err != nil {
			return &fileError{fileout, err}
		}

		logrus.WithFields(logrus.Fields{
			"records": len(directory.Records),
			"size":    humanize.Bytes(uint64(len(data))),
		}).Infof("wrote %s", fileout)

		return nil
	},
}
