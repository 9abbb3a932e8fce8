package rebuild

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lambertjamesd/uberdsp/dsp"
	"github.com/lambertjamesd/uberdsp/patch"
	"github.com/lambertjamesd/uberdsp/sounds"
)

// patchItem overwrites the sound's coefficients in the .uber and its
// ADPCM bytes in the .samp. Patterns that are missing are noted on the
// item rather than failing the rebuild.
func patchItem(target Target, item *Item, sound *sounds.Sound) error {
	var log = logrus.WithField("index", item.Index)

	var coefficients = item.Container[dsp.OFFSET_COEFFICIENTS:dsp.COEFFICIENTS_END]

	offset, _, _, err := patch.FindAndReplace(target.Uber, sound.Record.Coefficients[:], coefficients)

	if errors.Is(err, patch.ErrNotFound) {
		item.note("coefficients not found in %s", target.Uber)
		log.Warn("coefficients not found in uber, skipping uber patch")
	} else if err != nil {
		return err
	} else {
		item.UberOffset = offset
		item.note("replaced coefficients in %s at %#x", target.Uber, offset)
		log.WithField("offset", offset).Debug("patched uber")
	}

	offset, padded, trimmed, err := patch.FindAndReplace(target.Samp, sound.ADPCM, item.Container[dsp.HEADER_SIZE:])

	if errors.Is(err, patch.ErrNotFound) {
		item.note("audio data not found in %s", target.Samp)
		log.Warn("audio data not found in samp, skipping samp patch")
		return nil
	} else if err != nil {
		return err
	}

	item.SampOffset = offset
	item.Padded = padded
	item.Trimmed = trimmed

	if padded > 0 {
		item.note("added %d bytes of padding to match the original length", padded)
	} else if trimmed > 0 {
		item.note("trimmed %d bytes to match the original length", trimmed)
		log.WithField("trimmed", trimmed).Warn("replacement is longer than the original and was cut off")
	}

	item.note("replaced audio data in %s at %#x", target.Samp, offset)
	log.WithField("offset", offset).Debug("patched samp")

	return nil
}

// Rebuild patches every sound in list that has an edited .wav or .dsp
// next to target.Uber. Sources are encoded in parallel. Patching runs in
// list order while both files are locked. The sounds in list describe the
// archive before the rebuild; reload it afterwards.
func Rebuild(ctx context.Context, target Target, list []*sounds.Sound, options Options) (*Report, error) {
	var report = &Report{}

	for _, sound := range list {
		report.Items = append(report.Items, discover(target.Uber, sound))
	}

	var pending = 0

	for _, item := range report.Items {
		if item.Skipped() {
			item.note("neither %s nor %s found", item.WAVPath, item.DSPPath)
		} else {
			pending++
		}
	}

	if pending == 0 {
		logrus.WithField("uber", target.Uber).Warn("no wav or dsp files found to rebuild")
		return report, nil
	}

	logrus.WithField("sounds", pending).Info("starting rebuild")

	if options.Workers <= 0 {
		options.Workers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(options.Workers)

	for i, item := range report.Items {
		if item.Skipped() {
			continue
		}

		var item = item
		var sound = list[i]

		group.Go(func() error {
			return prepare(groupCtx, item, sound)
		})
	}

	if err := group.Wait(); err != nil {
		return report, err
	}

	unlock, err := patch.Lock(target.Uber, target.Samp)

	if err != nil {
		return report, err
	}

	defer unlock()

	for i, item := range report.Items {
		if item.Skipped() {
			continue
		}

		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := patchItem(target, item, list[i]); err != nil {
			return report, err
		}

		report.Processed++
	}

	logrus.WithField("sounds", report.Processed).Info("rebuild complete")

	if !options.KeepGenerated {
		cleaned, err := CleanGenerated(filepath.Dir(target.Uber))

		report.Cleaned = cleaned

		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// CleanGenerated removes every .dsp in dir that has a .wav with the same
// base name. A .dsp standing alone is an edited source and is kept.
func CleanGenerated(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "*.dsp")

	if err != nil {
		return nil, err
	}

	var removed []string = nil

	for _, match := range matches {
		var wavName = strings.TrimSuffix(match, filepath.Ext(match)) + ".wav"

		if !exists(filepath.Join(dir, wavName)) {
			continue
		}

		var filename = filepath.Join(dir, match)

		if err := os.Remove(filename); err != nil {
			return removed, err
		}

		removed = append(removed, filename)
	}

	if len(removed) > 0 {
		logrus.WithField("count", len(removed)).Info("cleaned up generated dsp files")
	}

	return removed, nil
}
