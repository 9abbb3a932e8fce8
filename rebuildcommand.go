package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lambertjamesd/uberdsp/rebuild"
	"github.com/lambertjamesd/uberdsp/sounds"
)

var cmdRebuild = cobra.Command{
	Use:   "rebuild <file.uber> <file.samp>",
	Short: "Patch edited .wav and .dsp files back into an archive pair.",
	Long: `Patch edited sounds back into an archive pair.

For each sound, <base>_NN.wav next to the .uber file is encoded with the
sound's original coefficients; without one, <base>_NN.dsp is used as is.
Both files keep their size: longer sounds are cut off and shorter sounds
are padded with silence.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var target = rebuild.Target{Uber: args[0], Samp: args[1]}
		var loader = sounds.NewLoader(loadOptions)

		list, err := loadSounds(cmd.Context(), loader, target.Uber, target.Samp)

		if err != nil {
			return err
		}

		var options = rebuildOptions
		options.Workers = loadOptions.Workers

		report, err := rebuild.Rebuild(cmd.Context(), target, list, options)

		if err != nil {
			return err
		}

		for _, item := range report.Items {
			var log = logrus.WithFields(logrus.Fields{
				"index":  item.Index,
				"source": item.Source,
			})

			for _, note := range item.Notes {
				log.Info(note)
			}
		}

		if report.Processed == 0 {
			logrus.Warn("no .wav or .dsp files found for rebuilding, extract sounds first or place edited files next to the .uber file")
			return nil
		}

		logrus.Infof("rebuild complete, processed %d sound(s)", report.Processed)

		if flagNoReload {
			return nil
		}

		list, err = loadSounds(cmd.Context(), loader, target.Uber, target.Samp)

		if err != nil {
			return err
		}

		logrus.Infof("reloaded %d sound(s)", len(list))

		return nil
	},
}
