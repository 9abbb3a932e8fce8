package main

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/lambertjamesd/uberdsp/rebuild"
	"github.com/lambertjamesd/uberdsp/sounds"
)

var (
	flagVerbose   bool
	flagLogFormat string

	loadOptions    = sounds.DefaultOptions()
	rebuildOptions = rebuild.DefaultOptions()

	flagFormat   string
	flagSelect   []int
	flagOut      string
	flagNoReload bool
)

func bindFlags() {
	var root = cmdRoot.PersistentFlags()
	root.BoolVarP(&flagVerbose, "verbose", "v", false, "log debug messages")
	root.StringVar(&flagLogFormat, "log-format", "text", "log output format, text or json")

	floading := pflag.NewFlagSet("loading", pflag.ExitOnError)
	floading.IntVar(&loadOptions.Workers, "workers", loadOptions.Workers, "number of sounds decoded or encoded at once")
	floading.IntVar(&loadOptions.CacheSize, "cache-size", loadOptions.CacheSize, "number of decoded sounds kept between loads")

	fselect := pflag.NewFlagSet("selection", pflag.ExitOnError)
	fselect.IntSliceVar(&flagSelect, "select", nil, "sound indices to use, all sounds when empty")

	foutput := pflag.NewFlagSet("output", pflag.ExitOnError)
	foutput.StringVar(&flagFormat, "format", "wav", "extracted file format, wav, aiff or dsp")
	foutput.StringVar(&flagOut, "out", "", "output directory, next to the .uber file when empty")

	frebuild := pflag.NewFlagSet("rebuild", pflag.ExitOnError)
	frebuild.BoolVar(&rebuildOptions.KeepGenerated, "keep-dsp", rebuildOptions.KeepGenerated, "keep the .dsp files generated from .wav files")
	frebuild.BoolVar(&flagNoReload, "no-reload", false, "skip reloading the archive after the rebuild")

	f := cmdList.Flags()
	f.AddFlagSet(floading)
	f = cmdExtract.Flags()
	f.AddFlagSet(floading)
	f.AddFlagSet(fselect)
	f.AddFlagSet(foutput)
	f = cmdRebuild.Flags()
	f.AddFlagSet(floading)
	f.AddFlagSet(frebuild)
}

func configureLogging() error {
	if flagVerbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	switch flagLogFormat {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q, expected text or json", flagLogFormat)
	}

	return nil
}

func isSelected(index int) bool {
	return len(flagSelect) == 0 || slices.Contains(flagSelect, index)
}
