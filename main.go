package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type fileError struct {
	name string
	err  error
}

func (e *fileError) Error() string {
	return fmt.Sprintf("%q: %v", e.name, e.err)
}

func (e *fileError) Unwrap() error {
	return e.err
}

var cmdRoot = cobra.Command{
	Use:           "uberdsp",
	Short:         "uberdsp extracts and replaces DSP ADPCM sounds stored in .uber/.samp archive pairs.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return configureLogging()
	},
}

func main() {
	cmdRoot.AddCommand(&cmdList, &cmdExtract, &cmdRebuild, &cmdSdir, &cmdDecode, &cmdEncode)
	bindFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmdRoot.ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		stop()
		os.Exit(1)
	}
}
