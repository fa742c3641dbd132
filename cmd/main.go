package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName = "Waxy Timer"
	appID   = "com.waxy.timer"
)

type options struct {
	configPath string
	logLevel   string
	mini       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "waxytimer",
		Short:         "Counts down from your last input in a chosen window",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			log, err := newLogger(opts.logLevel)
			if err != nil {
				return err
			}
			return runApp(opts, log)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Settings file (default <user config dir>/Waxy Timer/settings.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	root.Flags().BoolVar(&opts.mini, "mini", false, "Start in the mini-player")

	root.AddCommand(newWindowsCmd(opts))
	root.AddCommand(newAutostartCmd(opts))
	return root
}
