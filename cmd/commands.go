package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"waxytimer/internal/core/target"
	"waxytimer/internal/platform"
	"waxytimer/internal/storage"
)

func newWindowsCmd(opts *options) *cobra.Command {
	var all bool

	windowsCmd := &cobra.Command{
		Use:   "windows",
		Short: "List windows that can be chosen as the timer target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.NewStore(appName, opts.configPath)
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if err != nil {
				return err
			}

			system, err := platform.NewWindowSystem()
			if err != nil {
				return errors.Wrap(err, "open window system")
			}
			defer system.Close()

			windows, err := system.ListWindows()
			if err != nil {
				return errors.Wrap(err, "list windows")
			}
			filter := settings.Filter
			if all {
				filter.All = true
			}
			return printWindows(cmd.OutOrStdout(), filter, windows, settings.WindowHint)
		},
	}
	windowsCmd.Flags().BoolVar(&all, "all", false, "List every window instead of the allowed targets")
	return windowsCmd
}

func printWindows(out io.Writer, filter target.Filter, windows []platform.WindowInfo, hint string) error {
	allowed := filter.Apply(windows)
	selected := filter.SelectDefault(allowed, hint)

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "\tID\tEXECUTABLE\tTITLE")
	for index, window := range allowed {
		marker := ""
		if index == selected {
			marker = "*"
		}
		fmt.Fprintf(writer, "%s\t%d\t%s\t%s\n", marker, window.ID, window.Executable, window.Title)
	}
	return writer.Flush()
}

func newAutostartCmd(opts *options) *cobra.Command {
	autostartCmd := &cobra.Command{
		Use:   "autostart",
		Short: "Start the timer when you log in",
	}

	var mini bool
	enableCmd := &cobra.Command{
		Use:   "enable",
		Short: "Register the timer to start at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			execPath, err := os.Executable()
			if err != nil {
				return errors.Wrap(err, "resolve executable")
			}
			var args []string
			if opts.configPath != "" {
				args = append(args, "--config", opts.configPath)
			}
			if mini {
				args = append(args, "--mini")
			}
			if err := platform.NewAutostart(appName).Enable(execPath, args...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "autostart enabled")
			return nil
		},
	}
	enableCmd.Flags().BoolVar(&mini, "mini", false, "Start in the mini-player")

	disableCmd := &cobra.Command{
		Use:   "disable",
		Short: "Stop starting the timer at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := platform.NewAutostart(appName).Disable(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the timer starts at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enabled, err := platform.NewAutostart(appName).Enabled()
			if err != nil {
				return err
			}
			state := "disabled"
			if enabled {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "autostart %s\n", state)
			return nil
		},
	}

	autostartCmd.AddCommand(enableCmd, disableCmd, statusCmd)
	return autostartCmd
}
