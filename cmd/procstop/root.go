package main

import (
	"fmt"
	"strings"

	"procstop/notify"
	"procstop/process"
	"procstop/process_gopsutil"
	"procstop/report"

	"github.com/spf13/cobra"
)

const (
	backendNative   = "native"
	backendGopsutil = "gopsutil"
)

// app holds the flags and collaborators shared by every command
type app struct {
	configPath string
	debug      bool
	verbose    bool
	dryRun     bool
	noColor    bool
	backend    string

	// replaced in tests
	nativePlatform func() process.Platform
	notifier       notify.Notifier
}

func newApp() *app {
	return &app{
		backend:        backendNative,
		nativePlatform: nativePlatform,
		notifier:       notify.Desktop(),
	}
}

func (a *app) platform() (process.Platform, error) {
	switch strings.ToLower(a.backend) {
	case backendNative, "":
		return a.nativePlatform(), nil
	case backendGopsutil:
		return process_gopsutil.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", a.backend, backendNative, backendGopsutil)
	}
}

func (a *app) console(cmd *cobra.Command) *report.Console {
	return report.New(cmd.OutOrStdout(), report.Options{Debug: a.debug, NoColor: a.noColor})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "procstop",
		Short: "Terminate processes matching a name list",
		Long: `procstop enumerates running processes, resolves each executable name and
path, and terminates every process whose name contains one of the fragments
in the configured list.

The config file is JSON:

  {"mode": "blacklist", "proccess_list": ["calc", "notepad"]}

Its path comes from --config, then the procstop_config environment
variable, then the user config directory.`,
		Example: `  # Kill every process whose name contains a listed fragment
  procstop run --verbose

  # Preview matches without killing anything
  procstop run --verbose --disable-proc-termination

  # Keep scanning every 10 seconds
  procstop run --interval 10s

  # List all processes
  procstop list`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, a, runFlags{})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: $procstop_config or the user config directory)")
	flags.BoolVarP(&a.debug, "debug", "d", false, "print every process and a per-step trace")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "report kill intent and kill success")
	flags.BoolVarP(&a.dryRun, "disable-proc-termination", "n", false, "match and report, but never terminate")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&a.backend, "backend", backendNative, "process backend: native or gopsutil")

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}
