package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procstop/config"
	"procstop/notify"
	"procstop/process"
	"procstop/scanner"

	"github.com/spf13/cobra"
)

type runFlags struct {
	interval time.Duration
	notify   bool
}

func newRunCmd(a *app) *cobra.Command {
	var rf runFlags

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Scan once, or every --interval, and terminate matching processes",
		Long: `Enumerate processes once, then for every configured name fragment scan the
whole process table and terminate each process whose name contains it.

With --interval the scan repeats until interrupted. A scan in progress always
runs to completion.

In whitelist mode listed processes are protected and nothing is terminated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, a, rf)
		},
	}

	runCmd.Flags().DurationVarP(&rf.interval, "interval", "i", 0, "repeat the scan at this interval until interrupted")
	runCmd.Flags().BoolVar(&rf.notify, "notify", false, "send a desktop notification when processes are killed")

	return runCmd
}

func runScan(cmd *cobra.Command, a *app, rf runFlags) error {
	path := config.Path(a.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	platform, err := a.platform()
	if err != nil {
		return err
	}

	console := a.console(cmd)
	console.Debugf("Loaded %s: mode %s, %d names", path, cfg.Mode, len(cfg.ProcessList))

	s, err := scanner.New(cfg, scanner.Options{
		Debug:      a.debug,
		Verbose:    a.verbose,
		DryRun:     a.dryRun,
		ProtectPID: process.ProcessID(os.Getpid()),
	}, platform, console)
	if err != nil {
		return err
	}

	each := func(r scanner.Report) {
		if !rf.notify {
			return
		}
		if err := notify.Killed(a.notifier, r.Killed()); err != nil {
			console.Debugf("Notification failed: %v", err)
		}
	}

	if rf.interval > 0 {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.Watch(ctx, rf.interval, each)
	}

	each(s.Scan())
	return nil
}
