package main

import (
	"procstop/process"
	"procstop/scanner"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every process with its name and path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := a.platform()
			if err != nil {
				return err
			}

			console := a.console(cmd)

			pids, err := process.ListProcesses(platform)
			if err != nil {
				console.Debugf("%v", err)
			}
			if len(pids) == 0 {
				console.Errorf(scanner.UnavailableMessage)
				return nil
			}

			resolver := process.NewResolver(platform, console)
			for i, pid := range pids {
				console.Line(i, resolver.Resolve(pid).String())
			}
			return nil
		},
	}
}
