package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"procstop/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or generate the config file",
	}

	var write, force bool
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a default config, or write it with --write",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Defaults()

			if !write {
				data, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			path := config.Path(a.configPath)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	generateCmd.Flags().BoolVarP(&write, "write", "w", false, "write the config file instead of printing it")
	generateCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved config path and its validated contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(a.configPath)
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", path, data)
			return nil
		},
	}

	configCmd.AddCommand(generateCmd)
	configCmd.AddCommand(showCmd)
	return configCmd
}
