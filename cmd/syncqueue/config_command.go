package main

import (
	"errors"
	"fmt"

	"github.com/fieldpos/syncqueue/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(newConfigInitCommand(cc))
	cmd.AddCommand(newConfigShowCommand(cc))

	return cmd
}

func newConfigInitCommand(cc *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a configuration file containing the defaults",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, exists, err := config.ResolvePath(*cc.configFlag)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite it", path)
			}

			if err := config.Encode(path, config.Default()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func newConfigShowCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			if cfg == nil {
				return errors.New("configuration is not loaded")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cc.configPath)
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}
