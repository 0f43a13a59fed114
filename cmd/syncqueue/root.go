package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	cc := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "syncqueue",
		Short:         "Inspect and drain the offline sync queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfigAnnotation] != "" {
				return nil
			}
			_, err := cc.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newListCommand(cc))
	rootCmd.AddCommand(newEnqueueCommand(cc))
	rootCmd.AddCommand(newDrainCommand(cc))
	rootCmd.AddCommand(newConfigCommand(cc))

	return rootCmd
}
