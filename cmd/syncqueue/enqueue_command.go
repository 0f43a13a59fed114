package main

import (
	"fmt"
	"io"

	"github.com/fieldpos/syncqueue"
	"github.com/spf13/cobra"
)

func newEnqueueCommand(cc *commandContext) *cobra.Command {
	var opType string

	cmd := &cobra.Command{
		Use:   "enqueue [payload | -]",
		Short: "Append an operation to the queue",
		Long: "Append an operation to the queue.\n\n" +
			"The payload is taken from the argument, or read from standard input " +
			"when the argument is \"-\" or omitted.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			if len(args) == 1 && args[0] != "-" {
				payload = []byte(args[0])
			} else {
				var err error
				payload, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read payload: %w", err)
				}
			}

			s, err := cc.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close() // nolint:errcheck

			op, err := s.Manager.Enqueue(
				cmd.Context(),
				syncqueue.Operation{
					Type:    opType,
					Payload: payload,
				},
			)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), op.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opType, "type", "t", "", "Operation type, such as \"payment\"")

	return cmd
}
