package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fieldpos/syncqueue"
	"github.com/spf13/cobra"
)

func newListCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the operations waiting to be uploaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := cc.openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close() // nolint:errcheck

			ops := s.Manager.Operations()
			if len(ops) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderOperations(ops))
			return nil
		},
	}
}

func renderOperations(ops []syncqueue.PendingOperation) string {
	rows := make([][]string, 0, len(ops))
	for i, op := range ops {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			op.ID,
			valueOrDash(op.Type),
			valueOrDash(op.DeviceID),
			op.Timestamp.UTC().Format(time.RFC3339),
			strconv.Itoa(len(op.Payload)),
		})
	}

	return renderTable(
		[]string{"#", "ID", "Type", "Device", "Enqueued", "Bytes"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func valueOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
