package main

import (
	"errors"
	"fmt"

	"github.com/fieldpos/syncqueue/connectivity"
	"github.com/fieldpos/syncqueue/internal/x/loggingx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newDrainCommand(cc *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Upload the queued operations",
		Long: "Upload the queued operations in order, stopping at the first failure.\n\n" +
			"With --watch the command keeps running and drains whenever the " +
			"configured probe address becomes reachable.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := cc.openSession(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close() // nolint:errcheck

			if !watch {
				n := s.Manager.Len()
				if err := s.Manager.Drain(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d operation(s)\n", n)
				return nil
			}

			addr := s.Config.Connectivity.ProbeAddress
			if addr == "" {
				return errors.New("connectivity.probe_address must be set to use --watch")
			}

			prober := &connectivity.Prober{
				Address:  addr,
				Interval: s.Config.ProbeInterval(),
				Timeout:  s.Config.ProbeTimeout(),
				Logger:   loggingx.FromZap(s.Logger),
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return prober.Run(ctx)
			})
			g.Go(func() error {
				return s.Manager.Run(ctx, prober)
			})

			return g.Wait()
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and drain whenever the device is online")

	return cmd
}
