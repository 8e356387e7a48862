package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fetchd/internal/daemon"
	"fetchd/internal/logging"
	"fetchd/internal/preflight"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the fetchd daemon and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if !skipPreflight {
				results := preflight.Run(rt.cfg)
				for _, result := range results {
					if !result.Passed {
						fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s failed: %s\n", result.Name, result.Detail)
					}
				}
				if !preflight.AllPassed(results) {
					return fmt.Errorf("preflight checks failed (use --skip-preflight to start anyway)")
				}
			}

			d, err := daemon.New(rt.cfg, rt.store, rt.processor, rt.deliverer, rt.logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetchd listening on %s\n", d.Addr())

			<-runCtx.Done()
			rt.logger.Info("shutdown signal received", logging.String(logging.FieldComponent, "daemon"))
			d.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Start even if preflight checks fail")
	return cmd
}
