package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fetchd/internal/preflight"
	"fetchd/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools, directories, and request counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.Run(cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				mark := "ok"
				if !result.Passed {
					mark = "FAIL"
				}
				rows = append(rows, []string{result.Name, mark, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "State", "Detail"}, rows, nil))

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			summary, err := store.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requests: %d total, %d pending, %d processing, %d completed, %d failed\n",
				summary.Total, summary.Pending, summary.Processing, summary.Completed, summary.Failed)

			if !preflight.AllPassed(results) {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}
