package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fetchd/internal/api"
	"fetchd/internal/media"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent processing requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			items, err := api.NewHistoryService(rt.store).List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(api.RequestListResponse{Requests: items})
			}

			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No requests recorded yet.")
				return nil
			}

			headers := []string{"ID", "Type", "Status", "Title", "Duration", "URL"}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, historyRow(item))
			}

			if stdoutIsTerminal() {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(row, "\t"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of requests to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit history as JSON")
	return cmd
}

var titleCaser = cases.Title(language.Und)

func historyRow(item api.RequestItem) []string {
	duration := ""
	if item.Duration > 0 {
		duration = media.FormatClock(item.Duration)
	}
	title := item.Title
	if title == "" && item.ErrorMessage != "" {
		title = item.ErrorMessage
	}
	return []string{
		fmt.Sprintf("%d", item.ID),
		titleCaser.String(item.Kind),
		item.Status,
		title,
		duration,
		item.URL,
	}
}
