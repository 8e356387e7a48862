package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fetchd/internal/api"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var mediaType string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "process <url>",
		Short: "Process a single media URL without the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.processor.Process(cmd.Context(), args[0], mediaType)
			if err != nil {
				return err
			}

			if jsonOutput {
				payload := api.FromResult(result, result.ArtifactPath)
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(payload)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			fmt.Fprintf(cmd.OutOrStdout(), "Artifact: %s\n", result.ArtifactPath)
			if result.Info.Title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Title:    %s\n", result.Info.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mediaType, "type", "t", "video", "Output type: video, audio, or text")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}
