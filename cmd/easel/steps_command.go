package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List pipeline steps, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				steps := s.lib.Steps()
				if len(steps) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No steps")
					return nil
				}

				rows := make([][]string, 0, len(steps))
				for _, step := range steps {
					detail := step.OutputAssetID
					if step.Error != "" {
						detail = step.Error
					}
					rows = append(rows, []string{
						step.ID,
						string(step.Kind),
						string(step.Status),
						step.Provider,
						detail,
						step.UpdatedAt.Format("2006-01-02 15:04:05"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Kind", "Status", "Provider", "Output / Error", "Updated"},
					rows, nil))
				return nil
			})
		},
	}
}
