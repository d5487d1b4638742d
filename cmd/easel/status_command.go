package main

import (
	"fmt"
	"strconv"

	"easel/internal/library"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show library and pipeline counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				stats := s.lib.Stats()

				rows := [][]string{
					{"Assets", strconv.Itoa(stats.Assets)},
					{"Steps", strconv.Itoa(stats.Steps)},
					{"  queued", strconv.Itoa(stats.StepsByStat[library.StepQueued])},
					{"  running", strconv.Itoa(stats.StepsByStat[library.StepRunning])},
					{"  done", strconv.Itoa(stats.StepsByStat[library.StepDone])},
					{"  failed", strconv.Itoa(stats.StepsByStat[library.StepFailed])},
					{"Canvases", strconv.Itoa(stats.Canvases)},
					{"Gallery", strconv.Itoa(stats.Gallery)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Resource", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight}))
				fmt.Fprintf(cmd.OutOrStdout(), "State database: %s\n", s.store.Path())
				return nil
			})
		},
	}
}
