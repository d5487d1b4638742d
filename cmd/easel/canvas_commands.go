package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCanvasCommand(ctx *commandContext) *cobra.Command {
	canvasCmd := &cobra.Command{
		Use:   "canvas",
		Short: "Manage workspace canvases",
	}

	canvasCmd.AddCommand(newCanvasListCommand(ctx))
	canvasCmd.AddCommand(newCanvasCreateCommand(ctx))
	canvasCmd.AddCommand(newCanvasDeleteCommand(ctx))

	return canvasCmd
}

func newCanvasListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List canvases, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				canvases := s.lib.Canvases()
				if len(canvases) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No canvases")
					return nil
				}

				active, _ := s.lib.ActiveCanvas()
				rows := make([][]string, 0, len(canvases))
				for _, canvas := range canvases {
					marker := ""
					if canvas.ID == active.ID {
						marker = "*"
					}
					assetName := ""
					if canvas.Asset != nil {
						assetName = canvas.Asset.Name
					}
					rows = append(rows, []string{
						marker,
						canvas.ID,
						canvas.Name,
						canvas.Type,
						assetName,
						canvas.CreatedAt.Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"", "ID", "Name", "Type", "Asset", "Created"},
					rows, nil))
				return nil
			})
		},
	}
}

func newCanvasCreateCommand(ctx *commandContext) *cobra.Command {
	var assetID string
	var canvasType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new canvas, optionally bound to an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				if assetID != "" {
					a, ok := s.lib.Asset(assetID)
					if !ok {
						return fmt.Errorf("asset %s not found", assetID)
					}
					created := s.lib.CreateCanvas(cmd.Context(), canvasType, a)
					fmt.Fprintf(cmd.OutOrStdout(), "Created canvas %s (%s)\n", created.Name, created.ID)
					return nil
				}
				created := s.lib.CreateCanvas(cmd.Context(), canvasType, nil)
				fmt.Fprintf(cmd.OutOrStdout(), "Created canvas %s (%s)\n", created.Name, created.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&assetID, "asset", "a", "", "Asset id to bind to the canvas")
	cmd.Flags().StringVar(&canvasType, "type", "image", "Canvas type")
	return cmd
}

func newCanvasDeleteCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a canvas, or all canvases with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				if all {
					s.lib.DeleteAllCanvases(cmd.Context())
					fmt.Fprintln(cmd.OutOrStdout(), "Deleted all canvases")
					return nil
				}
				if len(args) == 0 {
					return fmt.Errorf("canvas id required unless --all is set")
				}
				s.lib.DeleteCanvas(cmd.Context(), args[0])
				if active, ok := s.lib.ActiveCanvas(); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted; active canvas is now %s\n", active.Name)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Deleted; no canvases remain")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete every canvas")
	return cmd
}
