package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"easel/internal/mask"
)

func newMaskCommand(ctx *commandContext) *cobra.Command {
	maskCmd := &cobra.Command{
		Use:   "mask",
		Short: "Mask utilities",
	}

	maskCmd.AddCommand(newMaskCheckCommand(ctx))
	return maskCmd
}

func newMaskCheckCommand(ctx *commandContext) *cobra.Command {
	var padding int
	var feather int
	var invert bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "check <png>",
		Short: "Normalize a painted mask and report on its quality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open mask: %w", err)
			}
			defer file.Close()

			src, err := mask.DecodePNG(file)
			if err != nil {
				return fmt.Errorf("decode mask: %w", err)
			}

			normalized, report := mask.Normalize(src, mask.Options{
				Padding:       padding,
				FeatherRadius: feather,
				Invert:        invert,
				Development:   cfg.Development,
				MinCoverage:   cfg.Mask.MinCoverage,
				MaxCoverage:   cfg.Mask.MaxCoverage,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Coverage: %.2f%% (%d px)\n", report.Coverage*100, report.Area)
			fmt.Fprintf(out, "Valid: %s\n", yesNo(report.IsValid))
			for _, warning := range report.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", warning)
			}
			for _, suggestion := range report.Suggestions {
				fmt.Fprintf(out, "Suggestion: %s\n", suggestion)
			}

			if outPath != "" {
				target, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer target.Close()
				if err := mask.EncodePNG(target, normalized); err != nil {
					return fmt.Errorf("encode output: %w", err)
				}
				fmt.Fprintf(out, "Wrote normalized mask to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&padding, "padding", 0, "Dilate the edit region by this many pixels")
	cmd.Flags().IntVar(&feather, "feather", 0, "Feather the mask edge with this blur radius")
	cmd.Flags().BoolVar(&invert, "invert", false, "Invert mask orientation (development builds only)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the normalized mask to this path")
	return cmd
}
