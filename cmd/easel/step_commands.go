package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"easel/internal/library"
	"easel/internal/mask"
	"easel/internal/providers"
)

// stepFlags holds the options shared by every step command.
type stepFlags struct {
	input    string
	provider string
}

func (f *stepFlags) register(cmd *cobra.Command, requireInput bool) {
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "Provider adapter key (defaults per operation)")
	if requireInput {
		cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input asset id")
		_ = cmd.MarkFlagRequired("input")
	}
}

func newStepCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newGenerateCommand(ctx),
		newEditCommand(ctx),
		newUpscaleCommand(ctx),
		newRemoveBGCommand(ctx),
		newAddTextCommand(ctx),
		newAnimateCommand(ctx),
		newAddSoundCommand(ctx),
	}
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a new image from a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				params := providers.Params{Prompt: strings.Join(args, " ")}
				output, err := s.engine.GenerateDirectly(cmd.Context(), params, flags.provider)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%s)\n", output.Name, output.ID)
				return nil
			})
		},
	}

	flags.register(cmd, false)
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags
	var instruction string
	var maskPath string
	var allowMaskWarnings bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit an asset with an instruction and optional inpainting mask",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				params := providers.Params{Instruction: instruction}
				if maskPath != "" {
					normalized, err := prepareMask(s, maskPath, allowMaskWarnings)
					if err != nil {
						return err
					}
					params.Mask = normalized
				}
				return runStep(cmd, s, library.KindEdit, []string{flags.input}, params, flags.provider)
			})
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&instruction, "instruction", "", "Edit instruction for the provider")
	cmd.Flags().StringVar(&maskPath, "mask", "", "PNG mask constraining the edit region")
	cmd.Flags().BoolVar(&allowMaskWarnings, "allow-mask-warnings", false, "Submit even when the mask quality check fails")
	_ = cmd.MarkFlagRequired("instruction")
	return cmd
}

func newUpscaleCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags

	cmd := &cobra.Command{
		Use:   "upscale",
		Short: "Upscale an asset to a higher resolution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				return runStep(cmd, s, library.KindUpscale, []string{flags.input}, providers.Params{}, flags.provider)
			})
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newRemoveBGCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags

	cmd := &cobra.Command{
		Use:   "remove-bg",
		Short: "Remove the background from an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				return runStep(cmd, s, library.KindRemoveBG, []string{flags.input}, providers.Params{}, flags.provider)
			})
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newAddTextCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags
	var text string

	cmd := &cobra.Command{
		Use:   "add-text",
		Short: "Render text onto an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				return runStep(cmd, s, library.KindAddText, []string{flags.input}, providers.Params{Text: text}, flags.provider)
			})
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&text, "text", "", "Text to render")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newAnimateCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags
	var prompt string

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Animate a still asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				return runStep(cmd, s, library.KindAnimate, []string{flags.input}, providers.Params{Prompt: prompt}, flags.provider)
			})
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&prompt, "prompt", "", "Motion prompt for the animation")
	return cmd
}

func newAddSoundCommand(ctx *commandContext) *cobra.Command {
	var flags stepFlags
	var prompt string

	cmd := &cobra.Command{
		Use:   "add-sound",
		Short: "Generate a soundtrack for an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				return runStep(cmd, s, library.KindAddSound, []string{flags.input}, providers.Params{Prompt: prompt}, flags.provider)
			})
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&prompt, "prompt", "", "Sound prompt")
	return cmd
}

// runStep enqueues a step, executes it synchronously, and reports the
// terminal state to the user.
func runStep(cmd *cobra.Command, s *session, kind library.StepKind, inputIDs []string, params providers.Params, providerKey string) error {
	id, err := s.engine.EnqueueStep(cmd.Context(), kind, inputIDs, params, providerKey)
	if err != nil {
		return err
	}
	if err := s.engine.RunStep(cmd.Context(), id); err != nil {
		return err
	}

	step, ok := s.lib.Step(id)
	if !ok {
		return fmt.Errorf("step %s disappeared during run", id)
	}
	if step.Status == library.StepFailed {
		return fmt.Errorf("%s failed: %s", kind, step.Error)
	}

	output, _ := s.lib.Asset(step.OutputAssetID)
	if output != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s complete: %s (%s)\n", kind, output.Name, output.ID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s complete\n", kind)
	}
	return nil
}

// prepareMask loads a painted mask, normalizes it to the canonical
// white=edit orientation, and enforces the quality gate.
func prepareMask(s *session, path string, allowWarnings bool) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask: %w", err)
	}
	defer file.Close()

	src, err := mask.DecodePNG(file)
	if err != nil {
		return nil, fmt.Errorf("decode mask: %w", err)
	}

	normalized, report := mask.Normalize(src, mask.Options{
		Padding:       s.cfg.Mask.Padding,
		FeatherRadius: s.cfg.Mask.FeatherRadius,
		MinCoverage:   s.cfg.Mask.MinCoverage,
		MaxCoverage:   s.cfg.Mask.MaxCoverage,
		Development:   s.cfg.Development,
	})
	if err := s.engine.ValidateMaskForSubmit(report, allowWarnings); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := mask.EncodePNG(&buf, normalized); err != nil {
		return nil, fmt.Errorf("encode mask: %w", err)
	}
	return buf.Bytes(), nil
}
