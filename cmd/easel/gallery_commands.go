package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGalleryCommand(ctx *commandContext) *cobra.Command {
	galleryCmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage saved gallery images",
	}

	galleryCmd.AddCommand(newGalleryListCommand(ctx))
	galleryCmd.AddCommand(newGallerySaveCommand(ctx))
	galleryCmd.AddCommand(newGalleryFavoriteCommand(ctx))
	galleryCmd.AddCommand(newGalleryDeleteCommand(ctx))

	return galleryCmd
}

func newGalleryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List gallery images, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				images := s.lib.GalleryImages()
				if len(images) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Gallery is empty")
					return nil
				}

				rows := make([][]string, 0, len(images))
				for _, image := range images {
					rows = append(rows, []string{
						image.ID,
						image.Prompt,
						image.Model,
						image.Category,
						yesNo(image.Favorite),
						image.SavedAt.Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Prompt", "Model", "Category", "Favorite", "Saved"},
					rows, nil))
				return nil
			})
		},
	}
}

func newGallerySaveCommand(ctx *commandContext) *cobra.Command {
	var prompt string
	var model string
	var category string

	cmd := &cobra.Command{
		Use:   "save <asset-id>",
		Short: "Promote an asset into the gallery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				saved, err := s.lib.SaveToGallery(cmd.Context(), args[0], prompt, model, category, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved gallery image %s\n", saved.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt that produced the image")
	cmd.Flags().StringVar(&model, "model", "", "Model that produced the image")
	cmd.Flags().StringVar(&category, "category", "generated", "Gallery category")
	return cmd
}

func newGalleryFavoriteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle the favorite flag on a gallery image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				return s.lib.ToggleFavorite(cmd.Context(), args[0])
			})
		},
	}
}

func newGalleryDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a gallery image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				s.lib.DeleteGalleryImage(cmd.Context(), args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
