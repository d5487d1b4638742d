package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"easel/internal/asset"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage library assets",
	}

	assetsCmd.AddCommand(newAssetsListCommand(ctx))
	assetsCmd.AddCommand(newAssetsUploadCommand(ctx))
	assetsCmd.AddCommand(newAssetsDeleteCommand(ctx))
	assetsCmd.AddCommand(newAssetsExportCommand(ctx))
	assetsCmd.AddCommand(newAssetsCategorizeCommand(ctx))
	assetsCmd.AddCommand(newAssetsRefreshCommand(ctx))

	return assetsCmd
}

func newAssetsRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-home assets whose content URIs have expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				migrated, failed := s.lib.MigrateExpiredAssets(cmd.Context())
				if migrated == 0 && failed == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "All assets reachable")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d assets (%d failed)\n", migrated, failed)
				if err := s.notifier.NotifyMigrationCompleted(cmd.Context(), migrated, failed); err != nil {
					s.logger.Warn("migration notification failed", "error", err)
				}
				return nil
			})
		},
	}
}

func newAssetsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked assets, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				assets := s.lib.Assets()
				if len(assets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No assets")
					return nil
				}

				rows := make([][]string, 0, len(assets))
				for _, a := range assets {
					rows = append(rows, []string{
						a.ID,
						a.Name,
						string(a.Type),
						asset.DisplayLabel(a.Category),
						a.Subcategory,
						a.CreatedAt.Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Type", "Category", "Subcategory", "Created"},
					rows, nil))
				return nil
			})
		},
	}
}

func newAssetsUploadCommand(ctx *commandContext) *cobra.Command {
	var name string
	var assetType string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local file into transient blob storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read upload: %w", err)
				}
				if name == "" {
					name = filepath.Base(args[0])
				}
				typ := asset.Type(assetType)
				if !asset.ValidType(typ) {
					return fmt.Errorf("unknown asset type %q", assetType)
				}
				uploaded := s.lib.UploadAsset(cmd.Context(), name, typ, data)
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s)\n", uploaded.Name, uploaded.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the file name)")
	cmd.Flags().StringVar(&assetType, "type", "image", "Asset type: image, animation, or audio")
	return cmd
}

func newAssetsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete assets and revoke their transient storage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				before := s.lib.AssetCount()
				s.lib.DeleteAssets(cmd.Context(), args)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d assets\n", before-s.lib.AssetCount())
				return nil
			})
		},
	}
}

func newAssetsExportCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <id>...",
		Short: "Export asset content to files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				dir := outDir
				if dir == "" {
					dir = s.cfg.Paths.ExportDir
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}

				items := s.lib.ExportAssets(cmd.Context(), args)
				written := 0
				for i, item := range items {
					name := item.Name
					if name == "" {
						name = "asset-" + strconv.Itoa(i)
					}
					target := filepath.Join(dir, filepath.Base(name))
					if err := os.WriteFile(target, item.Data, 0o644); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "write %s: %v\n", target, err)
						continue
					}
					written++
				}

				failed := len(args) - written
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d of %d assets to %s\n", written, len(args), dir)
				if err := s.notifier.NotifyExportCompleted(cmd.Context(), written, failed); err != nil {
					s.logger.Warn("export notification failed", "error", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Destination directory (defaults to the configured export dir)")
	return cmd
}

func newAssetsCategorizeCommand(ctx *commandContext) *cobra.Command {
	var category string
	var subcategory string

	cmd := &cobra.Command{
		Use:   "categorize <id>",
		Short: "Reclassify an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				if err := s.lib.UpdateAssetCategory(cmd.Context(), args[0], category, subcategory); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category value")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "Subcategory value")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}
