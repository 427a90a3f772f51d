package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/staffpulse/analytics-api/internal/app"
	"github.com/staffpulse/analytics-api/internal/domain/dataimport"
)

type importOptions struct {
	file       string
	importType string
	dryRun     bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a kanban or employee export (xlsx, xls, csv, json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			importType, err := dataimport.ParseType(opts.importType)
			if err != nil {
				return err
			}

			return withServices(cmd.Context(), func(services *app.Services) error {
				f, err := os.Open(opts.file)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", opts.file, err)
				}
				defer f.Close()

				req := dataimport.ImportRequest{
					Filename: filepath.Base(opts.file),
					File:     f,
					Type:     importType,
				}
				if opts.dryRun {
					preview, err := services.Import.Validate(cmd.Context(), req)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), preview)
				}

				result, err := services.Import.Import(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "File to import (required)")
	cmd.Flags().StringVar(&opts.importType, "type", string(dataimport.TypeKanban), "Import type: kanban or employees")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate the file without writing")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
