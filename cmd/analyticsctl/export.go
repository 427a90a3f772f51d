package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/staffpulse/analytics-api/internal/app"
	"github.com/staffpulse/analytics-api/internal/domain/report"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

type exportOptions struct {
	reportType      string
	format          string
	outputDir       string
	departments     string
	positions       string
	projects        string
	includeInactive bool
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a report to an Excel or PDF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}

			return withServices(cmd.Context(), func(services *app.Services) error {
				file, err := services.Report.Export(cmd.Context(), req)
				if err != nil {
					return err
				}

				path := filepath.Join(opts.outputDir, file.Filename)
				if err := os.WriteFile(path, file.Content.Bytes(), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				slog.Info("Report exported", "type", req.Type, "path", path)
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.reportType, "type", "", "Report type: employees, workload, kpi, departments or risks (required)")
	cmd.Flags().StringVar(&opts.format, "format", string(report.FormatExcel), "Output format: excel or pdf")
	cmd.Flags().StringVar(&opts.outputDir, "output", ".", "Directory to write the file into")
	cmd.Flags().StringVar(&opts.departments, "departments", "", "Comma separated department ids")
	cmd.Flags().StringVar(&opts.positions, "positions", "", "Comma separated position ids")
	cmd.Flags().StringVar(&opts.projects, "projects", "", "Comma separated project ids")
	cmd.Flags().BoolVar(&opts.includeInactive, "include-inactive", false, "Include deactivated employees")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func (o exportOptions) request() (report.ExportRequest, error) {
	reportType, err := report.ParseType(o.reportType)
	if err != nil {
		return report.ExportRequest{}, err
	}

	req := report.ExportRequest{Type: reportType, Format: o.format}
	if req.Departments, err = validator.ParseIDList(o.departments); err != nil {
		return report.ExportRequest{}, fmt.Errorf("invalid --departments: %w", err)
	}
	if req.Positions, err = validator.ParseIDList(o.positions); err != nil {
		return report.ExportRequest{}, fmt.Errorf("invalid --positions: %w", err)
	}
	if req.Projects, err = validator.ParseIDList(o.projects); err != nil {
		return report.ExportRequest{}, fmt.Errorf("invalid --projects: %w", err)
	}
	if o.includeInactive {
		active := false
		req.Active = &active
	}
	return req, nil
}
