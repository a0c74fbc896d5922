package main

import (
	"github.com/edakit/columnist/internal/adapter/report"
	"github.com/edakit/columnist/internal/core/domain"
	"github.com/spf13/cobra"
)

var (
	inspectSource string
	inspectType   string
	inspectTable  string
	inspectOutput string
	inspectFormat string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a source: row count, columns, and types",
	Example: "  columnist inspect --source events.parquet\n" +
		"  columnist inspect --source postgres://localhost/app --table orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.close(ctx) }()

		info, err := a.inspector().InspectSource(ctx, inspectSource, domain.SourceType(inspectType), inspectTable)
		if err != nil {
			return err
		}

		if inspectFormat == "json" {
			return writeJSON(info, inspectOutput)
		}
		return report.InspectReport(info).Write(inspectOutput)
	},
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectSource, "source", "", "path to data file or database URL")
	f.StringVar(&inspectType, "type", "", "override source type detection: parquet, csv, or json")
	f.StringVar(&inspectTable, "table", "", "table name (required for database sources)")
	f.StringVar(&inspectOutput, "output", "", "output file path (default: stdout)")
	f.StringVar(&inspectFormat, "format", "markdown", "output format: markdown or json")
	_ = inspectCmd.MarkFlagRequired("source")
}
