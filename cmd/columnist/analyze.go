package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edakit/columnist/internal/adapter/report"
	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/service"
	"github.com/spf13/cobra"
)

var (
	analyzeSource string
	analyzeColumn string
	analyzeType   string
	analyzeTable  string
	analyzeLimit  int
	analyzeOutput string
	analyzeFormat string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the value distribution of one column",
	Example: "  columnist analyze --source events.parquet --column status\n" +
		"  columnist analyze --source users.csv --column country --limit 20 --output report.md\n" +
		"  columnist analyze --source postgres://localhost/app --table orders --column status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.close(ctx) }()

		limit := analyzeLimit
		if limit <= 0 {
			limit = a.cfg.DefaultLimit
		}

		result, err := a.analyzer().AnalyzeColumn(ctx, service.AnalyzeRequest{
			Source:     analyzeSource,
			Column:     analyzeColumn,
			SourceType: domain.SourceType(analyzeType),
			Table:      analyzeTable,
			Limit:      limit,
		})
		if err != nil {
			return err
		}

		domain.MaskDistribution(result.Distribution, a.pol.MaskFor(analyzeColumn))

		if analyzeFormat == "json" {
			return writeJSON(result, analyzeOutput)
		}
		return report.ColumnReport(result).Write(analyzeOutput)
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeSource, "source", "", "path to data file or database URL")
	f.StringVar(&analyzeColumn, "column", "", "column name to analyze")
	f.StringVar(&analyzeType, "type", "", "override source type detection: parquet, csv, or json")
	f.StringVar(&analyzeTable, "table", "", "table name (required for database sources)")
	f.IntVar(&analyzeLimit, "limit", 0, "max unique values to display (default 50)")
	f.StringVar(&analyzeOutput, "output", "", "output file path (default: stdout)")
	f.StringVar(&analyzeFormat, "format", "markdown", "output format: markdown or json")
	_ = analyzeCmd.MarkFlagRequired("source")
	_ = analyzeCmd.MarkFlagRequired("column")
}

func writeJSON(v any, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
