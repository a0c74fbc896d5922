package main

import (
	"fmt"

	"github.com/edakit/columnist/internal/adapter/postgres"
	"github.com/edakit/columnist/internal/adapter/report"
	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/service"
	"github.com/spf13/cobra"
)

var (
	queryOutput string
	queryFormat string
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a read-only SQL query against the configured database",
	Long: "Runs a single SELECT statement against the database configured via\n" +
		"DATABASE_URL or --database-url. Anything else is rejected before it\n" +
		"reaches the database, and a server-side row cap and timeout apply.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.close(ctx) }()

		if a.cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for query (set via env var or --database-url flag)")
		}

		pool, err := postgres.NewPool(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		executor := postgres.NewExecutor(pool, a.cfg.MaxRows, a.cfg.QueryTimeout)
		svc := service.NewQueryService(domain.NewSQLGuard(), executor, a.auditor, a.logger, a.pol.Masks(), a.tracer, a.inst)

		result, err := svc.Execute(ctx, args[0])
		if err != nil {
			return err
		}

		if queryFormat == "markdown" {
			return report.QueryReport(args[0], result.Columns, result.Rows).Write(queryOutput)
		}
		return writeJSON(result.Rows, queryOutput)
	},
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryOutput, "output", "", "output file path (default: stdout)")
	f.StringVar(&queryFormat, "format", "json", "output format: json or markdown")
}
