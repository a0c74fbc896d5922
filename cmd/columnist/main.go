package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	flagDatabaseURL  string
	flagLogLevel     string
	flagQueryTimeout time.Duration
	flagMaxRows      int
	flagPolicyFile   string
	flagAuditLog     string
	flagOTel         bool
)

var rootCmd = &cobra.Command{
	Use:           "columnist",
	Short:         "Column distribution analysis for tabular data sources",
	Long: "columnist analyzes the value distribution of columns in parquet, CSV, and JSON\n" +
		"files and in database tables: null rates, cardinality, top values, and\n" +
		"deterministic observations, rendered as markdown or JSON.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDatabaseURL, "database-url", "", "database connection URL (overrides DATABASE_URL)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.DurationVar(&flagQueryTimeout, "query-timeout", 0, "per-query timeout (e.g. 30s)")
	pf.IntVar(&flagMaxRows, "max-rows", 0, "row cap for raw query results")
	pf.StringVar(&flagPolicyFile, "policy", "", "path to redaction policy YAML")
	pf.StringVar(&flagAuditLog, "audit-log", "", "path to NDJSON audit log file")
	pf.BoolVar(&flagOTel, "otel", false, "enable OpenTelemetry tracing and metrics")

	rootCmd.AddCommand(analyzeCmd, inspectCmd, queryCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
