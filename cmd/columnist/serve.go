package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/edakit/columnist/internal/adapter/mcp"
	"github.com/edakit/columnist/internal/adapter/postgres"
	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/service"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analysis tools over MCP stdio",
	Long: "Starts an MCP server on stdin/stdout exposing analyze_column and\n" +
		"inspect_source, plus a query tool when a database is configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.close(context.Background()) }()

		a.logger.Info("starting columnist",
			slog.String("version", version),
			slog.String("log_level", a.cfg.LogLevel.String()),
			slog.Int("default_limit", a.cfg.DefaultLimit),
			slog.String("query_timeout", a.cfg.QueryTimeout.String()),
		)

		// The query tool is only registered when a database is
		// configured; file analysis needs no connection.
		var querySvc *service.QueryService
		if a.cfg.DatabaseURL != "" {
			pool, err := postgres.NewPool(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()
			a.logger.Info("database pool connected", slog.String("db.system", "postgresql"))

			executor := postgres.NewExecutor(pool, a.cfg.MaxRows, a.cfg.QueryTimeout)
			querySvc = service.NewQueryService(domain.NewSQLGuard(), executor, a.auditor, a.logger, a.pol.Masks(), a.tracer, a.inst)
		}

		mcpServer := mcp.NewServer(version, a.analyzer(), a.inspector(), querySvc, a.pol.Masks(), a.logger, a.tracer, a.inst)
		stdioServer := mcpserver.NewStdioServer(mcpServer)

		a.logger.Info("serving MCP over stdio")
		if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
			return fmt.Errorf("stdio server: %w", err)
		}

		a.logger.Info("shutdown complete")
		return nil
	},
}
