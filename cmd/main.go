package main

//
//  @title           sharepeak API
//  @version         1.0
//  @description     Share price files: per company, the year and month of the highest price.
//  @termsOfService  https://github.com/guttosm/sharepeak
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/sharepeak
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        reports
//  @tag.description Stored reports and on-the-fly analysis of share data files
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/guttosm/sharepeak/config"
	_ "github.com/guttosm/sharepeak/docs" // swagger docs
	"github.com/guttosm/sharepeak/internal/app"
	"github.com/guttosm/sharepeak/internal/ingestion"
	"github.com/guttosm/sharepeak/internal/logger"
	"github.com/guttosm/sharepeak/internal/report"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	mode     string
	filePath string
	dir      string
	parallel int
	force    bool
	port     string
}

// parseFlags parses args (without the program name) on top of the config defaults.
func parseFlags(args []string, cfg config.Config) (cliOptions, error) {
	var o cliOptions
	fs := pflag.NewFlagSet("sharepeak", pflag.ContinueOnError)
	fs.StringVar(&o.mode, "mode", "report", "Mode: report, ingest or api")
	fs.StringVarP(&o.filePath, "file_path", "f", "", "Share data file to report on (report mode)")
	fs.StringVar(&o.dir, "dir", cfg.Shares.Dir, "Directory with .csv files (ingest mode)")
	fs.IntVar(&o.parallel, "parallel", cfg.Shares.Parallel, "How many files to process concurrently (0=auto, max 8)")
	fs.BoolVar(&o.force, "force", false, "Reprocess files even if already ingested (replaces the stored report)")
	fs.StringVar(&o.port, "port", cfg.Server.Port, "Port for API mode")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch o.mode {
	case "report":
		if o.filePath == "" {
			return o, errors.New("--file_path is required in report mode")
		}
	case "ingest", "api":
	default:
		return o, fmt.Errorf("unknown mode %q", o.mode)
	}
	return o, nil
}

// runReport aggregates one file and writes the table to out.
// Nothing is written when the file fails at any row.
func runReport(ctx context.Context, path string, out io.Writer, opts ...ingestion.Option) error {
	res, err := ingestion.AnalyzeFile(ctx, path, opts...)
	if err != nil {
		return err
	}
	logger.L().Debug().Str("file", path).Int("rows", res.Rows).Int("companies", len(res.Companies)).Msg("file aggregated")
	return report.WriteTable(out, res.Entries)
}

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown terminates the HTTP server and releases resources once
// SIGINT or SIGTERM is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the sharepeak application.
//
// Modes (selected via --mode flag):
//   - report: Prints the max price table of one file (-f) to stdout.
//   - ingest: Aggregates every .csv file of --dir and stores the reports in PostgreSQL.
//   - api:    Starts the REST API over the stored reports.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	opts, err := parseFlags(os.Args[1:], config.AppConfig)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// stdout belongs to the table in report mode
	if opts.mode == "report" {
		logger.InitTo(os.Stderr)
	} else {
		logger.Init()
	}

	delimiter := ingestion.WithComma(config.AppConfig.Shares.Delimiter)

	switch opts.mode {
	case "report":
		if err := runReport(ctx, opts.filePath, os.Stdout, delimiter); err != nil {
			logger.L().Error().Err(err).Str("file", opts.filePath).Msg("report failed")
			os.Exit(1)
		}

	case "ingest":
		logger.L().Info().Str("dir", opts.dir).Msg("running ingestion")

		// Direct DB connection for ingestion
		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		// Stored reports replace cached ones, so the API must not keep serving them
		reportCache, client := app.InitReportCache(config.AppConfig)
		if client != nil {
			defer func() { _ = client.Close() }()
		}

		if err := ingestion.ProcessDirectory(ctx, opts.dir, db, reportCache, opts.parallel, opts.force, delimiter); err != nil {
			logger.L().Error().Err(err).Msg("ingestion failed")
			if client != nil {
				_ = client.Close()
			}
			_ = db.Close()
			os.Exit(1)
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, opts.port)
		gracefulShutdown(ctx, server, cleanup)
	}
}
