package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alumni-scraper/config"
	"alumni-scraper/metrics"
	"alumni-scraper/models"
	"alumni-scraper/scraper"
	"alumni-scraper/scraper/linkedin"
	"alumni-scraper/services"
	"alumni-scraper/storage"
	"alumni-scraper/utils"
)

var (
	keywords string
	limit    int
	output   string
	authMode string
)

var rootCmd = &cobra.Command{
	Use:   "alumni-scraper",
	Short: "Collect LinkedIn profiles of IIT alumni into a CSV file",
	Long: `alumni-scraper logs in to LinkedIn, runs one people search, keeps the
profiles whose education mentions an Indian Institute of Technology and
writes them to a CSV file (and optionally PostgreSQL).

Credentials and defaults come from the environment or a .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&keywords, "keywords", "k", "", "search keywords (default $SEARCH_KEYWORDS)")
	rootCmd.Flags().IntVarP(&limit, "limit", "n", -1, "maximum candidates to request (default $SEARCH_LIMIT)")
	rootCmd.Flags().StringVarP(&output, "out", "o", "", "output CSV path (default: timestamped file name)")
	rootCmd.Flags().StringVar(&authMode, "auth-mode", "", "api or browser (default $AUTH_MODE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "alumni-scraper: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if keywords != "" {
		cfg.SearchKeywords = keywords
	}
	if limit >= 0 {
		cfg.SearchLimit = limit
	}
	if output != "" {
		cfg.OutputFile = output
	}
	if authMode != "" {
		cfg.AuthMode = authMode
	}

	logger, err := utils.NewFileLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := uuid.New()
	logger.Info("=== Alumni scraper starting (run %s) ===", runID)
	logger.Info("Config: keywords %q | limit %d | delay %dms | auth %s",
		cfg.SearchKeywords, cfg.SearchLimit, cfg.RateLimitMs, cfg.AuthMode)

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		srv := m.Serve(cfg.MetricsAddr, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	markers, err := config.LoadMarkers(cfg.MarkersFile)
	if err != nil {
		logger.Error("Loading markers failed: %v", err)
		return err
	}
	classifier := services.NewClassifier(markers...)
	logger.Debug("Institution markers: %v", classifier.Markers())

	httpClient := linkedin.NewHTTPClient(time.Duration(cfg.HTTPTimeoutSec) * time.Second)
	auth, err := newAuthenticator(cfg, httpClient, logger)
	if err != nil {
		return err
	}

	session, err := auth.Authenticate(ctx, cfg.Credentials())
	if err != nil {
		return err
	}

	s := scraper.New(logger, classifier, utils.NewFixedPacer(cfg.RateLimitMs), m)
	records, searchErr := s.Search(ctx, session, cfg.SearchKeywords, cfg.SearchLimit)
	if searchErr != nil {
		logger.Warn("Exporting %d records collected before the search failed", len(records))
	}

	exporter := storage.NewCSVExporter("", logger, m)
	path, err := exporter.Export(records, cfg.OutputFile)
	if err != nil {
		return errors.Join(searchErr, err)
	}

	if cfg.PostgresEnabled {
		storeInPostgres(cfg, logger, m, runID, records)
	}

	summarySvc := services.NewSummaryService(logger, classifier)
	summarySvc.Print(cmd.OutOrStdout(), summarySvc.Generate(s.Scanned(), records))

	if searchErr != nil {
		return searchErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  Done. %d matched profiles → %s\n\n", len(records), path)
	return nil
}

func newAuthenticator(cfg *config.Config, httpClient *http.Client, logger *utils.Logger) (linkedin.Authenticator, error) {
	switch cfg.AuthMode {
	case "api", "":
		return linkedin.NewAPIAuthenticator(cfg.LinkedInBaseURL, httpClient, logger)
	case "browser":
		return linkedin.NewBrowserAuthenticator(cfg.LinkedInBaseURL, cfg.ChromeBin, httpClient, logger)
	}
	return nil, fmt.Errorf("unknown auth mode %q (want api or browser)", cfg.AuthMode)
}

// storeInPostgres mirrors the run into PostgreSQL. Failures are logged only;
// the CSV file is the primary output.
func storeInPostgres(cfg *config.Config, logger *utils.Logger, m *metrics.Metrics, runID uuid.UUID, records models.ResultSet) {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), retry, m)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		return
	}
	var writer storage.RecordWriter = pgWriter
	defer writer.Close()

	if err := writer.Write(runID, records); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
	}
}
