package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"alumni-scraper/metrics"
	"alumni-scraper/models"
	"alumni-scraper/utils"
)

const (
	postgresSink  = "postgres"
	columnsPerRow = 9
)

// PostgresWriter persists matched profiles to PostgreSQL, one row per record
// per run. Rows are keyed by (run_id, position) so duplicates within a run
// are kept and rewriting the same run is idempotent.
type PostgresWriter struct {
	db      *sql.DB
	logger  *utils.Logger
	metrics *metrics.Metrics
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig, m *metrics.Metrics) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, logger: retry.Logger, metrics: m}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS linkedin_profiles (
			id          SERIAL PRIMARY KEY,
			run_id      UUID        NOT NULL,
			position    INTEGER     NOT NULL,
			profile_id  TEXT,
			name        TEXT,
			headline    TEXT,
			company     TEXT,
			industry    TEXT,
			location    TEXT,
			education   JSONB       NOT NULL DEFAULT '[]',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_linkedin_profiles_profile_id ON linkedin_profiles(profile_id);
		CREATE INDEX IF NOT EXISTS idx_linkedin_profiles_location   ON linkedin_profiles(location);
	`)
	return err
}

// Write batch-inserts records for runID in result-set order.
func (pw *PostgresWriter) Write(runID uuid.UUID, records models.ResultSet) error {
	if len(records) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		query, args, err := buildInsert(runID, i, records[i:end])
		if err != nil {
			pw.metrics.ExportFailed(postgresSink)
			return fmt.Errorf("postgres: build batch: %w", err)
		}
		if _, err := pw.db.Exec(query, args...); err != nil {
			pw.metrics.ExportFailed(postgresSink)
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	pw.metrics.Exported(postgresSink, len(records))
	pw.logger.Info("[postgres] Stored %d records for run %s", len(records), runID)
	return nil
}

// buildInsert renders one multi-row INSERT. offset is the position of the
// first record of batch within its result set.
func buildInsert(runID uuid.UUID, offset int, batch models.ResultSet) (string, []interface{}, error) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*columnsPerRow)

	for idx, r := range batch {
		edu, err := EncodeEducation(r.Education)
		if err != nil {
			return "", nil, err
		}

		base := idx * columnsPerRow
		placeholders := make([]string, columnsPerRow)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID.String(), offset+idx, r.ProfileID, r.Name, r.Headline,
			r.Company, r.Industry, r.Location, edu)
	}

	query := fmt.Sprintf(`
		INSERT INTO linkedin_profiles (run_id, position, profile_id, name, headline, company, industry, location, education)
		VALUES %s
		ON CONFLICT (run_id, position) DO NOTHING
	`, strings.Join(valueStrings, ","))

	return query, valueArgs, nil
}

// FetchRun retrieves the records stored for runID in their original order.
func (pw *PostgresWriter) FetchRun(runID uuid.UUID) (models.ResultSet, error) {
	rows, err := pw.db.Query(`
		SELECT profile_id, name, headline, company, industry, location, education
		FROM linkedin_profiles
		WHERE run_id = $1
		ORDER BY position
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch run: %w", err)
	}
	defer rows.Close()

	records := make(models.ResultSet, 0)
	for rows.Next() {
		r := &models.ProfileRecord{}
		var edu string
		if err := rows.Scan(
			&r.ProfileID, &r.Name, &r.Headline, &r.Company,
			&r.Industry, &r.Location, &edu,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if r.Education, err = DecodeEducation(edu); err != nil {
			return nil, fmt.Errorf("postgres: decode education: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
