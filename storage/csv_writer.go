package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"alumni-scraper/metrics"
	"alumni-scraper/models"
	"alumni-scraper/utils"
)

const (
	// DefaultFilePrefix starts every generated output file name.
	DefaultFilePrefix = "linkedin_profiles_"

	csvSink = "csv"
)

// Header is the column layout of exported files.
var Header = []string{"profile_id", "name", "headline", "company", "industry", "location", "education"}

// CSVExporter writes result sets to comma-separated files. Absent fields are
// written as empty cells; the education column holds a JSON array.
type CSVExporter struct {
	logger  *utils.Logger
	metrics *metrics.Metrics
	dir     string
	now     func() time.Time
}

// NewCSVExporter creates an exporter writing generated file names into dir
// ("" means the working directory). m may be nil.
func NewCSVExporter(dir string, logger *utils.Logger, m *metrics.Metrics) *CSVExporter {
	return &CSVExporter{logger: logger, metrics: m, dir: dir, now: time.Now}
}

// FileName derives an output name from the prefix and the current time at
// second precision.
func (e *CSVExporter) FileName() string {
	return filepath.Join(e.dir, DefaultFilePrefix+e.now().Format("20060102_150405")+".csv")
}

// Export writes records to filename, or to FileName() when filename is empty,
// and returns the path written. The file is created or truncated and
// intermediate directories are created automatically.
func (e *CSVExporter) Export(records models.ResultSet, filename string) (string, error) {
	path := filename
	if path == "" {
		path = e.FileName()
	}

	if err := writeCSV(path, records); err != nil {
		e.metrics.ExportFailed(csvSink)
		e.logger.Error("[export] Writing %d records to %s failed: %v", len(records), path, err)
		return path, &models.ExportError{Path: path, Err: err}
	}

	e.metrics.Exported(csvSink, len(records))
	e.logger.Info("[export] Wrote %d records to %s", len(records), path)
	return path, nil
}

func writeCSV(path string, records models.ResultSet) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("csv: close file: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for i, r := range records {
		row, err := recordRow(r)
		if err != nil {
			return fmt.Errorf("csv: encode row %d: %w", i, err)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}

	w.Flush()
	return w.Error()
}

func recordRow(r *models.ProfileRecord) ([]string, error) {
	edu, err := EncodeEducation(r.Education)
	if err != nil {
		return nil, err
	}
	return []string{
		models.Deref(r.ProfileID),
		models.Deref(r.Name),
		models.Deref(r.Headline),
		models.Deref(r.Company),
		models.Deref(r.Industry),
		models.Deref(r.Location),
		edu,
	}, nil
}

// EncodeEducation renders education entries as a JSON array of objects with
// absent keys omitted. An empty sequence encodes as "[]".
func EncodeEducation(entries []models.EducationEntry) (string, error) {
	if entries == nil {
		entries = []models.EducationEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeEducation is the inverse of EncodeEducation.
func DecodeEducation(cell string) ([]models.EducationEntry, error) {
	entries := []models.EducationEntry{}
	if cell == "" {
		return entries, nil
	}
	if err := json.Unmarshal([]byte(cell), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadRecords loads a file written by Export. Empty cells read back as absent.
func ReadRecords(path string) (models.ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("csv: missing header row")
	}
	if len(rows[0]) != len(Header) {
		return nil, fmt.Errorf("csv: unexpected header %v", rows[0])
	}

	records := make(models.ResultSet, 0, len(rows)-1)
	for i, row := range rows[1:] {
		edu, err := DecodeEducation(row[6])
		if err != nil {
			return nil, fmt.Errorf("csv: decode education on row %d: %w", i+1, err)
		}
		records = append(records, &models.ProfileRecord{
			ProfileID: optional(row[0]),
			Name:      optional(row[1]),
			Headline:  optional(row[2]),
			Company:   optional(row[3]),
			Industry:  optional(row[4]),
			Location:  optional(row[5]),
			Education: edu,
		})
	}
	return records, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
