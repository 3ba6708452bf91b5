package storage

import (
	"github.com/google/uuid"

	"alumni-scraper/models"
)

// Exporter is the interface for writing a result set to a tabular file.
type Exporter interface {
	Export(records models.ResultSet, filename string) (string, error)
}

// RecordWriter is the interface any secondary storage backend must satisfy.
type RecordWriter interface {
	Write(runID uuid.UUID, records models.ResultSet) error
	Close() error
}
