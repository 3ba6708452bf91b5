package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ProfileScanned()
	m.ProfileScanned()
	m.ProfileMatched()
	m.SearchFailed()
	m.Exported("csv", 3)
	m.ExportFailed("postgres")
	m.SearchFinished(2 * time.Second)

	if got := testutil.ToFloat64(m.profilesScanned); got != 2 {
		t.Errorf("profiles scanned: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.profilesMatched); got != 1 {
		t.Errorf("profiles matched: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.recordsExported.WithLabelValues("csv")); got != 3 {
		t.Errorf("records exported: got %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.exportErrors.WithLabelValues("postgres")); got != 1 {
		t.Errorf("export errors: got %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.searchDuration); n != 1 {
		t.Errorf("search duration series: got %d, want 1", n)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ProfileScanned()
	m.ProfileMatched()
	m.SearchFailed()
	m.SearchFinished(time.Second)
	m.Exported("csv", 1)
	m.ExportFailed("csv")
}
