package services

import (
	"bytes"
	"strings"
	"testing"

	"alumni-scraper/models"
)

func sampleRecords() models.ResultSet {
	return models.ResultSet{
		{Name: models.Str("A"), Location: models.Str("Mumbai"), Education: []models.EducationEntry{
			{School: models.Str("IIT Bombay")}, {School: models.Str("IIT Bombay"), Degree: models.Str("M.Tech")},
		}},
		{Name: models.Str("B"), Location: models.Str("Delhi"), Education: []models.EducationEntry{
			{School: models.Str("IIT Delhi")}, {School: models.Str("Stanford University")},
		}},
		{Name: models.Str("C"), Location: models.Str("Mumbai"), Education: []models.EducationEntry{
			{School: models.Str("IIT Bombay")},
		}},
		{Name: models.Str("D"), Education: []models.EducationEntry{{School: models.Str("IIT Madras")}}},
	}
}

func TestSummaryCounts(t *testing.T) {
	svc := NewSummaryService(newTestLogger(), NewClassifier())
	r := svc.Generate(10, sampleRecords())

	if r.Scanned != 10 || r.Matched != 4 {
		t.Errorf("Scanned/Matched: got %d/%d, want 10/4", r.Scanned, r.Matched)
	}
	if r.RecordsBySchool["IIT Bombay"] != 2 {
		t.Errorf("IIT Bombay: got %d, want 2", r.RecordsBySchool["IIT Bombay"])
	}
	if _, ok := r.RecordsBySchool["Stanford University"]; ok {
		t.Error("non-matching schools should not be counted")
	}
	if r.RecordsByLocation["Mumbai"] != 2 || len(r.RecordsByLocation) != 2 {
		t.Errorf("RecordsByLocation: got %v", r.RecordsByLocation)
	}
}

func TestSummaryEmptyInput(t *testing.T) {
	svc := NewSummaryService(newTestLogger(), NewClassifier())
	r := svc.Generate(0, nil)
	if r.Matched != 0 {
		t.Errorf("expected 0 matched records for empty input")
	}

	var buf bytes.Buffer
	svc.Print(&buf, r)
	if !strings.Contains(buf.String(), "No data") {
		t.Errorf("expected 'No data' in report, got %q", buf.String())
	}
}

func TestSummaryPrintOrdersByCount(t *testing.T) {
	svc := NewSummaryService(newTestLogger(), NewClassifier())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(4, sampleRecords()))

	out := buf.String()
	if strings.Index(out, "IIT Bombay") > strings.Index(out, "IIT Delhi") {
		t.Errorf("IIT Bombay (2) should be listed before IIT Delhi (1):\n%s", out)
	}
}
