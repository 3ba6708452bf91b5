package services

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"alumni-scraper/models"
	"alumni-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func decodeRaw(t *testing.T, s string) models.RawProfile {
	t.Helper()
	var raw models.RawProfile
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return raw
}

func TestExtractFullProfile(t *testing.T) {
	e := NewExtractor(newTestLogger())
	raw := decodeRaw(t, `{
		"public_id": "priya-sharma",
		"firstName": "Priya",
		"lastName": "  Sharma ",
		"headline": "Staff Engineer at Example",
		"industryName": "Computer Software",
		"locationName": "Bengaluru, Karnataka, India",
		"experience": [{"companyName": "Example Corp"}, {"companyName": "Older Co"}],
		"education": [
			{"schoolName": "Indian Institute of Technology Bombay", "degreeName": "B.Tech", "fieldOfStudy": "Computer Science",
			 "timePeriod": {"startDate": {"year": 2008}, "endDate": {"year": 2012}}},
			{"school": {"schoolName": "Stanford University"}, "degreeName": "MS"}
		]
	}`)

	got := e.Extract(raw)
	want := &models.ProfileRecord{
		ProfileID: models.Str("priya-sharma"),
		Name:      models.Str("Priya Sharma"),
		Headline:  models.Str("Staff Engineer at Example"),
		Company:   models.Str("Example Corp"),
		Industry:  models.Str("Computer Software"),
		Location:  models.Str("Bengaluru, Karnataka, India"),
		Education: []models.EducationEntry{
			{School: models.Str("Indian Institute of Technology Bombay"), Degree: models.Str("B.Tech"), Field: models.Str("Computer Science"), Year: models.Int(2012)},
			{School: models.Str("Stanford University"), Degree: models.Str("MS")},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractEmptyProfile(t *testing.T) {
	e := NewExtractor(newTestLogger())

	for _, raw := range []models.RawProfile{nil, {}} {
		got := e.Extract(raw)
		want := &models.ProfileRecord{Education: []models.EducationEntry{}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Extract(%v) mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestExtractToleratesWrongShapes(t *testing.T) {
	e := NewExtractor(newTestLogger())
	raw := decodeRaw(t, `{
		"entityUrn": "urn:li:fs_profile:ACoAAB123",
		"firstName": 42,
		"headline": "   ",
		"experience": "not a list",
		"geoLocationName": "Pune",
		"education": [
			"garbage",
			{"schoolName": "IIT Delhi", "timePeriod": {"startDate": {"year": 2001}}},
			{"schoolName": "IIT Kanpur", "timePeriod": {"endDate": {"year": "2019"}}},
			{"timePeriod": null}
		]
	}`)

	got := e.Extract(raw)
	want := &models.ProfileRecord{
		ProfileID: models.Str("ACoAAB123"),
		Location:  models.Str("Pune"),
		Education: []models.EducationEntry{
			{},
			{School: models.Str("IIT Delhi")},
			{School: models.Str("IIT Kanpur"), Year: models.Int(2019)},
			{},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestNormaliseText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Priya   Sharma ", "Priya Sharma"},
		{"\tIIT\nBombay", "IIT Bombay"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normaliseText(tt.in); got != tt.want {
			t.Errorf("normaliseText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
