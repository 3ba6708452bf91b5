package services

import (
	"testing"

	"alumni-scraper/models"
)

func TestClassifierIsTargetInstitution(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name      string
		education []models.EducationEntry
		want      bool
	}{
		{"full name", []models.EducationEntry{{School: models.Str("Indian Institute of Technology Bombay")}}, true},
		{"abbreviation mixed case", []models.EducationEntry{{School: models.Str("IIT Delhi")}}, true},
		{"marker in degree", []models.EducationEntry{{School: models.Str("Unknown"), Degree: models.Str("B.Tech, iit kharagpur")}}, true},
		{"second entry matches", []models.EducationEntry{
			{School: models.Str("Stanford University")},
			{School: models.Str("IIT Madras"), Year: models.Int(2010)},
		}, true},
		{"negative control", []models.EducationEntry{{School: models.Str("Stanford University"), Degree: models.Str("MS"), Field: models.Str("Computer Science")}}, false},
		{"nil sequence", nil, false},
		{"empty sequence", []models.EducationEntry{}, false},
		{"all fields absent", []models.EducationEntry{{}}, false},
		{"year only", []models.EducationEntry{{Year: models.Int(2015)}}, false},
	}

	for _, tt := range tests {
		got := c.IsTargetInstitution(tt.education)
		if got != tt.want {
			t.Errorf("%s: IsTargetInstitution = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassifierOrderIndependent(t *testing.T) {
	c := NewClassifier()
	a := models.EducationEntry{School: models.Str("MIT")}
	b := models.EducationEntry{School: models.Str("Indian Institute of Technology Roorkee")}

	if c.IsTargetInstitution([]models.EducationEntry{a, b}) != c.IsTargetInstitution([]models.EducationEntry{b, a}) {
		t.Error("result should not depend on entry order")
	}
}

func TestClassifierExtraMarkers(t *testing.T) {
	c := NewClassifier("  BITS Pilani ", "", "IIT")

	markers := c.Markers()
	if len(markers) != 3 {
		t.Fatalf("markers: got %v, want 3 distinct", markers)
	}
	if !c.IsTargetInstitution([]models.EducationEntry{{School: models.Str("Birla Institute, bits pilani campus")}}) {
		t.Error("extra marker should match")
	}
	if !c.IsTargetInstitution([]models.EducationEntry{{School: models.Str("IIT Bombay")}}) {
		t.Error("default markers must be kept")
	}
}
