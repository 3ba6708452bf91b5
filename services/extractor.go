package services

import (
	"strings"
	"unicode"

	"alumni-scraper/models"
	"alumni-scraper/utils"
)

// Extractor maps raw upstream payloads onto ProfileRecords. Missing data is
// recorded as absent; Extract never fails.
type Extractor struct {
	logger *utils.Logger
}

// NewExtractor creates an Extractor with the given logger.
func NewExtractor(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract builds a ProfileRecord from raw.
func (e *Extractor) Extract(raw models.RawProfile) *models.ProfileRecord {
	rec := &models.ProfileRecord{
		ProfileID: profileID(raw),
		Name:      fullName(raw),
		Headline:  text(raw.String("headline")),
		Company:   text(raw.String("experience", "0", "companyName")),
		Industry:  text(raw.String("industryName")),
		Location:  firstPresent(text(raw.String("locationName")), text(raw.String("geoLocationName"))),
		Education: e.education(raw),
	}

	if rec.ProfileID == nil {
		e.logger.Debug("[extractor] Profile without identifier: %s", models.Deref(rec.Name))
	}
	return rec
}

func (e *Extractor) education(raw models.RawProfile) []models.EducationEntry {
	items := raw.List("education")
	out := make([]models.EducationEntry, 0, len(items))
	for _, item := range items {
		var edu models.RawProfile
		switch m := item.(type) {
		case map[string]any:
			edu = m
		case models.RawProfile:
			edu = m
		}
		// A non-object entry still yields an all-absent EducationEntry.
		out = append(out, models.EducationEntry{
			School: firstPresent(text(edu.String("schoolName")), text(edu.String("school", "schoolName"))),
			Degree: text(edu.String("degreeName")),
			Field:  text(edu.String("fieldOfStudy")),
			Year:   edu.Int("timePeriod", "endDate", "year"),
		})
	}
	return out
}

func profileID(raw models.RawProfile) *string {
	if id := text(raw.String("public_id")); id != nil {
		return id
	}
	if id := text(raw.String("profile_id")); id != nil {
		return id
	}
	urn := raw.String("entityUrn")
	if urn == nil {
		return nil
	}
	parts := strings.Split(*urn, ":")
	return text(&parts[len(parts)-1])
}

func fullName(raw models.RawProfile) *string {
	first := models.Deref(raw.String("firstName"))
	last := models.Deref(raw.String("lastName"))
	return text(models.Str(first + " " + last))
}

// text normalises whitespace; empty strings count as absent.
func text(s *string) *string {
	if s == nil {
		return nil
	}
	n := normaliseText(*s)
	if n == "" {
		return nil
	}
	return &n
}

func firstPresent(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
