package services

import (
	"strconv"
	"strings"

	"alumni-scraper/models"
)

// DefaultMarkers identify the Indian Institutes of Technology.
var DefaultMarkers = []string{"indian institute of technology", "iit"}

// Classifier decides whether a profile's education matches the target
// institution. It is pure and safe to share.
type Classifier struct {
	markers []string
}

// NewClassifier creates a Classifier using DefaultMarkers plus any extra
// markers. Markers are compared lower-cased; blanks and duplicates are dropped.
func NewClassifier(extra ...string) *Classifier {
	seen := make(map[string]struct{})
	markers := make([]string, 0, len(DefaultMarkers)+len(extra))
	for _, m := range append(append([]string{}, DefaultMarkers...), extra...) {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		markers = append(markers, m)
	}
	return &Classifier{markers: markers}
}

// Markers returns the active marker set.
func (c *Classifier) Markers() []string {
	return append([]string(nil), c.markers...)
}

// IsTargetInstitution reports whether any entry mentions a marker.
func (c *Classifier) IsTargetInstitution(education []models.EducationEntry) bool {
	for _, edu := range education {
		if c.matches(entryText(edu)) {
			return true
		}
	}
	return false
}

func (c *Classifier) matches(text string) bool {
	if text == "" {
		return false
	}
	for _, m := range c.markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// entryText joins the present fields of an entry, lower-cased.
func entryText(edu models.EducationEntry) string {
	parts := make([]string, 0, 4)
	for _, s := range []*string{edu.School, edu.Degree, edu.Field} {
		if s != nil {
			parts = append(parts, *s)
		}
	}
	if edu.Year != nil {
		parts = append(parts, strconv.Itoa(*edu.Year))
	}
	return strings.ToLower(strings.Join(parts, " "))
}
