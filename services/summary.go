package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"alumni-scraper/models"
	"alumni-scraper/utils"
)

// RunSummary holds the counts reported at the end of a collection run.
type RunSummary struct {
	Scanned           int
	Matched           int
	RecordsBySchool   map[string]int
	RecordsByLocation map[string]int
}

// SummaryService builds and prints RunSummaries.
type SummaryService struct {
	logger     *utils.Logger
	classifier *Classifier
}

func NewSummaryService(logger *utils.Logger, classifier *Classifier) *SummaryService {
	return &SummaryService{logger: logger, classifier: classifier}
}

// Generate counts matched records per location and per matching school.
// Each record contributes once per distinct school.
func (s *SummaryService) Generate(scanned int, records models.ResultSet) *RunSummary {
	summary := &RunSummary{
		Scanned:           scanned,
		Matched:           len(records),
		RecordsBySchool:   make(map[string]int),
		RecordsByLocation: make(map[string]int),
	}

	for _, r := range records {
		if r.Location != nil {
			summary.RecordsByLocation[*r.Location]++
		}
		seen := make(map[string]struct{})
		for _, edu := range r.Education {
			if edu.School == nil {
				continue
			}
			if !s.classifier.IsTargetInstitution([]models.EducationEntry{edu}) {
				continue
			}
			if _, dup := seen[*edu.School]; dup {
				continue
			}
			seen[*edu.School] = struct{}{}
			summary.RecordsBySchool[*edu.School]++
		}
	}

	s.logger.Debug("[summary] %d scanned, %d matched", summary.Scanned, summary.Matched)
	return summary
}

// Print writes a human-readable report to w.
func (s *SummaryService) Print(w io.Writer, r *RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  ALUMNI COLLECTION SUMMARY\n")
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Profiles scanned : %d\n", r.Scanned)
	fmt.Fprintf(w, "  Profiles matched : %d\n\n", r.Matched)

	printCounts(w, "Matched records by school", thin, r.RecordsBySchool)
	printCounts(w, "Matched records by location", thin, r.RecordsByLocation)

	fmt.Fprintf(w, "%s\n\n", sep)
}

func printCounts(w io.Writer, title, thin string, counts map[string]int) {
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}

	type keyCount struct {
		key   string
		count int
	}
	var rows []keyCount
	for k, c := range counts {
		rows = append(rows, keyCount{k, c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})
	for _, kc := range rows {
		fmt.Fprintf(w, "  %-40s %d\n", truncate(kc.key, 38), kc.count)
	}
	fmt.Fprintln(w)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
