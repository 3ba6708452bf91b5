package scraper

import (
	"context"
	"time"

	"alumni-scraper/metrics"
	"alumni-scraper/models"
	"alumni-scraper/services"
	"alumni-scraper/utils"
)

// Upstream is an authenticated handle able to run a people search. It calls
// visit once per candidate, in the order the service returns them.
type Upstream interface {
	SearchPeople(ctx context.Context, keywords string, limit int, visit func(models.RawProfile) error) error
}

// Scraper drives a single filtered collection run.
type Scraper struct {
	logger     *utils.Logger
	extractor  *services.Extractor
	classifier *services.Classifier
	pacer      utils.Pacer
	metrics    *metrics.Metrics

	scanned int
}

// New creates a Scraper. m may be nil.
func New(logger *utils.Logger, classifier *services.Classifier, pacer utils.Pacer, m *metrics.Metrics) *Scraper {
	return &Scraper{
		logger:     logger,
		extractor:  services.NewExtractor(logger),
		classifier: classifier,
		pacer:      pacer,
		metrics:    m,
	}
}

// Scanned returns how many raw profiles the last Search processed.
func (s *Scraper) Scanned() int {
	return s.scanned
}

// Search runs one upstream query for up to limit candidates and returns the
// records whose education matches the classifier, in discovery order. The
// pacer is applied after every processed candidate. On an upstream fault the
// records accepted so far are returned together with a *models.SearchError.
func (s *Scraper) Search(ctx context.Context, upstream Upstream, keywords string, limit int) (models.ResultSet, error) {
	results := make(models.ResultSet, 0)
	s.scanned = 0

	if limit <= 0 {
		s.logger.Warn("[search] Limit %d requested for %q, nothing to do", limit, keywords)
		return results, nil
	}

	s.logger.Info("[search] Searching %q, limit %d", keywords, limit)
	started := time.Now()
	defer func() { s.metrics.SearchFinished(time.Since(started)) }()

	err := upstream.SearchPeople(ctx, keywords, limit, func(raw models.RawProfile) error {
		s.scanned++
		s.metrics.ProfileScanned()

		rec := s.extractor.Extract(raw)
		if s.classifier.IsTargetInstitution(rec.Education) {
			results = append(results, rec)
			s.metrics.ProfileMatched()
			s.logger.Info("[search] Match %d: %s (%s)", len(results), models.Deref(rec.Name), models.Deref(rec.ProfileID))
		} else {
			s.logger.Debug("[search] Skipped %s", models.Deref(rec.ProfileID))
		}

		s.pacer.Wait()
		return nil
	})
	if err != nil {
		s.metrics.SearchFailed()
		s.logger.Error("[search] Search %q stopped after %d profiles (%d matched): %v",
			keywords, s.scanned, len(results), err)
		return results, &models.SearchError{
			Op:        "search-people",
			Keywords:  keywords,
			Collected: len(results),
			Err:       err,
		}
	}

	s.logger.Info("[search] Search complete: %d scanned, %d matched", s.scanned, len(results))
	return results, nil
}
