package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"alumni-scraper/models"
)

const (
	searchPath      = "/voyager/api/search/blended"
	profileViewPath = "/voyager/api/identity/profiles/%s/profileView"

	// defaultPageSize is the largest page Voyager serves for blended search.
	defaultPageSize = 49
)

// searchResponse models the minimal fields needed from a blended search page.
type searchResponse struct {
	Elements []struct {
		Elements []searchHit `json:"elements"`
	} `json:"elements"`
	Paging struct {
		Total int `json:"total"`
	} `json:"paging"`
}

type searchHit struct {
	PublicIdentifier string `json:"publicIdentifier"`
	TargetURN        string `json:"targetUrn"`
}

// id returns the identifier used to fetch the hit's full profile.
func (h searchHit) id() string {
	if h.PublicIdentifier != "" {
		return h.PublicIdentifier
	}
	if i := strings.LastIndex(h.TargetURN, ":"); i >= 0 {
		return h.TargetURN[i+1:]
	}
	return h.TargetURN
}

// SearchPeople runs one people search for keywords, requesting up to limit
// hits, and calls visit with the full payload of each hit in order. Search
// pages and profile payloads are fetched lazily, so a fault may surface after
// some profiles were already visited. Errors returned by visit stop the
// iteration and are returned unchanged.
func (s *Session) SearchPeople(ctx context.Context, keywords string, limit int, visit func(models.RawProfile) error) error {
	if limit <= 0 {
		return nil
	}

	pageSize := s.MaxPageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}

	remaining := limit
	start := 0
	for remaining > 0 {
		count := pageSize
		if remaining < count {
			count = remaining
		}

		hits, err := s.searchPage(ctx, keywords, start, count)
		if err != nil {
			return fmt.Errorf("search page at offset %d: %w", start, err)
		}
		s.logger.Debug("[linkedin] Search offset %d returned %d hits", start, len(hits))

		if len(hits) > remaining {
			hits = hits[:remaining]
		}
		for _, hit := range hits {
			id := hit.id()
			if id == "" {
				continue
			}
			raw, err := s.GetProfile(ctx, id)
			if err != nil {
				return fmt.Errorf("profile %s: %w", id, err)
			}
			if err := visit(raw); err != nil {
				return err
			}
		}

		remaining -= len(hits)
		start += len(hits)
		if len(hits) < count {
			break
		}
	}
	return nil
}

func (s *Session) searchPage(ctx context.Context, keywords string, start, count int) ([]searchHit, error) {
	q := url.Values{}
	q.Set("keywords", keywords)
	q.Set("count", strconv.Itoa(count))
	q.Set("start", strconv.Itoa(start))
	q.Set("filters", "List(resultType->PEOPLE)")
	q.Set("origin", "GLOBAL_SEARCH_HEADER")
	q.Set("q", "all")
	q.Set("queryContext", "List(spellCorrectionEnabled->true)")

	var sr searchResponse
	if err := s.getJSON(ctx, searchPath+"?"+q.Encode(), &sr); err != nil {
		return nil, err
	}

	var hits []searchHit
	for _, cluster := range sr.Elements {
		hits = append(hits, cluster.Elements...)
	}
	return hits, nil
}

// profileViewResponse is the subset of the profileView payload that is
// flattened into a RawProfile.
type profileViewResponse struct {
	Profile      map[string]any `json:"profile"`
	PositionView struct {
		Elements []any `json:"elements"`
	} `json:"positionView"`
	EducationView struct {
		Elements []any `json:"elements"`
	} `json:"educationView"`
}

// GetProfile fetches the full payload of one profile and flattens it: the
// profile's own fields at the top level, plus "public_id", "experience" and
// "education" lists.
func (s *Session) GetProfile(ctx context.Context, publicID string) (models.RawProfile, error) {
	if publicID == "" {
		return nil, errors.New("publicID is empty")
	}

	var pv profileViewResponse
	if err := s.getJSON(ctx, fmt.Sprintf(profileViewPath, url.PathEscape(publicID)), &pv); err != nil {
		return nil, err
	}

	raw := models.RawProfile{}
	for k, v := range pv.Profile {
		raw[k] = v
	}
	if _, ok := raw["public_id"]; !ok {
		raw["public_id"] = publicID
	}
	raw["experience"] = pv.PositionView.Elements
	raw["education"] = pv.EducationView.Elements
	return raw, nil
}

func (s *Session) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL.String()+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("csrf-token", s.csrfToken)
	req.Header.Set("x-restli-protocol-version", "2.0.0")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
