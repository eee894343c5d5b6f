package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/repository"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonQueryChars = regexp.MustCompile(`[^\w&]`)
)

// SearchService runs full-text search over questions, answers and comments
type SearchService struct {
	searchRepo repository.SearchRepository
	policy     *bluemonday.Policy
}

// NewSearchService creates a new SearchService
func NewSearchService(searchRepo repository.SearchRepository) *SearchService {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("mark")

	return &SearchService{
		searchRepo: searchRepo,
		policy:     policy,
	}
}

// SanitizeQuery turns a raw search term into an AND-combined tsquery.
// It returns "" when nothing searchable is left.
func SanitizeQuery(term string) string {
	collapsed := whitespaceRun.ReplaceAllString(strings.TrimSpace(term), "&")
	stripped := nonQueryChars.ReplaceAllString(collapsed, "")

	tokens := make([]string, 0)
	for _, token := range strings.Split(stripped, "&") {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, " & ")
}

// Search returns one row per matching text with a highlighted headline
func (s *SearchService) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	query := SanitizeQuery(term)
	if query == "" {
		return []models.SearchResult{}, nil
	}

	timer := prometheus.NewTimer(searchDuration)
	results, err := s.searchRepo.Search(ctx, query)
	timer.ObserveDuration()
	if err != nil {
		slog.Error("Search failed", "query", query, "error", err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	for i := range results {
		results[i].Headline = s.policy.Sanitize(results[i].Headline)
	}

	searchResults.Observe(float64(len(results)))
	slog.Debug("Search completed", "query", query, "results", len(results))
	return results, nil
}
