package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/yukikurage/snacks-api/internal/constants"
	"github.com/yukikurage/snacks-api/internal/models"
)

// SqlxSearchRepository reads the tsvector projections maintained by the
// database triggers
type SqlxSearchRepository struct {
	db *sqlx.DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *sqlx.DB) SearchRepository {
	return &SqlxSearchRepository{db: db}
}

// searchQuery unions question bodies, question titles, answer bodies and
// comment bodies. Each row is attributed to the question that owns it.
var searchQuery = fmt.Sprintf(`
SELECT question_id, headline FROM (
	SELECT articles.id AS question_id,
		ts_headline('%[1]s', articles.text, to_tsquery('%[1]s', $1), '%[2]s') AS headline
	FROM articles
	WHERE articles.kind = '%[3]s' AND articles.ts_text @@ to_tsquery('%[1]s', $1)
	UNION
	SELECT articles.id AS question_id,
		ts_headline('%[1]s', articles.title, to_tsquery('%[1]s', $1), '%[2]s') AS headline
	FROM articles
	WHERE articles.kind = '%[3]s' AND articles.ts_title @@ to_tsquery('%[1]s', $1)
	UNION
	SELECT articles.question_id AS question_id,
		ts_headline('%[1]s', articles.text, to_tsquery('%[1]s', $1), '%[2]s') AS headline
	FROM articles
	WHERE articles.kind = '%[4]s' AND articles.ts_text @@ to_tsquery('%[1]s', $1)
	UNION
	SELECT COALESCE(parents.question_id, parents.id) AS question_id,
		ts_headline('%[1]s', comments.text, to_tsquery('%[1]s', $1), '%[2]s') AS headline
	FROM comments
	JOIN articles AS parents ON parents.id = comments.article_id
	WHERE comments.ts_text @@ to_tsquery('%[1]s', $1)
) AS results
ORDER BY question_id ASC, headline ASC`,
	constants.SearchConfig, constants.HeadlineOptions, models.KindQuestion, models.KindAnswer)

// Search runs the union query for a sanitized tsquery
func (r *SqlxSearchRepository) Search(ctx context.Context, tsquery string) ([]models.SearchResult, error) {
	results := []models.SearchResult{}
	if err := r.db.SelectContext(ctx, &results, searchQuery, tsquery); err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	return results, nil
}
