package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSearch(t *testing.T) (SearchRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		mockDB.Close()
	})

	return NewSearchRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestSearchQuery_Shape(t *testing.T) {
	assert.Equal(t, 3, strings.Count(searchQuery, "UNION"))
	assert.Contains(t, searchQuery, "to_tsquery('english', $1)")
	assert.Contains(t, searchQuery, "'StartSel=<mark>, StopSel=</mark>, MaxFragments=2'")
	assert.Contains(t, searchQuery, "articles.kind = 'Question' AND articles.ts_title @@")
	assert.Contains(t, searchQuery, "articles.kind = 'Answer' AND articles.ts_text @@")
	assert.Contains(t, searchQuery, "COALESCE(parents.question_id, parents.id)")
	assert.Contains(t, searchQuery, "ORDER BY question_id ASC, headline ASC")
}

func TestSearch_ScansRows(t *testing.T) {
	search, mock := newMockSearch(t)

	mock.ExpectQuery(`SELECT question_id, headline FROM \(`).
		WithArgs("frobnicate & widget").
		WillReturnRows(sqlmock.NewRows([]string{"question_id", "headline"}).
			AddRow(1, "how to <mark>frobnicate</mark>").
			AddRow(3, "a <mark>widget</mark> answer"))

	results, err := search.Search(context.Background(), "frobnicate & widget")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, uint64(1), results[0].QuestionID)
	assert.Equal(t, "a <mark>widget</mark> answer", results[1].Headline)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_NoRowsIsEmpty(t *testing.T) {
	search, mock := newMockSearch(t)

	mock.ExpectQuery("SELECT question_id, headline").
		WithArgs("nothing").
		WillReturnRows(sqlmock.NewRows([]string{"question_id", "headline"}))

	results, err := search.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearch_WrapsErrors(t *testing.T) {
	search, mock := newMockSearch(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT question_id, headline").
		WithArgs("go").
		WillReturnError(boom)

	_, err := search.Search(context.Background(), "go")
	assert.ErrorIs(t, err, boom)
}
