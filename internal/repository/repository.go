package repository

import (
	"context"

	"github.com/yukikurage/snacks-api/internal/models"
)

// ArticleRepository defines the interface for question and answer data access
type ArticleRepository interface {
	// SaveWithTagDiff creates or updates the article and applies the tag diff
	// in one transaction. Nothing is committed if any step fails.
	SaveWithTagDiff(article *models.Article, diff models.TagDiff) error

	// FindByID finds an article by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Article, error)

	// FindThread loads a question with its owner, tags, answers and all comments
	FindThread(id uint64) (*models.Article, error)

	// ListQuestions lists questions newest first with owners and tags
	ListQuestions() ([]models.Article, error)

	// ListQuestionsByTag lists the questions linked to a tag, newest first
	ListQuestionsByTag(tagID uint64) ([]models.Article, error)

	// Delete removes the article, its answers, and every comment, vote and
	// tag link attached to either
	Delete(id uint64) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// Create creates a new tag
	Create(tag *models.Tag) error

	// FindByName finds a tag by its exact name
	FindByName(name string) (*models.Tag, error)

	// ListForArticle lists the tags linked to an article ordered by name
	ListForArticle(articleID uint64) ([]models.Tag, error)

	// Counts lists every tag with its question count, most used first
	Counts() ([]models.TagCount, error)
}

// VoteRepository defines the interface for the vote ledger
type VoteRepository interface {
	// Toggle applies a vote in one transaction and returns the new score
	Toggle(articleID, userID uint64, value int) (int64, VoteOutcome, error)

	// Find finds the vote a user holds on an article
	Find(userID, articleID uint64) (*models.Vote, error)

	// Score sums the vote values of an article
	Score(articleID uint64) (int64, error)

	// Scores sums vote values for several articles at once
	Scores(articleIDs []uint64) (map[uint64]int64, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Comment, error)

	// Delete deletes a comment
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindOrCreateByUID returns the user with the auth subject uid, creating
	// it with name on first sight
	FindOrCreateByUID(uid, name string) (*models.User, error)

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// List lists all users ordered by name
	List() ([]models.User, error)
}

// SearchRepository defines the interface for the full-text projections
type SearchRepository interface {
	// Search returns one row per matching source text, attributed to its
	// owning question, for an already sanitized tsquery
	Search(ctx context.Context, tsquery string) ([]models.SearchResult, error)
}
