package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/repository"
	"gorm.io/gorm"
)

// VoteService is the vote ledger: at most one vote per user and article
type VoteService struct {
	voteRepo    repository.VoteRepository
	articleRepo repository.ArticleRepository
}

// NewVoteService creates a new VoteService
func NewVoteService(voteRepo repository.VoteRepository, articleRepo repository.ArticleRepository) *VoteService {
	return &VoteService{
		voteRepo:    voteRepo,
		articleRepo: articleRepo,
	}
}

// ToggleVote applies direction for userID on an article and returns the new score.
// Repeating a direction undoes it; the opposite direction replaces it.
func (s *VoteService) ToggleVote(articleID, userID uint64, direction int) (int64, error) {
	if direction != models.Upvote && direction != models.Downvote {
		return 0, ErrInvalidVoteDirection
	}

	if _, err := s.articleRepo.FindByID(articleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrArticleNotFound
		}
		return 0, fmt.Errorf("failed to find article: %w", err)
	}

	score, outcome, err := s.voteRepo.Toggle(articleID, userID, direction)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateVote) {
			votesTotal.WithLabelValues(directionLabel(direction), "rejected").Inc()
			slog.Debug("Concurrent vote rejected", "article_id", articleID, "user_id", userID)
			return 0, fieldError(FieldValue, "Cannot upvote or downvote more than once")
		}
		slog.Error("Failed to toggle vote", "article_id", articleID, "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to toggle vote: %w", err)
	}

	votesTotal.WithLabelValues(directionLabel(direction), string(outcome)).Inc()
	slog.Info("Vote toggled", "article_id", articleID, "user_id", userID, "direction", direction,
		"outcome", outcome, "score", score)

	return score, nil
}

// Score returns the sum of an article's votes
func (s *VoteService) Score(articleID uint64) (int64, error) {
	score, err := s.voteRepo.Score(articleID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute score: %w", err)
	}
	return score, nil
}

// VoteFor returns the value of the user's vote on an article, 0 when none
func (s *VoteService) VoteFor(userID, articleID uint64) (int, error) {
	vote, err := s.voteRepo.Find(userID, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to find vote: %w", err)
	}
	return vote.Value, nil
}

func directionLabel(direction int) string {
	if direction == models.Upvote {
		return "up"
	}
	return "down"
}
