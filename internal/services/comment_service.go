package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/repository"
	"gorm.io/gorm"
)

// CommentService handles comments on questions and answers
type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, articleRepo repository.ArticleRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
	}
}

// CreateComment validates and saves a comment on an article
func (s *CommentService) CreateComment(articleID, ownerID uint64, text string) (*models.Comment, error) {
	article, err := s.articleRepo.FindByID(articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to find article: %w", err)
	}

	errs := NewValidationErrors()
	validateInto(bodyFields{Text: text}, errs)
	if errs.HasErrors() {
		slog.Debug("Comment rejected", "article_id", articleID, "user_id", ownerID, "errors", errs.Fields)
		recordMutation("create_comment", errs)
		return nil, errs
	}

	comment := &models.Comment{
		Text:      text,
		UserID:    ownerID,
		ArticleID: articleID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		recordMutation("create_comment", err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	recordMutation("create_comment", nil)
	slog.Info("Comment created", "comment_id", comment.ID, "article_id", articleID,
		"question_id", article.OwningQuestionID(), "user_id", ownerID)

	return s.commentRepo.FindByID(comment.ID, "User")
}

// GetComment returns a comment by ID
func (s *CommentService) GetComment(id uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment
func (s *CommentService) DeleteComment(id uint64) error {
	if err := s.commentRepo.Delete(id); err != nil {
		recordMutation("delete_comment", err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	recordMutation("delete_comment", nil)
	slog.Info("Comment deleted", "comment_id", id)
	return nil
}
