package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/repository"
	"gorm.io/gorm"
)

// TagService handles tag browsing and standalone tag creation
type TagService struct {
	tagRepo     repository.TagRepository
	articleRepo repository.ArticleRepository
	voteRepo    repository.VoteRepository
}

// NewTagService creates a new TagService
func NewTagService(tagRepo repository.TagRepository, articleRepo repository.ArticleRepository, voteRepo repository.VoteRepository) *TagService {
	return &TagService{
		tagRepo:     tagRepo,
		articleRepo: articleRepo,
		voteRepo:    voteRepo,
	}
}

// TagPage is a tag with the questions carrying it and their scores
type TagPage struct {
	Tag       *models.Tag
	Questions []models.Article
	Scores    map[uint64]int64
}

// CreateTag creates a tag that no question uses yet
func (s *TagService) CreateTag(name string) (*models.Tag, error) {
	errs := NewValidationErrors()
	validateInto(tagFields{Name: name}, errs)
	if errs.HasErrors() {
		recordMutation("create_tag", errs)
		return nil, errs
	}

	taken := fieldError(FieldName, "has already been taken")
	if _, err := s.tagRepo.FindByName(name); err == nil {
		recordMutation("create_tag", taken)
		return nil, taken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check tag name: %w", err)
	}

	tag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			recordMutation("create_tag", taken)
			return nil, taken
		}
		recordMutation("create_tag", err)
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	recordMutation("create_tag", nil)
	slog.Info("Tag created", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// GetByName returns a tag and its questions
func (s *TagService) GetByName(name string) (*TagPage, error) {
	tag, err := s.tagRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}

	questions, err := s.articleRepo.ListQuestionsByTag(tag.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tagged questions: %w", err)
	}

	ids := make([]uint64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	scores, err := s.voteRepo.Scores(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	return &TagPage{Tag: tag, Questions: questions, Scores: scores}, nil
}

// TagCounts lists every tag with its question count, most used first
func (s *TagService) TagCounts() ([]models.TagCount, error) {
	counts, err := s.tagRepo.Counts()
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	return counts, nil
}
