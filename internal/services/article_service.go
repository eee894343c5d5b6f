package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/repository"
	"gorm.io/gorm"
)

// ArticleService owns questions and answers and applies tag diffs together
// with content saves
type ArticleService struct {
	articleRepo repository.ArticleRepository
	tagRepo     repository.TagRepository
	voteRepo    repository.VoteRepository
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo repository.ArticleRepository, tagRepo repository.TagRepository, voteRepo repository.VoteRepository) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		tagRepo:     tagRepo,
		voteRepo:    voteRepo,
	}
}

// CreateQuestionInput represents input for asking a question
type CreateQuestionInput struct {
	Title   string
	Text    string
	OwnerID uint64
	// Tags maps tag names to "add" or "remove"
	Tags map[string]string
}

// UpdateArticleInput represents input for editing an article. Nil fields are
// left unchanged.
type UpdateArticleInput struct {
	Title *string
	Text  *string
	Tags  map[string]string
}

// Thread is a question with everything shown alongside it
type Thread struct {
	Question *models.Article
	Scores   map[uint64]int64
}

// CreateQuestion validates and saves a new question with its initial tags
func (s *ArticleService) CreateQuestion(input CreateQuestionInput) (*models.Article, error) {
	errs := NewValidationErrors()
	validateInto(questionFields{Title: input.Title, Text: input.Text}, errs)
	diff := buildTagDiff(input.Tags, errs)
	if errs.HasErrors() {
		slog.Debug("Question rejected", "user_id", input.OwnerID, "errors", errs.Fields)
		recordMutation("create_question", errs)
		return nil, errs
	}

	question := models.NewQuestion(input.Title, input.Text, input.OwnerID)
	if err := s.save(question, diff); err != nil {
		recordMutation("create_question", err)
		return nil, err
	}

	recordMutation("create_question", nil)
	recordTagChanges(diff)
	slog.Info("Question created", "article_id", question.ID, "user_id", input.OwnerID, "tag_changes", diff.AsMap())

	return s.reload(question.ID)
}

// CreateAnswer validates and saves an answer to a question
func (s *ArticleService) CreateAnswer(questionID uint64, text string, ownerID uint64) (*models.Article, error) {
	parent, err := s.findArticle(questionID)
	if err != nil {
		return nil, err
	}

	errs := NewValidationErrors()
	validateInto(bodyFields{Text: text}, errs)
	if errs.HasErrors() {
		slog.Debug("Answer rejected", "question_id", questionID, "user_id", ownerID, "errors", errs.Fields)
		recordMutation("create_answer", errs)
		return nil, errs
	}

	answer, err := models.NewAnswer(parent, text, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidParent) {
			return nil, ErrInvalidParent
		}
		return nil, err
	}

	if err := s.save(answer, nil); err != nil {
		recordMutation("create_answer", err)
		return nil, err
	}

	recordMutation("create_answer", nil)
	slog.Info("Answer created", "article_id", answer.ID, "question_id", questionID, "user_id", ownerID)

	return s.reload(answer.ID)
}

// UpdateArticle changes text, title and tags in one transaction. Nothing is
// written when any part is invalid.
func (s *ArticleService) UpdateArticle(id uint64, input UpdateArticleInput) (*models.Article, error) {
	article, err := s.findArticle(id)
	if err != nil {
		return nil, err
	}

	if article.IsAnswer() && len(input.Tags) > 0 {
		return nil, ErrNotAQuestion
	}

	errs := NewValidationErrors()
	if article.IsAnswer() && input.Title != nil {
		errs.Add(FieldTitle, "can only be set on questions")
	}
	validateInto(articlePatch{Title: input.Title, Text: input.Text}, errs)
	diff := buildTagDiff(input.Tags, errs)
	if errs.HasErrors() {
		slog.Debug("Article update rejected", "article_id", id, "errors", errs.Fields)
		recordMutation("update_article", errs)
		return nil, errs
	}

	if input.Title != nil {
		title := *input.Title
		article.Title = &title
	}
	if input.Text != nil {
		article.Text = *input.Text
	}

	if err := s.save(article, diff); err != nil {
		recordMutation("update_article", err)
		return nil, err
	}

	recordMutation("update_article", nil)
	recordTagChanges(diff)
	slog.Info("Article updated", "article_id", id, "question_id", article.OwningQuestionID(), "tag_changes", diff.AsMap())

	return s.reload(id)
}

// DeleteArticle removes an article with its answers, comments, votes and tag links
func (s *ArticleService) DeleteArticle(id uint64) error {
	article, err := s.findArticle(id)
	if err != nil {
		return err
	}

	if err := s.articleRepo.Delete(id); err != nil {
		recordMutation("delete_article", err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}

	recordMutation("delete_article", nil)
	slog.Info("Article deleted", "article_id", id, "kind", article.Kind, "user_id", article.UserID)
	return nil
}

// FindArticle returns a bare article, used by ownership checks
func (s *ArticleService) FindArticle(id uint64) (*models.Article, error) {
	return s.findArticle(id)
}

// GetThread returns the question owning id with answers, tags, comments and
// the score of every article in it
func (s *ArticleService) GetThread(id uint64) (*Thread, error) {
	article, err := s.findArticle(id)
	if err != nil {
		return nil, err
	}

	question, err := s.ResolveOwningQuestion(article)
	if err != nil {
		return nil, err
	}

	thread, err := s.articleRepo.FindThread(question.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}

	ids := []uint64{thread.ID}
	for _, answer := range thread.Answers {
		ids = append(ids, answer.ID)
	}
	scores, err := s.voteRepo.Scores(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	return &Thread{Question: thread, Scores: scores}, nil
}

// ResolveOwningQuestion returns the question an article belongs to. A
// question resolves to itself.
func (s *ArticleService) ResolveOwningQuestion(article *models.Article) (*models.Article, error) {
	if article.IsQuestion() {
		return article, nil
	}
	if article.QuestionID == nil {
		return nil, ErrInvalidParent
	}

	question, err := s.findArticle(*article.QuestionID)
	if err != nil {
		return nil, err
	}
	if !question.IsQuestion() {
		return nil, ErrInvalidParent
	}
	return question, nil
}

// ListQuestions returns every question newest first with the score of each
func (s *ArticleService) ListQuestions() ([]models.Article, map[uint64]int64, error) {
	questions, err := s.articleRepo.ListQuestions()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list questions: %w", err)
	}

	ids := make([]uint64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	scores, err := s.voteRepo.Scores(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load scores: %w", err)
	}

	return questions, scores, nil
}

func (s *ArticleService) findArticle(id uint64) (*models.Article, error) {
	article, err := s.articleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to find article: %w", err)
	}
	return article, nil
}

func (s *ArticleService) reload(id uint64) (*models.Article, error) {
	article, err := s.articleRepo.FindByID(id, "User")
	if err != nil {
		return nil, fmt.Errorf("failed to reload article: %w", err)
	}
	if article.IsQuestion() {
		tags, err := s.tagRepo.ListForArticle(id)
		if err != nil {
			return nil, fmt.Errorf("failed to reload tags: %w", err)
		}
		article.Tags = tags
	}
	return article, nil
}

// save runs the transactional save and turns tag conflicts into field errors
func (s *ArticleService) save(article *models.Article, diff models.TagDiff) error {
	err := s.articleRepo.SaveWithTagDiff(article, diff)
	if err == nil {
		return nil
	}

	var changeErr *repository.TagChangeError
	if errors.As(err, &changeErr) {
		slog.Debug("Tag diff rejected", "article_id", article.ID, "tag", changeErr.Name, "error", changeErr.Err)
		switch {
		case errors.Is(err, repository.ErrDuplicateArticleTag):
			return fieldError(FieldTag, "This article already has that tag.")
		case errors.Is(err, repository.ErrDuplicateTagName):
			return fieldError(FieldTag, fmt.Sprintf("is a duplicate of %s", changeErr.Name))
		case errors.Is(err, repository.ErrTagValidation):
			return fieldError(FieldTag, fmt.Sprintf("%q is invalid", changeErr.Name))
		}
	}
	if errors.Is(err, models.ErrUnknownTagIntent) {
		return fieldError(FieldTag, err.Error())
	}

	slog.Error("Failed to save article", "article_id", article.ID, "error", err)
	return fmt.Errorf("failed to save article: %w", err)
}

// buildTagDiff converts the caller's mapping and validates the names it adds
func buildTagDiff(changes map[string]string, errs *ValidationErrors) models.TagDiff {
	if len(changes) == 0 {
		return nil
	}

	diff, err := models.NewTagDiff(changes)
	if err != nil {
		errs.Add(FieldTag, err.Error())
		return nil
	}

	validateTagDiff(diff, errs)
	return diff
}

func recordTagChanges(diff models.TagDiff) {
	for _, change := range diff {
		tagChanges.WithLabelValues(string(change.Intent)).Inc()
	}
}
