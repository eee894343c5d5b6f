package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/snacks-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSaveArticle is returned when the content write fails inside the save transaction.
	ErrSaveArticle = errors.New("article repository: save article failed")
)

// GormArticleRepository is a GORM implementation of ArticleRepository
type GormArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &GormArticleRepository{db: db}
}

// SaveWithTagDiff writes the content first, then applies the tag diff. Any
// error rolls back the content change as well.
func (r *GormArticleRepository) SaveWithTagDiff(article *models.Article, diff models.TagDiff) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(article).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrSaveArticle, err)
		}

		if len(diff) == 0 {
			return nil
		}

		return applyTagDiff(tx, article.ID, diff)
	})
}

// FindByID finds an article by ID with optional preloading
func (r *GormArticleRepository) FindByID(id uint64, preload ...string) (*models.Article, error) {
	var article models.Article
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&article, id).Error; err != nil {
		return nil, err
	}

	return &article, nil
}

// FindThread loads a question with everything needed to show it
func (r *GormArticleRepository) FindThread(id uint64) (*models.Article, error) {
	byCreation := func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}

	var article models.Article
	err := r.db.
		Preload("User").
		Preload("Comments", byCreation).
		Preload("Comments.User").
		Preload("Answers", byCreation).
		Preload("Answers.User").
		Preload("Answers.Comments", byCreation).
		Preload("Answers.Comments.User").
		First(&article, id).Error
	if err != nil {
		return nil, err
	}

	if article.IsQuestion() {
		tags, err := listTagsForArticle(r.db, article.ID)
		if err != nil {
			return nil, err
		}
		article.Tags = tags
	}

	return &article, nil
}

// ListQuestions lists questions newest first
func (r *GormArticleRepository) ListQuestions() ([]models.Article, error) {
	var questions []models.Article
	if err := r.db.Preload("User").
		Where("kind = ?", models.KindQuestion).
		Order("created_at DESC, id DESC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	if err := r.attachTags(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ListQuestionsByTag lists the questions carrying a tag
func (r *GormArticleRepository) ListQuestionsByTag(tagID uint64) ([]models.Article, error) {
	var questions []models.Article
	if err := r.db.Preload("User").
		Joins("JOIN articles_tags ON articles_tags.article_id = articles.id").
		Where("articles_tags.tag_id = ? AND articles.kind = ?", tagID, models.KindQuestion).
		Order("articles.created_at DESC, articles.id DESC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	if err := r.attachTags(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Delete removes an article and everything that hangs off it in a transaction
func (r *GormArticleRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		articleIDs := []uint64{id}

		var answerIDs []uint64
		if err := tx.Model(&models.Article{}).
			Where("question_id = ?", id).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		articleIDs = append(articleIDs, answerIDs...)

		// Delete comments on the article and its answers
		if err := tx.Where("article_id IN ?", articleIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		// Delete votes on the article and its answers
		if err := tx.Where("article_id IN ?", articleIDs).Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		// Delete tag links
		if err := tx.Where("article_id IN ?", articleIDs).Delete(&models.ArticleTag{}).Error; err != nil {
			return err
		}

		// Delete answers
		if len(answerIDs) > 0 {
			if err := tx.Where("id IN ?", answerIDs).Delete(&models.Article{}).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Article{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// attachTags fills Tags on each question with one query
func (r *GormArticleRepository) attachTags(questions []models.Article) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]uint64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	var rows []struct {
		ArticleID uint64
		ID        uint64
		Name      string
	}
	if err := r.db.Table("articles_tags").
		Select("articles_tags.article_id, tags.id, tags.name").
		Joins("JOIN tags ON tags.id = articles_tags.tag_id").
		Where("articles_tags.article_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&rows).Error; err != nil {
		return err
	}

	byArticle := make(map[uint64][]models.Tag, len(questions))
	for _, row := range rows {
		byArticle[row.ArticleID] = append(byArticle[row.ArticleID], models.Tag{ID: row.ID, Name: row.Name})
	}
	for i := range questions {
		questions[i].Tags = byArticle[questions[i].ID]
	}

	return nil
}
