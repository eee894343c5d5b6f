package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/snacks-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrTagValidation is returned when a tag name in the diff is not a valid slug.
	ErrTagValidation = errors.New("tag repository: invalid tag name")
	// ErrDuplicateTagName is returned when a tag with the same name was created concurrently.
	ErrDuplicateTagName = errors.New("tag repository: duplicate tag name")
	// ErrDuplicateArticleTag is returned when the article already carries the tag.
	ErrDuplicateArticleTag = errors.New("tag repository: article already has tag")
)

// TagChangeError reports which change of a tag diff failed.
type TagChangeError struct {
	Name string
	Err  error
}

func (e *TagChangeError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Name)
}

func (e *TagChangeError) Unwrap() error {
	return e.Err
}

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// Create creates a new tag
func (r *GormTagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// FindByName finds a tag by its exact name
func (r *GormTagRepository) FindByName(name string) (*models.Tag, error) {
	return findTagByName(r.db, name)
}

// ListForArticle lists the tags linked to an article ordered by name
func (r *GormTagRepository) ListForArticle(articleID uint64) ([]models.Tag, error) {
	return listTagsForArticle(r.db, articleID)
}

// Counts lists every tag with the number of questions linked to it
func (r *GormTagRepository) Counts() ([]models.TagCount, error) {
	var counts []models.TagCount
	err := r.db.Raw(`
		SELECT tags.id, tags.name, COUNT(articles_tags.id) AS count
		FROM tags
		LEFT JOIN articles_tags ON articles_tags.tag_id = tags.id
		GROUP BY tags.id, tags.name
		ORDER BY count DESC, tags.name ASC
	`).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func findTagByName(db *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func listTagsForArticle(db *gorm.DB, articleID uint64) ([]models.Tag, error) {
	var tags []models.Tag
	err := db.Joins("JOIN articles_tags ON articles_tags.tag_id = tags.id").
		Where("articles_tags.article_id = ?", articleID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// applyTagDiff links and unlinks tags on an article inside tx. The caller
// owns the transaction, so any returned error discards the whole save.
func applyTagDiff(tx *gorm.DB, articleID uint64, diff models.TagDiff) error {
	for _, change := range diff {
		var err error
		switch change.Intent {
		case models.TagAdd:
			err = addTag(tx, articleID, change.Name)
		case models.TagRemove:
			err = removeTag(tx, articleID, change.Name)
		default:
			err = fmt.Errorf("%w %q", models.ErrUnknownTagIntent, change.Intent)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func addTag(tx *gorm.DB, articleID uint64, name string) error {
	if !models.ValidTagName(name) {
		return &TagChangeError{Name: name, Err: ErrTagValidation}
	}

	tag, err := findTagByName(tx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = &models.Tag{Name: name}
		if err := tx.Create(tag).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &TagChangeError{Name: name, Err: ErrDuplicateTagName}
			}
			return err
		}
	} else if err != nil {
		return err
	}

	var linked int64
	if err := tx.Model(&models.ArticleTag{}).
		Where("article_id = ? AND tag_id = ?", articleID, tag.ID).
		Count(&linked).Error; err != nil {
		return err
	}
	if linked > 0 {
		return &TagChangeError{Name: name, Err: ErrDuplicateArticleTag}
	}

	link := &models.ArticleTag{ArticleID: articleID, TagID: tag.ID}
	if err := tx.Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &TagChangeError{Name: name, Err: ErrDuplicateArticleTag}
		}
		return err
	}

	return nil
}

func removeTag(tx *gorm.DB, articleID uint64, name string) error {
	tag, err := findTagByName(tx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return tx.Where("article_id = ? AND tag_id = ?", articleID, tag.ID).
		Delete(&models.ArticleTag{}).Error
}
