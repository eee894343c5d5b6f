package repository

import (
	"errors"

	"github.com/yukikurage/snacks-api/internal/models"
	"gorm.io/gorm"
)

// VoteOutcome describes what a toggle did to the ledger.
type VoteOutcome string

const (
	VoteCreated  VoteOutcome = "created"
	VoteRemoved  VoteOutcome = "removed"
	VoteSwitched VoteOutcome = "switched"
)

var (
	// ErrDuplicateVote is returned when the (user, article) unique index rejects an insert.
	ErrDuplicateVote = errors.New("vote repository: duplicate vote")
)

// GormVoteRepository is a GORM implementation of VoteRepository
type GormVoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &GormVoteRepository{db: db}
}

// Toggle removes a vote with the same value, replaces one with the opposite
// value, or records a new one. The score is recomputed inside the transaction.
func (r *GormVoteRepository) Toggle(articleID, userID uint64, value int) (int64, VoteOutcome, error) {
	var score int64
	var outcome VoteOutcome

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND article_id = ?", userID, articleID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := createVote(tx, &models.Vote{UserID: userID, ArticleID: articleID, Value: value}); err != nil {
				return err
			}
			outcome = VoteCreated
		case err != nil:
			return err
		case existing.Value == value:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			outcome = VoteRemoved
		default:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := createVote(tx, &models.Vote{UserID: userID, ArticleID: articleID, Value: value}); err != nil {
				return err
			}
			outcome = VoteSwitched
		}

		score, err = scoreOf(tx, articleID)
		return err
	})
	if err != nil {
		return 0, "", err
	}

	return score, outcome, nil
}

// Find finds the vote a user holds on an article
func (r *GormVoteRepository) Find(userID, articleID uint64) (*models.Vote, error) {
	var vote models.Vote
	if err := r.db.Where("user_id = ? AND article_id = ?", userID, articleID).First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

// Score sums the vote values of an article
func (r *GormVoteRepository) Score(articleID uint64) (int64, error) {
	return scoreOf(r.db, articleID)
}

// Scores sums vote values for several articles. Articles without votes map to 0.
func (r *GormVoteRepository) Scores(articleIDs []uint64) (map[uint64]int64, error) {
	scores := make(map[uint64]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return scores, nil
	}

	var rows []struct {
		ArticleID uint64
		Score     int64
	}
	if err := r.db.Model(&models.Vote{}).
		Select("article_id, COALESCE(SUM(value), 0) AS score").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, id := range articleIDs {
		scores[id] = 0
	}
	for _, row := range rows {
		scores[row.ArticleID] = row.Score
	}
	return scores, nil
}

func createVote(db *gorm.DB, vote *models.Vote) error {
	if err := db.Create(vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateVote
		}
		return err
	}
	return nil
}

func scoreOf(db *gorm.DB, articleID uint64) (int64, error) {
	var score int64
	err := db.Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("article_id = ?", articleID).
		Scan(&score).Error
	return score, err
}
