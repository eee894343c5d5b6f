package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/snacks-api/internal/database"
	"github.com/yukikurage/snacks-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// a second connection would open a different in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, uid string) *models.User {
	t.Helper()
	user := &models.User{UID: uid, Name: uid}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createQuestion(t *testing.T, db *gorm.DB, ownerID uint64, tags ...string) *models.Article {
	t.Helper()
	question := models.NewQuestion("How do I frobnicate?", "Looking for a frobnicator", ownerID)

	changes := make(map[string]string, len(tags))
	for _, name := range tags {
		changes[name] = string(models.TagAdd)
	}
	diff, err := models.NewTagDiff(changes)
	require.NoError(t, err)

	require.NoError(t, NewArticleRepository(db).SaveWithTagDiff(question, diff))
	return question
}

func createAnswer(t *testing.T, db *gorm.DB, question *models.Article, ownerID uint64) *models.Article {
	t.Helper()
	answer, err := models.NewAnswer(question, "Use the frobnicator", ownerID)
	require.NoError(t, err)
	require.NoError(t, NewArticleRepository(db).SaveWithTagDiff(answer, nil))
	return answer
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}
