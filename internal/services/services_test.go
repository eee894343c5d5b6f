package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/snacks-api/internal/database"
	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	articles *ArticleService
	comments *CommentService
	tags     *TagService
	votes    *VoteService
	users    *UserService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models()...))

	articleRepo := repository.NewArticleRepository(db)
	tagRepo := repository.NewTagRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)

	return testEnv{
		db:       db,
		articles: NewArticleService(articleRepo, tagRepo, voteRepo),
		comments: NewCommentService(commentRepo, articleRepo),
		tags:     NewTagService(tagRepo, articleRepo, voteRepo),
		votes:    NewVoteService(voteRepo, articleRepo),
		users:    NewUserService(userRepo),
	}
}

func (env testEnv) user(t *testing.T, uid string) *models.User {
	t.Helper()
	user, err := env.users.FindOrCreateByUID(uid, uid)
	require.NoError(t, err)
	return user
}

func (env testEnv) question(t *testing.T, ownerID uint64, tags ...string) *models.Article {
	t.Helper()
	changes := map[string]string{}
	for _, name := range tags {
		changes[name] = "add"
	}
	question, err := env.articles.CreateQuestion(CreateQuestionInput{
		Title:   "What is the best snack?",
		Text:    "Asking for a friend",
		OwnerID: ownerID,
		Tags:    changes,
	})
	require.NoError(t, err)
	return question
}

func requireFieldErrors(t *testing.T, err error) *ValidationErrors {
	t.Helper()
	verrs, ok := AsValidationErrors(err)
	require.True(t, ok, "expected validation errors, got %v", err)
	return verrs
}

func strPtr(s string) *string {
	return &s
}
