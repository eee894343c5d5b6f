package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/snacks-api/internal/models"
	"gorm.io/gorm"
)

func TestSaveWithTagDiff_CreatesQuestionAndTags(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	question := createQuestion(t, db, user.ID, "go", "sql")

	require.NotZero(t, question.ID)
	tags, err := NewTagRepository(db).ListForArticle(question.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, tagNames(tags))
}

func TestSaveWithTagDiff_AppliesAddAndRemoveInOneCommit(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	question := createQuestion(t, db, user.ID, "a")

	question.Text = "A longer body for the question"
	diff, err := models.NewTagDiff(map[string]string{"a": "remove", "b": "add", "c": "add"})
	require.NoError(t, err)
	require.NoError(t, NewArticleRepository(db).SaveWithTagDiff(question, diff))

	tags, err := NewTagRepository(db).ListForArticle(question.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, tagNames(tags))

	reloaded, err := NewArticleRepository(db).FindByID(question.ID)
	require.NoError(t, err)
	assert.Equal(t, "A longer body for the question", reloaded.Text)
}

func TestSaveWithTagDiff_DuplicateLinkRollsBackContent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	question := createQuestion(t, db, user.ID, "a")

	question.Text = "This edit must not survive"
	diff, err := models.NewTagDiff(map[string]string{"a": "add", "b": "add"})
	require.NoError(t, err)

	err = NewArticleRepository(db).SaveWithTagDiff(question, diff)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateArticleTag))

	var changeErr *TagChangeError
	require.True(t, errors.As(err, &changeErr))
	assert.Equal(t, "a", changeErr.Name)

	reloaded, err := NewArticleRepository(db).FindByID(question.ID)
	require.NoError(t, err)
	assert.Equal(t, "Looking for a frobnicator", reloaded.Text)

	tags, err := NewTagRepository(db).ListForArticle(question.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, tagNames(tags))

	var linkCount int64
	require.NoError(t, db.Model(&models.ArticleTag{}).Where("article_id = ?", question.ID).Count(&linkCount).Error)
	assert.Equal(t, int64(1), linkCount)
}

func TestSaveWithTagDiff_InvalidTagNameRollsBackNewQuestion(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	question := models.NewQuestion("A valid title", "A valid body", user.ID)
	diff, err := models.NewTagDiff(map[string]string{"Bad Tag": "add"})
	require.NoError(t, err)

	err = NewArticleRepository(db).SaveWithTagDiff(question, diff)
	assert.True(t, errors.Is(err, ErrTagValidation))

	var count int64
	require.NoError(t, db.Model(&models.Article{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaveWithTagDiff_RemoveMissingTagIsNoop(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	question := createQuestion(t, db, user.ID)

	diff, err := models.NewTagDiff(map[string]string{"ghost": "remove"})
	require.NoError(t, err)
	require.NoError(t, NewArticleRepository(db).SaveWithTagDiff(question, diff))

	_, err = NewTagRepository(db).FindByName("ghost")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSaveWithTagDiff_ReusesExistingTag(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	first := createQuestion(t, db, user.ID, "go")
	second := createQuestion(t, db, user.ID, "go")

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	for _, q := range []*models.Article{first, second} {
		tags, err := NewTagRepository(db).ListForArticle(q.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, tagNames(tags))
	}
}

func TestFindThread_LoadsAnswersCommentsAndTags(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	question := createQuestion(t, db, alice.ID, "go")
	answer := createAnswer(t, db, question, bob.ID)

	comments := NewCommentRepository(db)
	require.NoError(t, comments.Create(&models.Comment{Text: "Nice question", UserID: bob.ID, ArticleID: question.ID}))
	require.NoError(t, comments.Create(&models.Comment{Text: "Nice answer", UserID: alice.ID, ArticleID: answer.ID}))

	thread, err := NewArticleRepository(db).FindThread(question.ID)
	require.NoError(t, err)

	assert.Equal(t, "alice", thread.User.Name)
	assert.Equal(t, []string{"go"}, tagNames(thread.Tags))
	require.Len(t, thread.Comments, 1)
	assert.Equal(t, "bob", thread.Comments[0].User.Name)
	require.Len(t, thread.Answers, 1)
	assert.Equal(t, "bob", thread.Answers[0].User.Name)
	require.Len(t, thread.Answers[0].Comments, 1)
	assert.Equal(t, "Nice answer", thread.Answers[0].Comments[0].Text)
}

func TestListQuestions_ExcludesAnswers(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	first := createQuestion(t, db, user.ID, "go")
	second := createQuestion(t, db, user.ID)
	createAnswer(t, db, first, user.ID)

	questions, err := NewArticleRepository(db).ListQuestions()
	require.NoError(t, err)
	require.Len(t, questions, 2)

	byID := map[uint64]models.Article{}
	for _, q := range questions {
		assert.True(t, q.IsQuestion())
		byID[q.ID] = q
	}
	assert.Equal(t, []string{"go"}, tagNames(byID[first.ID].Tags))
	assert.Empty(t, byID[second.ID].Tags)
}

func TestListQuestionsByTag(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	tagged := createQuestion(t, db, user.ID, "go", "sql")
	createQuestion(t, db, user.ID, "rust")

	tag, err := NewTagRepository(db).FindByName("go")
	require.NoError(t, err)

	questions, err := NewArticleRepository(db).ListQuestionsByTag(tag.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, tagged.ID, questions[0].ID)
	assert.Equal(t, []string{"go", "sql"}, tagNames(questions[0].Tags))
}

func TestDelete_QuestionCascades(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	question := createQuestion(t, db, alice.ID, "go")
	answer := createAnswer(t, db, question, bob.ID)
	other := createQuestion(t, db, bob.ID, "go")

	comments := NewCommentRepository(db)
	require.NoError(t, comments.Create(&models.Comment{Text: "On question", UserID: bob.ID, ArticleID: question.ID}))
	require.NoError(t, comments.Create(&models.Comment{Text: "On answer", UserID: alice.ID, ArticleID: answer.ID}))
	require.NoError(t, comments.Create(&models.Comment{Text: "Elsewhere", UserID: alice.ID, ArticleID: other.ID}))

	require.NoError(t, createVote(db, &models.Vote{UserID: bob.ID, ArticleID: question.ID, Value: models.Upvote}))
	require.NoError(t, createVote(db, &models.Vote{UserID: alice.ID, ArticleID: answer.ID, Value: models.Downvote}))

	require.NoError(t, NewArticleRepository(db).Delete(question.ID))

	var count int64
	require.NoError(t, db.Model(&models.Article{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Model(&models.Vote{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ArticleTag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// orphan tags are kept
	_, err := NewTagRepository(db).FindByName("go")
	assert.NoError(t, err)
}

func TestDelete_AnswerKeepsQuestion(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	question := createQuestion(t, db, user.ID)
	answer := createAnswer(t, db, question, user.ID)

	comments := NewCommentRepository(db)
	require.NoError(t, comments.Create(&models.Comment{Text: "On question", UserID: user.ID, ArticleID: question.ID}))
	require.NoError(t, comments.Create(&models.Comment{Text: "On answer", UserID: user.ID, ArticleID: answer.ID}))

	require.NoError(t, NewArticleRepository(db).Delete(answer.ID))

	_, err := NewArticleRepository(db).FindByID(question.ID)
	assert.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := NewArticleRepository(db).Delete(42)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
