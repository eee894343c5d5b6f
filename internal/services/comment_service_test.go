package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	env := setupTestEnv(t)
	user := env.user(t, "alice")
	question := env.question(t, user.ID)

	comment, err := env.comments.CreateComment(question.ID, user.ID, "abcde")
	require.NoError(t, err)
	assert.Equal(t, user.ID, comment.UserID)
	assert.Equal(t, "alice", comment.User.Name)

	_, err = env.comments.CreateComment(question.ID, user.ID, "abcd")
	verrs := requireFieldErrors(t, err)
	assert.Equal(t, []string{"is too short (minimum is 5 characters)"}, verrs.Fields[FieldText])

	_, err = env.comments.CreateComment(12345, user.ID, "long enough")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestDeleteComment(t *testing.T) {
	env := setupTestEnv(t)
	user := env.user(t, "alice")
	question := env.question(t, user.ID)
	comment, err := env.comments.CreateComment(question.ID, user.ID, "Delete me later")
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteComment(comment.ID))

	_, err = env.comments.GetComment(comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.ErrorIs(t, env.comments.DeleteComment(comment.ID), ErrCommentNotFound)

	_, err = env.articles.FindArticle(question.ID)
	assert.NoError(t, err)
}
