package dto

import (
	"time"

	"github.com/yukikurage/snacks-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	UserID    uint64    `json:"user_id"`
	ArticleID uint64    `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// ArticleDTO represents a question or an answer in API responses
type ArticleDTO struct {
	ID         uint64             `json:"id"`
	Kind       models.ArticleKind `json:"kind"`
	Title      *string            `json:"title,omitempty"`
	Text       string             `json:"text"`
	UserID     uint64             `json:"user_id"`
	QuestionID *uint64            `json:"question_id,omitempty"`
	Score      int64              `json:"score"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	User       *UserDTO           `json:"user,omitempty"`
	Tags       []TagDTO           `json:"tags,omitempty"`
	Comments   []CommentDTO       `json:"comments,omitempty"`

	// MyVote is the caller's vote (-1, 0 or 1), present only for a signed-in caller
	MyVote *int `json:"my_vote,omitempty"`
}

// ThreadDTO is a question with its answers
type ThreadDTO struct {
	ArticleDTO
	Answers []ArticleDTO `json:"answers"`
}

// TagPageDTO is a tag with the questions carrying it
type TagPageDTO struct {
	TagDTO
	Questions []ArticleDTO `json:"questions"`
}

// VoteDTO is the score after a vote toggle
type VoteDTO struct {
	ArticleID uint64 `json:"article_id"`
	Score     int64  `json:"score"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToTagDTOs converts a slice of tags
func ToTagDTOs(tags []models.Tag) []TagDTO {
	items := make([]TagDTO, len(tags))
	for i, tag := range tags {
		items[i] = TagDTO{ID: tag.ID, Name: tag.Name}
	}
	return items
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		Text:      comment.Text,
		UserID:    comment.UserID,
		ArticleID: comment.ArticleID,
		CreatedAt: comment.CreatedAt,
	}

	// Include owner if preloaded
	if comment.User.ID != 0 {
		user := ToUserDTO(comment.User)
		dto.User = &user
	}

	return dto
}

// ToArticleDTO converts an Article model to ArticleDTO
func ToArticleDTO(article models.Article, score int64) ArticleDTO {
	dto := ArticleDTO{
		ID:         article.ID,
		Kind:       article.Kind,
		Title:      article.Title,
		Text:       article.Text,
		UserID:     article.UserID,
		QuestionID: article.QuestionID,
		Score:      score,
		CreatedAt:  article.CreatedAt,
		UpdatedAt:  article.UpdatedAt,
	}

	// Include owner if preloaded
	if article.User.ID != 0 {
		user := ToUserDTO(article.User)
		dto.User = &user
	}

	if article.IsQuestion() {
		dto.Tags = ToTagDTOs(article.Tags)
	}

	if len(article.Comments) > 0 {
		dto.Comments = make([]CommentDTO, len(article.Comments))
		for i, comment := range article.Comments {
			dto.Comments[i] = ToCommentDTO(comment)
		}
	}

	return dto
}

// ToArticleDTOs converts a list of articles using a score lookup
func ToArticleDTOs(articles []models.Article, scores map[uint64]int64) []ArticleDTO {
	items := make([]ArticleDTO, len(articles))
	for i, article := range articles {
		items[i] = ToArticleDTO(article, scores[article.ID])
	}
	return items
}

// ToThreadDTO converts a loaded question and its scores
func ToThreadDTO(question models.Article, scores map[uint64]int64) ThreadDTO {
	return ThreadDTO{
		ArticleDTO: ToArticleDTO(question, scores[question.ID]),
		Answers:    ToArticleDTOs(question.Answers, scores),
	}
}

// ToTagPageDTO converts a tag and its questions using a score lookup
func ToTagPageDTO(tag models.Tag, questions []models.Article, scores map[uint64]int64) TagPageDTO {
	return TagPageDTO{
		TagDTO:    TagDTO{ID: tag.ID, Name: tag.Name},
		Questions: ToArticleDTOs(questions, scores),
	}
}
