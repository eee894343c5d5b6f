package models

import (
	"errors"
	"time"
)

type ArticleKind string

const (
	KindQuestion ArticleKind = "Question"
	KindAnswer   ArticleKind = "Answer"
)

var (
	// ErrInvalidParent is returned when an answer is attached to something other than a question
	ErrInvalidParent = errors.New("answer parent must be a question")
)

// Article is the shared row for questions and answers. Kind selects the
// variant: only questions carry a Title and Tags, only answers carry a
// QuestionID.
type Article struct {
	ID         uint64      `gorm:"primarykey" json:"id"`
	Kind       ArticleKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Title      *string     `gorm:"type:text" json:"title,omitempty"`
	Text       string      `gorm:"type:text;not null" json:"text"`
	UserID     uint64      `gorm:"not null;index" json:"user_id"`
	QuestionID *uint64     `gorm:"index" json:"question_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Answers  []Article `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	Comments []Comment `gorm:"foreignKey:ArticleID" json:"comments,omitempty"`

	// Tags is loaded through articles_tags by the repository
	Tags []Tag `gorm:"-" json:"tags,omitempty"`
}

// NewQuestion builds an unsaved question owned by ownerID.
func NewQuestion(title, text string, ownerID uint64) *Article {
	return &Article{
		Kind:   KindQuestion,
		Title:  &title,
		Text:   text,
		UserID: ownerID,
	}
}

// NewAnswer builds an unsaved answer to question. The parent must be a
// persisted question.
func NewAnswer(question *Article, text string, ownerID uint64) (*Article, error) {
	if question == nil || question.ID == 0 || !question.IsQuestion() {
		return nil, ErrInvalidParent
	}

	questionID := question.ID
	return &Article{
		Kind:       KindAnswer,
		Text:       text,
		UserID:     ownerID,
		QuestionID: &questionID,
	}, nil
}

func (a *Article) IsQuestion() bool {
	return a.Kind == KindQuestion
}

func (a *Article) IsAnswer() bool {
	return a.Kind == KindAnswer
}

// TitleValue returns the title or an empty string for answers.
func (a *Article) TitleValue() string {
	if a.Title == nil {
		return ""
	}
	return *a.Title
}

// OwningQuestionID anchors an article at the question level: an answer
// resolves to its parent, a question to itself.
func (a *Article) OwningQuestionID() uint64 {
	if a.IsAnswer() && a.QuestionID != nil {
		return *a.QuestionID
	}
	return a.ID
}
