package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/snacks-api/internal/dto"
	apierrors "github.com/yukikurage/snacks-api/internal/errors"
	"github.com/yukikurage/snacks-api/internal/middleware"
	"github.com/yukikurage/snacks-api/internal/services"
	"github.com/yukikurage/snacks-api/internal/utils"
)

// ArticleHandler serves questions and answers
type ArticleHandler struct {
	articleService *services.ArticleService
	voteService    *services.VoteService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleService *services.ArticleService, voteService *services.VoteService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		voteService:    voteService,
	}
}

// tagInput accepts tag changes either as a JSON object or as the taghash
// form field holding the same object encoded as a string
type tagInput struct {
	Tags    map[string]string `json:"tags,omitempty" form:"-"`
	TagHash string            `json:"taghash,omitempty" form:"taghash"`
}

func (t tagInput) changes() map[string]string {
	if t.Tags != nil {
		return t.Tags
	}
	return utils.ParseTagHash(t.TagHash)
}

type questionRequest struct {
	Title string `json:"title" form:"title"`
	Text  string `json:"text" form:"text"`
	tagInput
}

type answerRequest struct {
	Text string `json:"text" form:"text"`
}

type articlePatchRequest struct {
	Title *string `json:"title,omitempty" form:"title"`
	Text  *string `json:"text,omitempty" form:"text"`
	tagInput
}

// ListQuestions returns every question newest first
func (h *ArticleHandler) ListQuestions(c *gin.Context) {
	questions, scores, err := h.articleService.ListQuestions()
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, dto.ToArticleDTOs(questions, scores))
}

// CreateQuestion asks a new question owned by the current user
func (h *ArticleHandler) CreateQuestion(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req questionRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	question, err := h.articleService.CreateQuestion(services.CreateQuestionInput{
		Title:   req.Title,
		Text:    req.Text,
		OwnerID: userID,
		Tags:    req.changes(),
	})
	if err != nil {
		respondServiceError(c, err, req)
		return
	}

	c.JSON(http.StatusCreated, dto.ToArticleDTO(*question, 0))
}

// GetQuestion returns the question owning :id with its answers and comments
func (h *ArticleHandler) GetQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	thread, err := h.articleService.GetThread(id)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	response := dto.ToThreadDTO(*thread.Question, thread.Scores)
	if userID, signedIn := middleware.GetUserID(c); signedIn {
		if err := h.attachMyVotes(&response, userID); err != nil {
			respondServiceError(c, err, nil)
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

// attachMyVotes fills in the caller's vote on the question and each answer
func (h *ArticleHandler) attachMyVotes(thread *dto.ThreadDTO, userID uint64) error {
	articles := []*dto.ArticleDTO{&thread.ArticleDTO}
	for i := range thread.Answers {
		articles = append(articles, &thread.Answers[i])
	}

	for _, article := range articles {
		value, err := h.voteService.VoteFor(userID, article.ID)
		if err != nil {
			return err
		}
		article.MyVote = &value
	}
	return nil
}

// CreateAnswer answers the :id question
func (h *ArticleHandler) CreateAnswer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	answer, err := h.articleService.CreateAnswer(id, req.Text, userID)
	if err != nil {
		respondServiceError(c, err, req)
		return
	}

	c.JSON(http.StatusCreated, dto.ToArticleDTO(*answer, 0))
}

// UpdateArticle edits the :id article. Ownership is checked by middleware.
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req articlePatchRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	article, err := h.articleService.UpdateArticle(id, services.UpdateArticleInput{
		Title: req.Title,
		Text:  req.Text,
		Tags:  req.changes(),
	})
	if err != nil {
		respondServiceError(c, err, req)
		return
	}

	score, err := h.voteService.Score(article.ID)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, dto.ToArticleDTO(*article, score))
}

// DeleteArticle deletes the :id article and everything under it
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(id); err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Article deleted successfully",
	})
}
