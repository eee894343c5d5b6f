package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/snacks-api/internal/dto"
	apierrors "github.com/yukikurage/snacks-api/internal/errors"
	"github.com/yukikurage/snacks-api/internal/services"
)

// TagHandler serves tag browsing
type TagHandler struct {
	tagService *services.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

type tagRequest struct {
	Name string `json:"name" form:"name"`
}

// ListTags returns every tag with its question count
func (h *TagHandler) ListTags(c *gin.Context) {
	counts, err := h.tagService.TagCounts()
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// CreateTag creates an unused tag
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tag, err := h.tagService.CreateTag(req.Name)
	if err != nil {
		respondServiceError(c, err, req)
		return
	}

	c.JSON(http.StatusCreated, dto.TagDTO{ID: tag.ID, Name: tag.Name})
}

// GetTag returns the :name tag and the questions carrying it
func (h *TagHandler) GetTag(c *gin.Context) {
	page, err := h.tagService.GetByName(c.Param("name"))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, dto.ToTagPageDTO(*page.Tag, page.Questions, page.Scores))
}
