package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/snacks-api/internal/dto"
	apierrors "github.com/yukikurage/snacks-api/internal/errors"
	"github.com/yukikurage/snacks-api/internal/middleware"
	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/services"
)

// VoteHandler serves upvote and downvote toggles
type VoteHandler struct {
	voteService *services.VoteService
}

// NewVoteHandler creates a new VoteHandler
func NewVoteHandler(voteService *services.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

// Upvote toggles an upvote on the :id article
func (h *VoteHandler) Upvote(c *gin.Context) {
	h.toggle(c, models.Upvote)
}

// Downvote toggles a downvote on the :id article
func (h *VoteHandler) Downvote(c *gin.Context) {
	h.toggle(c, models.Downvote)
}

func (h *VoteHandler) toggle(c *gin.Context, direction int) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	score, err := h.voteService.ToggleVote(id, userID, direction)
	if err != nil {
		respondServiceError(c, err, gin.H{"value": direction})
		return
	}

	c.JSON(http.StatusOK, dto.VoteDTO{ArticleID: id, Score: score})
}
