package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/snacks-api/internal/errors"
	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/services"
)

// ArticleFinder loads an article for an ownership check
type ArticleFinder interface {
	FindArticle(id uint64) (*models.Article, error)
}

// CommentFinder loads a comment for an ownership check
type CommentFinder interface {
	GetComment(id uint64) (*models.Comment, error)
}

// RequireArticleOwner lets only the owner of the :id article through
func RequireArticleOwner(articles ArticleFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		articleID, ok := parseIDParam(c)
		if !ok {
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		article, err := articles.FindArticle(articleID)
		if err != nil {
			abortLookup(c, err, services.ErrArticleNotFound, "Article not found")
			return
		}

		if article.UserID != userID {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireCommentOwner lets only the owner of the :id comment through
func RequireCommentOwner(comments CommentFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		commentID, ok := parseIDParam(c)
		if !ok {
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		comment, err := comments.GetComment(commentID)
		if err != nil {
			abortLookup(c, err, services.ErrCommentNotFound, "Comment not found")
			return
		}

		if comment.UserID != userID {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		c.Abort()
		return 0, false
	}
	return id, true
}

func abortLookup(c *gin.Context, err, notFound error, message string) {
	if errors.Is(err, notFound) {
		apierrors.NotFound(c, message)
	} else {
		apierrors.InternalError(c, "")
	}
	c.Abort()
}
