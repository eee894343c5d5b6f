package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/snacks-api/internal/config"
	"github.com/yukikurage/snacks-api/internal/middleware"
	"github.com/yukikurage/snacks-api/internal/services"
)

// Services bundles the services the routes call into
type Services struct {
	Articles *services.ArticleService
	Comments *services.CommentService
	Tags     *services.TagService
	Votes    *services.VoteService
	Search   *services.SearchService
	Users    *services.UserService
}

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, svc Services, cfg *config.Config) {
	authHandler := NewAuthHandler(svc.Users, ProxyIdentity{
		UserHeader:   cfg.AuthUserHeader,
		NameHeader:   cfg.AuthNameHeader,
		SecretHeader: cfg.AuthSecretHeader,
		Secret:       cfg.AuthProxySecret,
	})
	articleHandler := NewArticleHandler(svc.Articles, svc.Votes)
	commentHandler := NewCommentHandler(svc.Comments)
	voteHandler := NewVoteHandler(svc.Votes)
	tagHandler := NewTagHandler(svc.Tags)
	searchHandler := NewSearchHandler(svc.Search)
	userHandler := NewUserHandler(svc.Users)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Snacks API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	read := middleware.RequireReader(cfg.AllowAnonymousReaders)
	write := middleware.RequireAuth()

	// API routes
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/callback", authHandler.Callback)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", write, authHandler.GetCurrentUser)
		}

		questions := api.Group("/questions")
		{
			questions.GET("", read, articleHandler.ListQuestions)
			questions.POST("", write, articleHandler.CreateQuestion)
			questions.GET("/:id", read, articleHandler.GetQuestion)
			questions.POST("/:id/answers", write, articleHandler.CreateAnswer)
		}

		articles := api.Group("/articles")
		articles.Use(write)
		{
			articles.PATCH("/:id", middleware.RequireArticleOwner(svc.Articles), articleHandler.UpdateArticle)
			articles.DELETE("/:id", middleware.RequireArticleOwner(svc.Articles), articleHandler.DeleteArticle)
			articles.POST("/:id/upvote", voteHandler.Upvote)
			articles.POST("/:id/downvote", voteHandler.Downvote)
			articles.POST("/:id/comments", commentHandler.CreateComment)
		}

		api.DELETE("/comments/:id", write, middleware.RequireCommentOwner(svc.Comments), commentHandler.DeleteComment)

		tags := api.Group("/tags")
		{
			tags.GET("", read, tagHandler.ListTags)
			tags.POST("", write, tagHandler.CreateTag)
			tags.GET("/:name", read, tagHandler.GetTag)
		}

		api.GET("/search", read, searchHandler.Search)

		users := api.Group("/users")
		users.Use(read)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
		}
	}
}
