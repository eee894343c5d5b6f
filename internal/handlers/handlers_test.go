package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/snacks-api/internal/config"
	"github.com/yukikurage/snacks-api/internal/constants"
	"github.com/yukikurage/snacks-api/internal/database"
	"github.com/yukikurage/snacks-api/internal/dto"
	"github.com/yukikurage/snacks-api/internal/models"
	"github.com/yukikurage/snacks-api/internal/repository"
	"github.com/yukikurage/snacks-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const userHeader = "X-Forwarded-User"

type stubSearchRepository struct {
	results []models.SearchResult
}

func (r *stubSearchRepository) Search(_ context.Context, _ string) ([]models.SearchResult, error) {
	return r.results, nil
}

type apiTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	search *stubSearchRepository
	cfg    *config.Config
}

func setupAPITestEnv(t *testing.T, allowAnonymous bool) apiTestEnv {
	t.Helper()
	return setupAPITestEnvWithConfig(t, &config.Config{
		AllowAnonymousReaders: allowAnonymous,
		AuthUserHeader:        userHeader,
		AuthNameHeader:        "X-Forwarded-Preferred-Username",
		AuthSecretHeader:      "X-Auth-Proxy-Secret",
	})
}

func setupAPITestEnvWithConfig(t *testing.T, cfg *config.Config) apiTestEnv {
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
	search := &stubSearchRepository{}

	svc := Services{
		Articles: services.NewArticleService(articleRepo, tagRepo, voteRepo),
		Comments: services.NewCommentService(repository.NewCommentRepository(db), articleRepo),
		Tags:     services.NewTagService(tagRepo, articleRepo, voteRepo),
		Votes:    services.NewVoteService(voteRepo, articleRepo),
		Search:   services.NewSearchService(search),
		Users:    services.NewUserService(repository.NewUserRepository(db)),
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	RegisterRoutes(r, svc, cfg)

	return apiTestEnv{db: db, router: r, search: search, cfg: cfg}
}

// login runs the auth callback for uid and returns the session cookies
func (env apiTestEnv) login(t *testing.T, uid string) []*http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/callback", nil)
	req.Header.Set(userHeader, uid)
	if env.cfg.AuthProxySecret != "" {
		req.Header.Set(env.cfg.AuthSecretHeader, env.cfg.AuthProxySecret)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func (env apiTestEnv) do(t *testing.T, method, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env apiTestEnv) postForm(t *testing.T, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env apiTestEnv) createQuestion(t *testing.T, cookies []*http.Cookie, tags map[string]string) dto.ArticleDTO {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/questions", map[string]interface{}{
		"title": "What is the best snack?",
		"text":  "Asking for a friend",
		"tags":  tags,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var question dto.ArticleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &question))
	return question
}

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details"`
	Input   map[string]any      `json:"input"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
