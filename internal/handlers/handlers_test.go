package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/confcfp/cfp-server/internal/constants"
	"github.com/confcfp/cfp-server/internal/middleware"
	"github.com/confcfp/cfp-server/internal/repository"
	"github.com/confcfp/cfp-server/internal/services"
	"github.com/confcfp/cfp-server/internal/testutil"
	"github.com/confcfp/cfp-server/internal/validation"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testClientURL = "http://localhost:3000"

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
}

type handlerTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	github      *testutil.GitHubServer
	authService *services.AuthService
}

func setupHandlerTestEnv(t *testing.T, fixture testutil.GitHubFixture) handlerTestEnv {
	t.Helper()

	db := testutil.NewDB(t)
	github := testutil.NewGitHubServer(t, fixture)
	log := zap.NewNop()

	memberRepo := repository.NewMemberRepository(db)
	authService := services.NewAuthService(memberRepo, services.NewGitHubClient(services.GitHubConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint:     github.Endpoint(),
		APIBaseURL:   github.URL,
		HTTPClient:   github.Client(),
	}), "test-secret", log)

	authHandler := NewAuthHandler(authService, testClientURL, false, log)
	activityHandler := NewActivityHandler(services.NewActivityService(repository.NewActivityRepository(db)))

	r := gin.New()
	auth := r.Group("/auth")
	auth.Use(sessions.Sessions(constants.OAuthSessionName, cookie.NewStore([]byte("secret"))))
	auth.GET("/github", authHandler.GitHubLogin)
	auth.GET("/github/callback", authHandler.GitHubCallback)
	auth.GET("/me", middleware.RequireAuth(authService), authHandler.GetCurrentMember)
	auth.POST("/logout", authHandler.Logout)

	r.POST("/activities", activityHandler.CreateActivity)
	r.GET("/activities", activityHandler.ListActivities)
	r.GET("/activities/:id", middleware.RequireUUIDParam("id"), activityHandler.GetActivity)
	r.GET("/activities/slug/:slug", activityHandler.GetActivityBySlug)

	return handlerTestEnv{db: db, router: r, github: github, authService: authService}
}

func defaultFixture() testutil.GitHubFixture {
	return testutil.GitHubFixture{
		Profile: map[string]any{
			"id":         7,
			"login":      "ada",
			"name":       "Ada",
			"email":      "a@x.com",
			"avatar_url": "https://avatars.example.com/u/7",
			"html_url":   "https://github.com/ada",
		},
		SocialAccounts: []map[string]any{
			{"provider": "mastodon", "url": "https://hachyderm.io/@ada"},
		},
	}
}

func (env handlerTestEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env handlerTestEnv) postJSON(path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return env.do(req)
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// beginLogin runs GET /auth/github and returns the state and session cookie.
func (env handlerTestEnv) beginLogin(t *testing.T) (string, *http.Cookie) {
	t.Helper()

	w := env.do(httptest.NewRequest(http.MethodGet, "/auth/github", nil))
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	session := findCookie(w.Result().Cookies(), constants.OAuthSessionName)
	require.NotNil(t, session)
	return state, session
}

func (env handlerTestEnv) callback(code, state string, session *http.Cookie) *httptest.ResponseRecorder {
	q := url.Values{"code": {code}, "state": {state}}
	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?"+q.Encode(), nil)
	if session != nil {
		return env.do(req, session)
	}
	return env.do(req)
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
