package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"
	"quill/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-which-is-long-enough"

func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	s := &Server{
		config:   &config.Config{JWTSecret: testSecret, UploadDir: t.TempDir()},
		db:       db,
		tokens:   auth.NewTokenIssuer(testSecret),
		userRepo: repository.NewUserRepository(db),
		postRepo: repository.NewPostRepository(db),
	}
	s.files = storage.NewDiskStore(s.config.UploadDir)
	s.authService = service.NewAuthService(s.userRepo, s.tokens)
	s.postService = service.NewPostService(s.postRepo, s.files)
	s.userService = service.NewUserService(s.userRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// registerTestUser creates a user directly through the service and returns a
// valid bearer token for it.
func registerTestUser(t *testing.T, s *Server, email string) (*models.User, string) {
	t.Helper()

	user, err := s.authService.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Name:     "Test User",
		Password: "sup3r-secret",
	})
	require.NoError(t, err)

	token, err := s.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)
	return user, token
}

func doQuery(t *testing.T, app *fiber.App, token, op string, args any) *http.Response {
	t.Helper()

	body, err := json.Marshal(map[string]any{"operation": op, "args": args})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestHandleQuery_UnknownOperation(t *testing.T) {
	_, app := newTestServer(t)

	resp := doQuery(t, app, "", "frobnicate", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope models.ErrorResponse
	decodeBody(t, resp, &envelope)
	assert.Equal(t, http.StatusBadRequest, envelope.Status)
	assert.Contains(t, envelope.Message, "frobnicate")
}

func TestHandleQuery_AuthRequired(t *testing.T) {
	_, app := newTestServer(t)

	for _, op := range []string{"createPost", "posts", "post", "updatePost", "deletePost", "user", "updateStatus"} {
		t.Run(op, func(t *testing.T) {
			resp := doQuery(t, app, "", op, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var envelope models.ErrorResponse
			decodeBody(t, resp, &envelope)
			assert.Equal(t, http.StatusUnauthorized, envelope.Status)
			assert.Empty(t, envelope.Data)
		})
	}
}

func TestHandleQuery_GarbageTokenIsUnauthenticated(t *testing.T) {
	_, app := newTestServer(t)

	resp := doQuery(t, app, "not-a-token", "posts", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateUserOperation(t *testing.T) {
	_, app := newTestServer(t)

	t.Run("creates the user", func(t *testing.T) {
		resp := doQuery(t, app, "", "createUser", map[string]string{
			"email":    "new@example.com",
			"name":     "Newcomer",
			"password": "long-enough",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Message string   `json:"message"`
			User    UserView `json:"user"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "User created", body.Message)
		assert.Equal(t, "new@example.com", body.User.Email)
		assert.Equal(t, models.DefaultStatus, body.User.Status)
		assert.NotEmpty(t, body.User.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := doQuery(t, app, "", "createUser", map[string]string{
			"email":    "new@example.com",
			"name":     "Impostor",
			"password": "long-enough",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("all violations reported together", func(t *testing.T) {
		resp := doQuery(t, app, "", "createUser", map[string]string{
			"email":    "not-an-email",
			"name":     "X",
			"password": "pw",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var envelope models.ErrorResponse
		decodeBody(t, resp, &envelope)
		assert.Equal(t, http.StatusUnprocessableEntity, envelope.Status)
		assert.Len(t, envelope.Data, 2, "email and password violations both present")
	})
}

func TestLoginOperation(t *testing.T) {
	s, app := newTestServer(t)
	user, _ := registerTestUser(t, s, "login@example.com")

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		resp := doQuery(t, app, "", "login", map[string]string{
			"email":    "login@example.com",
			"password": "sup3r-secret",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body LoginResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, formatID(user.ID), body.UserID)

		ident, ok := s.tokens.Verify(body.Token)
		require.True(t, ok)
		assert.Equal(t, user.ID, ident.UserID)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPw := doQuery(t, app, "", "login", map[string]string{
			"email":    "login@example.com",
			"password": "wrong-password",
		})
		unknown := doQuery(t, app, "", "login", map[string]string{
			"email":    "nobody@example.com",
			"password": "sup3r-secret",
		})
		assert.Equal(t, http.StatusUnauthorized, wrongPw.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)

		var a, b models.ErrorResponse
		decodeBody(t, wrongPw, &a)
		decodeBody(t, unknown, &b)
		assert.Equal(t, a.Message, b.Message)
	})
}

func TestPostOperations(t *testing.T) {
	s, app := newTestServer(t)
	owner, ownerToken := registerTestUser(t, s, "owner@example.com")
	_, otherToken := registerTestUser(t, s, "other@example.com")

	var createdID string

	t.Run("createPost returns the creator-resolved view", func(t *testing.T) {
		resp := doQuery(t, app, ownerToken, "createPost", map[string]string{
			"title":    "First post",
			"content":  "Some long enough content",
			"imageUrl": "images/first.png",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var view PostView
		decodeBody(t, resp, &view)
		assert.NotEmpty(t, view.ID)
		assert.Equal(t, "First post", view.Title)
		require.NotNil(t, view.Creator)
		assert.Equal(t, formatID(owner.ID), view.Creator.ID)
		assert.Equal(t, "owner@example.com", view.Creator.Email)
		assert.NotEmpty(t, view.CreatedAt)
		createdID = view.ID
	})

	t.Run("post reads a single post", func(t *testing.T) {
		resp := doQuery(t, app, otherToken, "post", map[string]string{"id": createdID})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var view PostView
		decodeBody(t, resp, &view)
		assert.Equal(t, createdID, view.ID)
	})

	t.Run("missing post is 404", func(t *testing.T) {
		resp := doQuery(t, app, ownerToken, "post", map[string]string{"id": "9999"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("updatePost by a non-owner is 403", func(t *testing.T) {
		resp := doQuery(t, app, otherToken, "updatePost", map[string]string{
			"id":      createdID,
			"title":   "Hijacked title",
			"content": "Hijacked content",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("updatePost of a missing post is 404 before ownership", func(t *testing.T) {
		resp := doQuery(t, app, otherToken, "updatePost", map[string]string{
			"id":      "9999",
			"title":   "Ghost title",
			"content": "Ghost content",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("updatePost by the owner succeeds and keeps the image", func(t *testing.T) {
		resp := doQuery(t, app, ownerToken, "updatePost", map[string]string{
			"id":      createdID,
			"title":   "Edited title",
			"content": "Edited content body",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var view PostView
		decodeBody(t, resp, &view)
		assert.Equal(t, "Edited title", view.Title)
		assert.Equal(t, "images/first.png", view.ImageURL)
	})

	t.Run("deletePost by a non-owner is 403", func(t *testing.T) {
		resp := doQuery(t, app, otherToken, "deletePost", map[string]string{"id": createdID})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("deletePost by the owner removes the post", func(t *testing.T) {
		resp := doQuery(t, app, ownerToken, "deletePost", map[string]string{"id": createdID})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		gone := doQuery(t, app, ownerToken, "post", map[string]string{"id": createdID})
		assert.Equal(t, http.StatusNotFound, gone.StatusCode)
	})
}

func TestPostsPagination(t *testing.T) {
	s, app := newTestServer(t)
	_, token := registerTestUser(t, s, "author@example.com")

	for i := 1; i <= 5; i++ {
		resp := doQuery(t, app, token, "createPost", map[string]string{
			"title":    fmt.Sprintf("Post number %d", i),
			"content":  "Content long enough to pass",
			"imageUrl": "images/page.png",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	page := func(n int) PostsResponse {
		resp := doQuery(t, app, token, "posts", map[string]int{"page": n})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body PostsResponse
		decodeBody(t, resp, &body)
		return body
	}

	first := page(1)
	assert.Len(t, first.Posts, 2)
	assert.EqualValues(t, 5, first.TotalPosts)
	assert.Equal(t, "Post number 5", first.Posts[0].Title, "newest first")

	third := page(3)
	assert.Len(t, third.Posts, 1)
	assert.EqualValues(t, 5, third.TotalPosts)
	assert.Equal(t, "Post number 1", third.Posts[0].Title)

	fourth := page(4)
	assert.Empty(t, fourth.Posts)
	assert.EqualValues(t, 5, fourth.TotalPosts, "total unaffected by out-of-range page")
}

func TestUserOperations(t *testing.T) {
	s, app := newTestServer(t)
	_, token := registerTestUser(t, s, "profile@example.com")

	createResp := doQuery(t, app, token, "createPost", map[string]string{
		"title":    "Profile post",
		"content":  "Visible from the profile",
		"imageUrl": "images/profile.png",
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	t.Run("user returns own profile with posts", func(t *testing.T) {
		resp := doQuery(t, app, token, "user", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var view UserView
		decodeBody(t, resp, &view)
		assert.Equal(t, "profile@example.com", view.Email)
		require.Len(t, view.Posts, 1)
		assert.Equal(t, "Profile post", view.Posts[0].Title)
	})

	t.Run("updateStatus persists", func(t *testing.T) {
		resp := doQuery(t, app, token, "updateStatus", map[string]string{"status": "Writing tests"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var view UserView
		decodeBody(t, resp, &view)
		assert.Equal(t, "Writing tests", view.Status)

		again := doQuery(t, app, token, "user", nil)
		var reread UserView
		decodeBody(t, again, &reread)
		assert.Equal(t, "Writing tests", reread.Status)
	})

	t.Run("empty status is a validation failure", func(t *testing.T) {
		resp := doQuery(t, app, token, "updateStatus", map[string]string{"status": ""})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}
