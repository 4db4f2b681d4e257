package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskflow/internal/auth"
	"github.com/redmonkez12/taskflow/internal/config"
	"github.com/redmonkez12/taskflow/internal/database"
	"github.com/redmonkez12/taskflow/internal/database/databasetest"
	"github.com/redmonkez12/taskflow/internal/logging"
	"github.com/redmonkez12/taskflow/internal/task"
	"github.com/redmonkez12/taskflow/internal/team"
	"github.com/redmonkez12/taskflow/internal/user"
	"github.com/redmonkez12/taskflow/internal/web"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "prod", TrustedOrigins: []string{"*"}},
		Auth: config.AuthConfig{
			TokenFormat:  config.TokenFormatPlain,
			TokenTTL:     30 * 24 * time.Hour,
			PasswordHash: config.HashSHA256,
		},
	}
}

func newTestRouter(t *testing.T, db *bun.DB) http.Handler {
	t.Helper()
	cfg := testConfig()

	tokens, err := auth.NewTokenService(cfg.Auth)
	require.NoError(t, err)
	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHash)
	require.NoError(t, err)

	handlers := Handlers{
		Auth: auth.NewHandler(auth.NewService(user.NewRepository(db), hasher, tokens)),
		Task: task.NewHandler(task.NewRepository(db)),
		Team: team.NewHandler(team.NewRepository(db)),
		Site: web.NewSiteFS(fstest.MapFS{"index.html": {Data: []byte("<h1>TaskFlow</h1>")}}),
	}

	return NewRouter(cfg, handlers, auth.NewMiddleware(tokens), logging.NewLogger(false))
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *client) signIn(fullName, email, password string) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/signup",
		`{"fullName":"`+fullName+`","email":"`+email+`","password":"`+password+`"}`)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/signin", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp auth.SignInResponse
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(c.t, resp.Token)
	c.token = resp.Token
}

func TestRouter_EndToEnd(t *testing.T) {
	router := newTestRouter(t, databasetest.NewDB(t))
	c := &client{t: t, router: router}

	rec := c.do(http.MethodPost, "/api/signup", `{"fullName":"Jane","email":"j@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"message":"User created"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = c.do(http.MethodPost, "/api/signin", `{"email":"j@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var signin auth.SignInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signin))
	assert.Equal(t, auth.AccountResponse{ID: 1, FullName: "Jane", Email: "j@x.com"}, signin.User)
	assert.True(t, strings.HasPrefix(signin.Token, "1:"))
	c.token = signin.Token

	rec = c.do(http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/tasks", `{"name":"A","project":"P","dueDate":"2024-01-01","priority":"High"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"message":"Task created"}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"A","project":"P","dueDate":"2024-01-01","priority":"High","assignees":[],"status":"In Progress"}]`, rec.Body.String())

	rec = c.do(http.MethodDelete, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"fullName":"Jane","email":"j@x.com","bio":null}`, rec.Body.String())

	rec = c.do(http.MethodPut, "/api/user", `{"fullName":"Jane Roe","email":"j@x.com","bio":"PM"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"fullName":"Jane Roe","email":"j@x.com","bio":"PM"}`, rec.Body.String())
}

func TestRouter_TasksAreIsolatedPerUser(t *testing.T) {
	router := newTestRouter(t, databasetest.NewDB(t))
	alice := &client{t: t, router: router}
	alice.signIn("Alice", "a@x.com", "pw")
	bob := &client{t: t, router: router}
	bob.signIn("Bob", "b@x.com", "pw")

	rec := alice.do(http.MethodPost, "/api/tasks", `{"name":"A","project":"P","dueDate":"2024-01-01","priority":"High"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = bob.do(http.MethodGet, "/api/tasks", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = bob.do(http.MethodPut, "/api/tasks/1", `{"name":"X","project":"P","dueDate":"2024-01-01","priority":"High","status":"Done"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Task not found or unauthorized"}`, rec.Body.String())

	rec = bob.do(http.MethodDelete, "/api/tasks/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = alice.do(http.MethodGet, "/api/tasks", "")
	assert.Contains(t, rec.Body.String(), `"name":"A"`)
}

func TestRouter_Unauthorized(t *testing.T) {
	router := newTestRouter(t, databasetest.NewDB(t))

	tests := []struct {
		method string
		path   string
		token  string
		body   string
	}{
		{http.MethodGet, "/api/tasks", "", ""},
		{http.MethodGet, "/api/user", "garbage", ""},
		{http.MethodPut, "/api/user", "Bearer 1:1700000000", `{"fullName":"A","email":"a@x.com"}`},
		{http.MethodPost, "/api/tasks", "1:0", `not json`},
		{http.MethodPut, "/api/tasks/1", "", `{}`},
		{http.MethodDelete, "/api/tasks/1", "0:1700000000", ""},
		{http.MethodGet, "/api/team", "", ""},
		{http.MethodPost, "/api/team", "", `{"fullName":"A","email":"a@x.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			c := &client{t: t, router: router, token: tt.token}
			rec := c.do(tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestRouter_Team(t *testing.T) {
	router := newTestRouter(t, databasetest.NewDB(t))
	c := &client{t: t, router: router}
	c.signIn("Jane", "j@x.com", "pw")

	rec := c.do(http.MethodGet, "/api/team", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":1,"fullName":"John Doe","email":"john.doe@example.com"},
		{"id":2,"fullName":"Alice Smith","email":"alice.smith@example.com"},
		{"id":3,"fullName":"Tom Kelly","email":"tom.kelly@example.com"}
	]`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/team", `{"fullName":"Eve","email":"eve@x.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":4,"message":"Team member added"}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/team", `{"fullName":"Eve","email":"eve@x.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, rec.Body.String())
}

func TestRouter_DuplicateSignup(t *testing.T) {
	db := databasetest.NewDB(t)
	c := &client{t: t, router: newTestRouter(t, db)}

	rec := c.do(http.MethodPost, "/api/signup", `{"fullName":"Jane","email":"j@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = c.do(http.MethodPost, "/api/signup", `{"fullName":"Jane","email":"j@x.com","password":"pw"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, rec.Body.String())

	count, err := db.NewSelect().Model((*database.User)(nil)).Where("email = ?", "j@x.com").Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec = c.do(http.MethodPost, "/api/signin", `{"email":"j@x.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
}

func TestRouter_Preflight(t *testing.T) {
	router := newTestRouter(t, databasetest.NewDB(t))

	for _, path := range []string{"/api/tasks", "/api/tasks/7", "/anything/at/all"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "DELETE")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestRouter_NotFound(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t, databasetest.NewDB(t))}

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/api/nope"},
		{http.MethodPatch, "/api/tasks/1"},
		{http.MethodGet, "/api/signup"},
		{http.MethodPost, "/health"},
	} {
		rec := c.do(tt.method, tt.path, "")
		require.Equal(t, http.StatusNotFound, rec.Code, tt.method+" "+tt.path)
		assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	c := &client{t: t, router: newTestRouter(t, databasetest.NewDB(t))}

	rec := c.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"api is running"}`, rec.Body.String())
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))

	rec = c.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>TaskFlow</h1>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")

	rec = c.do(http.MethodGet, "/dashboard.html", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "swagger is only mounted in dev")
}

func TestRouter_StorageError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := database.NewBunDB(sqlDB, config.DriverPostgres)
	t.Cleanup(func() { _ = db.Close() })

	// issued far in the future, so it never expires during the test
	c := &client{t: t, router: newTestRouter(t, db), token: "1:9999999999"}

	mock.ExpectQuery(`SELECT .* FROM "team"`).WillReturnError(errors.New("connection reset by peer"))

	rec := c.do(http.MethodGet, "/api/team", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["error"], "Database error: "), body["error"])
	assert.Contains(t, body["error"], "connection reset by peer")
	require.NoError(t, mock.ExpectationsWereMet())
}
