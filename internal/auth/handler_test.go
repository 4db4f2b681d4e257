package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskflow/internal/database"
	"github.com/redmonkez12/taskflow/internal/database/databasetest"
	"github.com/redmonkez12/taskflow/internal/user"
)

type handlerFixture struct {
	handler *Handler
	db      *bun.DB
	users   *user.Repository
	tokens  *PlainTokenService
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	db := databasetest.NewDB(t)
	users := user.NewRepository(db)
	tokens := NewPlainTokenService(time.Hour)
	tokens.now = fixedClock(1700000000)
	return &handlerFixture{
		handler: NewHandler(NewService(users, SHA256Hasher{}, tokens)),
		db:      db,
		users:   users,
		tokens:  tokens,
	}
}

func doJSON(t *testing.T, h http.HandlerFunc, method, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandler_SignUp(t *testing.T) {
	f := newHandlerFixture(t)

	rec := doJSON(t, f.handler.SignUp, http.MethodPost, `{"fullName":"Jane","email":"j@x.com","password":"pw"}`, 0)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"message":"User created"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	stored, err := f.users.GetByEmail(context.Background(), "j@x.com")
	require.NoError(t, err)
	assert.Equal(t, "30c952fab122c3f9759f02a6d95c3758b246b4fee239957b2d4fee46e26170c4", stored.PasswordHash)

	rec = doJSON(t, f.handler.SignUp, http.MethodPost, `{"fullName":"Other","email":"j@x.com","password":"x"}`, 0)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, rec.Body.String())

	count, err := f.db.NewSelect().Model((*database.User)(nil)).Where("email = ?", "j@x.com").Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandler_SignUp_BadRequests(t *testing.T) {
	f := newHandlerFixture(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", ``, "Invalid JSON"},
		{"malformed", `{"fullName":`, "Invalid JSON"},
		{"missing password", `{"fullName":"Jane","email":"j@x.com"}`, "Full name, email, and password are required"},
		{"empty name", `{"fullName":"","email":"j@x.com","password":"pw"}`, "Full name, email, and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, f.handler.SignUp, http.MethodPost, tt.body, 0)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestHandler_SignIn(t *testing.T) {
	f := newHandlerFixture(t)

	rec := doJSON(t, f.handler.SignUp, http.MethodPost, `{"fullName":"Jane","email":"j@x.com","password":"pw"}`, 0)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, f.handler.SignIn, http.MethodPost, `{"email":"j@x.com","password":"pw"}`, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"1:1700000000","user":{"id":1,"fullName":"Jane","email":"j@x.com"}}`, rec.Body.String())

	userID, err := f.tokens.VerifyToken("1:1700000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)

	for _, body := range []string{
		`{"email":"j@x.com","password":"nope"}`,
		`{"email":"ghost@x.com","password":"pw"}`,
	} {
		rec = doJSON(t, f.handler.SignIn, http.MethodPost, body, 0)
		require.Equal(t, http.StatusUnauthorized, rec.Code, body)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
	}

	rec = doJSON(t, f.handler.SignIn, http.MethodPost, `{"email":"j@x.com"}`, 0)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email and password are required"}`, rec.Body.String())

	rec = doJSON(t, f.handler.SignIn, http.MethodPost, `nope`, 0)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, rec.Body.String())
}

func TestHandler_Profile(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	jane, err := f.users.Create(ctx, "Jane", "j@x.com", "digest")
	require.NoError(t, err)
	_, err = f.users.Create(ctx, "Bob", "b@x.com", "digest")
	require.NoError(t, err)

	rec := doJSON(t, f.handler.GetProfile, http.MethodGet, "", jane.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"fullName":"Jane","email":"j@x.com","bio":null}`, rec.Body.String())

	rec = doJSON(t, f.handler.UpdateProfile, http.MethodPut, `{"fullName":"Jane Roe","email":"roe@x.com","bio":"hi"}`, jane.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"fullName":"Jane Roe","email":"roe@x.com","bio":"hi"}`, rec.Body.String())

	rec = doJSON(t, f.handler.GetProfile, http.MethodGet, "", jane.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"fullName":"Jane Roe","email":"roe@x.com","bio":"hi"}`, rec.Body.String())

	rec = doJSON(t, f.handler.UpdateProfile, http.MethodPut, `{"fullName":"Jane","email":"j@x.com"}`, jane.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"fullName":"Jane","email":"j@x.com","bio":""}`, rec.Body.String())
}

func TestHandler_Profile_Errors(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	jane, err := f.users.Create(ctx, "Jane", "j@x.com", "digest")
	require.NoError(t, err)
	_, err = f.users.Create(ctx, "Bob", "b@x.com", "digest")
	require.NoError(t, err)

	rec := doJSON(t, f.handler.GetProfile, http.MethodGet, "", 42)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())

	rec = doJSON(t, f.handler.UpdateProfile, http.MethodPut, `{"fullName":"X","email":"x@x.com"}`, 42)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())

	rec = doJSON(t, f.handler.UpdateProfile, http.MethodPut, `{"fullName":"Jane","email":"b@x.com"}`, jane.ID)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, rec.Body.String())

	rec = doJSON(t, f.handler.UpdateProfile, http.MethodPut, `{"fullName":"Jane"}`, jane.ID)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Full name and email are required"}`, rec.Body.String())

	rec = doJSON(t, f.handler.UpdateProfile, http.MethodPut, `[`, jane.ID)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON"}`, rec.Body.String())
}
