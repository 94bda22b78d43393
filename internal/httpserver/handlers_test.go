package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"entrepreneur/backend/internal/authctx"
	"entrepreneur/backend/internal/authz"
	"entrepreneur/backend/internal/config"
	authdomain "entrepreneur/backend/internal/domain/auth"
	"entrepreneur/backend/internal/infrastructure/memory"
	"entrepreneur/backend/internal/infrastructure/password"
	"entrepreneur/backend/internal/infrastructure/token"
	authusecase "entrepreneur/backend/internal/usecase/auth"
	projectusecase "entrepreneur/backend/internal/usecase/project"
	userusecase "entrepreneur/backend/internal/usecase/user"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "AdminPass123!"
)

type testEnv struct {
	t       *testing.T
	handler http.Handler
	users   *memory.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zerolog.Nop()

	users := memory.NewUserRepository()
	hasher := password.NewBcrypt(bcrypt.MinCost)
	tokens, err := token.NewJWTManager(config.Token{
		Secret: "0123456789abcdef0123456789abcdef",
		Issuer: "ai-entrepreneur",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	authService := authusecase.NewService(users, hasher, tokens, log)
	userService := userusecase.NewService(users, hasher)
	projectService := projectusecase.NewService(memory.NewProjectRepository())

	created, err := userService.EnsureAdmin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.True(t, created)

	cfg := config.Config{HTTPPort: "0", AllowedOrigins: []string{"http://localhost:3000"}}
	srv := NewServer(cfg, log, authService, userService, projectService)
	return &testEnv{t: t, handler: srv.Handler(), users: users}
}

func (e *testEnv) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(email, pw string) userResponse {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": pw})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var u userResponse
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u
}

func (e *testEnv) login(email, pw string) string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": pw})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp loginResponse
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRegisterLoginAndAccess(t *testing.T) {
	env := newTestEnv(t)

	alice := env.register("alice@example.com", "Secret123!")
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.Equal(t, "USER", alice.Role)

	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "Secret123!"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[loginResponse](t, rec)
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, int64(3600), login.ExpiresIn)
	assert.NotEmpty(t, login.AccessToken)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/projects", login.AccessToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/projects", "", nil).Code)

	truncated := login.AccessToken[:len(login.AccessToken)-1]
	rec = env.do(http.MethodGet, "/api/projects", truncated, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode[apiError](t, rec)
	assert.Equal(t, "Unauthorized", body.Error)
	assert.Equal(t, "/api/projects", body.Path)
}

func TestRegisterResponse(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "Bob@Example.com", "password": "Secret123!"})
	require.Equal(t, http.StatusCreated, rec.Code)
	u := decode[userResponse](t, rec)
	assert.Equal(t, "/api/users/"+u.ID, rec.Header().Get("Location"))
	assert.Equal(t, "bob@example.com", u.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "BOB@example.com", "password": "Another123!"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "not-an-email", "password": "short"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[apiError](t, rec)
	assert.Len(t, body.Fields, 2)

	rec = env.do(http.MethodPost, "/api/auth/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoleMatchingIsExact(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice@example.com", "Secret123!")
	userToken := env.login("alice@example.com", "Secret123!")
	adminToken := env.login(adminEmail, adminPassword)

	rec := env.do(http.MethodGet, "/api/projects", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decode[apiError](t, rec).Error)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/users", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/users", adminToken, nil).Code)

	// Authenticated-only routes accept either role.
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/me", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/me", adminToken, nil).Code)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Secret123!")
	tok := env.login("alice@example.com", "Secret123!")

	rec := env.do(http.MethodGet, "/api/me", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[userResponse](t, rec)
	assert.Equal(t, alice.ID, me.ID)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, "USER", me.Role)
	assert.False(t, me.CreatedAt.IsZero())
	assert.NotContains(t, rec.Body.String(), "hash")

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/me", "", nil).Code)
}

func TestPublicRoutesIgnoreBadTokens(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/ping", "garbage.token.value", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["go"])

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health", "nope", nil).Code)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice@example.com", "Secret123!")

	wrong := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong-password"})
	unknown := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "Secret123!"})
	empty := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{})

	for _, rec := range []*httptest.ResponseRecorder{wrong, unknown, empty} {
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	a, b, c := decode[apiError](t, wrong), decode[apiError](t, unknown), decode[apiError](t, empty)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Message, c.Message)
	assert.Equal(t, a.Error, b.Error)
}

func TestLoginWithCorruptStoredHashIsInternalError(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.users.Create(context.Background(), &authdomain.User{
		ID:           "u-corrupt",
		Email:        "alice@example.com",
		Role:         authdomain.RoleUser,
		PasswordHash: "garbage",
		CreatedAt:    time.Now().UTC(),
	}))

	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "Secret123!"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[apiError](t, rec)
	assert.Equal(t, internalErrorMessage, body.Message)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestDeletedUserTokenIsAnonymous(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Secret123!")
	userToken := env.login("alice@example.com", "Secret123!")
	adminToken := env.login(adminEmail, adminPassword)

	require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/users/"+alice.ID, adminToken, nil).Code)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/me", userToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/projects", userToken, nil).Code)
}

func TestRoleChangeAppliesToExistingToken(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Secret123!")
	userToken := env.login("alice@example.com", "Secret123!")
	adminToken := env.login(adminEmail, adminPassword)

	rec := env.do(http.MethodPut, "/api/users/"+alice.ID, adminToken, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ADMIN", decode[userResponse](t, rec).Role)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/projects", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/users", userToken, nil).Code)
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice@example.com", "Secret123!")
	tok := env.login("alice@example.com", "Secret123!")

	rec := env.do(http.MethodPost, "/api/projects", tok, map[string]string{"name": "  AI Startup ", "description": "first"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "AI Startup", created["name"])
	assert.Equal(t, "/api/projects/"+id, rec.Header().Get("Location"))

	rec = env.do(http.MethodPost, "/api/projects", tok, map[string]string{"name": "ai startup"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/projects", tok, map[string]string{"name": "<script>"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decode[apiError](t, rec).Fields[0].Field)

	rec = env.do(http.MethodPost, "/api/projects", tok, map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/projects/"+id, tok, nil).Code)

	rec = env.do(http.MethodPut, "/api/projects/"+id, tok, map[string]string{"name": "AI Startup v2", "description": "second"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "second", decode[map[string]any](t, rec)["description"])

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/projects/"+id, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/projects/"+id, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/projects/"+id, tok, nil).Code)
}

func TestProjectPaging(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice@example.com", "Secret123!")
	tok := env.login("alice@example.com", "Secret123!")

	for i := 0; i < 5; i++ {
		rec := env.do(http.MethodPost, "/api/projects", tok, map[string]string{"name": fmt.Sprintf("Project %d", i)})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodGet, "/api/projects?page=1&size=2", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pageResponse[map[string]any]](t, rec)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, 5, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)

	rec = env.do(http.MethodGet, "/api/projects?name=project%203", tok, nil)
	page = decode[pageResponse[map[string]any]](t, rec)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Project 3", page.Content[0]["name"])

	rec = env.do(http.MethodGet, "/api/projects?page=9", tok, nil)
	page = decode[pageResponse[map[string]any]](t, rec)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/projects?page=-1", tok, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/projects?size=abc", tok, nil).Code)

	rec = env.do(http.MethodGet, "/api/projects?size=500", tok, nil)
	assert.Equal(t, maxPageSize, decode[pageResponse[map[string]any]](t, rec).Size)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(adminEmail, adminPassword)

	rec := env.do(http.MethodPost, "/api/users", adminToken, map[string]string{"email": "carol@example.com", "password": "CarolPass1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	carol := decode[userResponse](t, rec)
	assert.Equal(t, "USER", carol.Role)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(http.MethodPost, "/api/users", adminToken, map[string]string{"email": "dave@example.com", "password": "DavePass12", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/users", adminToken, map[string]string{"email": "CAROL@example.com", "password": "CarolPass1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/users?email=carol", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pageResponse[userResponse]](t, rec)
	require.Len(t, page.Content, 1)
	assert.Equal(t, carol.ID, page.Content[0].ID)

	rec = env.do(http.MethodPut, "/api/users/"+carol.ID, adminToken, map[string]string{"password": "NewCarolPass"})
	require.Equal(t, http.StatusOK, rec.Code)
	env.login("carol@example.com", "NewCarolPass")

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/users/missing", adminToken, nil).Code)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/nothing-here", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decode[apiError](t, rec).Error)
}

func TestPreflightSkipsAuthentication(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnsetPolicyDeniesEveryone(t *testing.T) {
	srv := &Server{log: zerolog.Nop()}
	h := srv.gate(authz.Policy{}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/anything", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/anything", nil)
	req = req.WithContext(authctx.WithIdentity(req.Context(), &authdomain.User{ID: "u-1", Role: authdomain.RoleAdmin}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecoverWritesInternalError(t *testing.T) {
	srv := &Server{log: zerolog.Nop()}
	h := srv.withRecover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[apiError](t, rec)
	assert.Equal(t, internalErrorMessage, body.Message)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"Bearer abc":     "abc",
		"bearer  abc ":   "abc",
		"Basic dXNlcjpw": "",
		"Bearer":         "",
		"BEARER x.y.z":   "x.y.z",
	}
	for header, want := range cases {
		assert.Equal(t, want, extractBearerToken(header), header)
	}
}
