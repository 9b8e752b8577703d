package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/identity-service/backend/internal/config"
	"github.com/identity-service/backend/internal/model"
	"github.com/identity-service/backend/internal/registry"
	"github.com/identity-service/backend/internal/service"
	"github.com/identity-service/backend/internal/token"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

type memoryUserStore struct {
	users map[string]*model.User
}

func (m *memoryUserStore) CreateUser(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserStore) GetUserByID(_ context.Context, userID string) (*model.User, error) {
	if user, ok := m.users[userID]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (m *memoryUserStore) ListUsers(_ context.Context) ([]*model.User, error) {
	var users []*model.User
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *memoryUserStore) UpdateUser(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserStore) DeleteUser(_ context.Context, userID string) error {
	delete(m.users, userID)
	return nil
}

type envelope struct {
	Code    int             `json:"code"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *token.Codec) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtCfg := config.JWTConfig{
		SignerKey:  "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Issuer:     "identity-service",
		AccessTTL:  "15m",
		RefreshTTL: "168h",
	}
	codec, err := token.NewCodec(jwtCfg.SignerKey, jwtCfg.Issuer)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	store := &memoryUserStore{users: map[string]*model.User{}}
	authService, err := service.NewAuthService(store, registry.New(client), codec, jwtCfg)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	userService := service.NewUserService(store)
	if err := userService.EnsureAdmin(context.Background(), "admin", "admin123!"); err != nil {
		t.Fatalf("admin bootstrap: %v", err)
	}

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)

	r := gin.New()
	r.POST("/users", userHandler.Create)
	r.POST("/auth/token", authHandler.Token)
	r.POST("/auth/introspect", authHandler.Introspect)
	r.POST("/auth/refresh", authHandler.Refresh)
	r.POST("/auth/logout", authHandler.Logout)

	authorized := r.Group("/", AuthMiddleware(codec))
	authorized.GET("/users", userHandler.List)
	authorized.GET("/users/myInfo", userHandler.MyInfo)
	authorized.GET("/users/:userId", userHandler.Get)
	authorized.PUT("/users/:userId", userHandler.Update)
	authorized.DELETE("/users/:userId", userHandler.Delete)

	return r, codec
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, bearer string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope (%s %s): %v: %s", method, path, err, w.Body.String())
	}
	return w, env
}

func TestRegisterLoginIntrospectLogoutRefresh(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/users", model.UserCreationRequest{
		Username: "tomdoe", Password: "12345678",
		FirstName: "Tom", LastName: "Doe", Dob: "2005-02-01",
	}, "")
	if w.Code != http.StatusOK || env.Code != model.SuccessCode {
		t.Fatalf("register: status %d code %d: %s", w.Code, env.Code, w.Body.String())
	}

	w, env = doJSON(t, r, http.MethodPost, "/auth/token", model.AuthenticationRequest{
		Username: "tomdoe", Password: "12345678",
	}, "")
	if w.Code != http.StatusOK || env.Code != model.SuccessCode {
		t.Fatalf("login: status %d code %d: %s", w.Code, env.Code, w.Body.String())
	}
	var tokens model.AuthenticationResponse
	if err := json.Unmarshal(env.Result, &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	if !tokens.Authenticated || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("unexpected token response: %+v", tokens)
	}

	w, env = doJSON(t, r, http.MethodPost, "/auth/introspect", model.IntrospectRequest{Token: tokens.AccessToken}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("introspect: status %d", w.Code)
	}
	var introspect model.IntrospectResponse
	if err := json.Unmarshal(env.Result, &introspect); err != nil {
		t.Fatalf("decode introspect: %v", err)
	}
	if !introspect.Valid {
		t.Fatal("fresh access token should be valid")
	}

	w, env = doJSON(t, r, http.MethodPost, "/auth/logout", model.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	if w.Code != http.StatusOK || env.Code != model.SuccessCode {
		t.Fatalf("logout: status %d code %d", w.Code, env.Code)
	}

	w, env = doJSON(t, r, http.MethodPost, "/auth/refresh", model.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
	if w.Code != http.StatusUnauthorized || env.Code != 1006 {
		t.Fatalf("refresh after logout: status %d code %d, want 401/1006", w.Code, env.Code)
	}
}

func TestRegisterValidationMessages(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/users", model.UserCreationRequest{
		Username: "to", Password: "12345678",
		FirstName: "Tom", LastName: "Doe", Dob: "2005-02-01",
	}, "")
	if w.Code != http.StatusBadRequest || env.Code != 1003 {
		t.Fatalf("status %d code %d, want 400/1003", w.Code, env.Code)
	}
	if env.Message != "Username must be at least 3 characters" {
		t.Errorf("message = %q", env.Message)
	}

	w, env = doJSON(t, r, http.MethodPost, "/users", model.UserCreationRequest{
		Username: "tomdoe", Password: "1234",
		FirstName: "Tom", LastName: "Doe", Dob: "2005-02-01",
	}, "")
	if w.Code != http.StatusBadRequest || env.Code != 1004 {
		t.Fatalf("status %d code %d, want 400/1004", w.Code, env.Code)
	}
	if env.Message != "Password must be at least 8 characters" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestLoginFailures(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/auth/token", model.AuthenticationRequest{
		Username: "ghost", Password: "12345678",
	}, "")
	if w.Code != http.StatusNotFound || env.Code != 1005 {
		t.Fatalf("unknown user: status %d code %d, want 404/1005", w.Code, env.Code)
	}

	w, env = doJSON(t, r, http.MethodPost, "/auth/token", model.AuthenticationRequest{
		Username: "admin", Password: "wrong-password",
	}, "")
	if w.Code != http.StatusUnauthorized || env.Code != 1006 {
		t.Fatalf("wrong password: status %d code %d, want 401/1006", w.Code, env.Code)
	}
}

func TestProtectedRoutes(t *testing.T) {
	r, codec := newTestRouter(t)

	// no token
	w, env := doJSON(t, r, http.MethodGet, "/users/myInfo", nil, "")
	if w.Code != http.StatusUnauthorized || env.Code != 1006 {
		t.Fatalf("no token: status %d code %d", w.Code, env.Code)
	}

	// expired token
	expired, err := codec.Issue("admin", -time.Minute, "ADMIN")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w, env = doJSON(t, r, http.MethodGet, "/users/myInfo", nil, expired)
	if w.Code != http.StatusUnauthorized || env.Code != 1006 {
		t.Fatalf("expired token: status %d code %d", w.Code, env.Code)
	}

	// register and log in a plain user
	_, _ = doJSON(t, r, http.MethodPost, "/users", model.UserCreationRequest{
		Username: "tomdoe", Password: "12345678",
		FirstName: "Tom", LastName: "Doe", Dob: "2005-02-01",
	}, "")
	_, loginEnv := doJSON(t, r, http.MethodPost, "/auth/token", model.AuthenticationRequest{
		Username: "tomdoe", Password: "12345678",
	}, "")
	var tokens model.AuthenticationResponse
	if err := json.Unmarshal(loginEnv.Result, &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}

	// own profile works
	w, env = doJSON(t, r, http.MethodGet, "/users/myInfo", nil, tokens.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("myInfo: status %d: %s", w.Code, w.Body.String())
	}
	var me model.UserResponse
	if err := json.Unmarshal(env.Result, &me); err != nil {
		t.Fatalf("decode myInfo: %v", err)
	}
	if me.Username != "tomdoe" {
		t.Errorf("username = %q", me.Username)
	}

	// listing users is admin only
	w, env = doJSON(t, r, http.MethodGet, "/users", nil, tokens.AccessToken)
	if w.Code != http.StatusForbidden || env.Code != 1008 {
		t.Fatalf("list as user: status %d code %d, want 403/1008", w.Code, env.Code)
	}

	// the admin can list everyone
	_, adminEnv := doJSON(t, r, http.MethodPost, "/auth/token", model.AuthenticationRequest{
		Username: "admin", Password: "admin123!",
	}, "")
	var adminTokens model.AuthenticationResponse
	if err := json.Unmarshal(adminEnv.Result, &adminTokens); err != nil {
		t.Fatalf("decode admin tokens: %v", err)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/users", nil, adminTokens.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("list as admin: status %d: %s", w.Code, w.Body.String())
	}

	// fetching another user's profile by id is owner-or-admin
	w, _ = doJSON(t, r, http.MethodGet, "/users/"+me.ID, nil, adminTokens.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("get as admin: status %d", w.Code)
	}
	w, env = doJSON(t, r, http.MethodGet, "/users/admin-id-unknown", nil, adminTokens.AccessToken)
	if w.Code != http.StatusNotFound || env.Code != 1005 {
		t.Fatalf("get missing: status %d code %d, want 404/1005", w.Code, env.Code)
	}
}
