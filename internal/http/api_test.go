package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/NTying/VideoAppWebAPI/internal/cache"
	"github.com/NTying/VideoAppWebAPI/internal/repository/sqlite"
	"github.com/NTying/VideoAppWebAPI/internal/service"
	"github.com/NTying/VideoAppWebAPI/internal/token"
)

const testPassword = "Sup3rSecret"

func newTestRouter(t *testing.T, lockoutThreshold int) (*gin.Engine, *token.Issuer) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	roleRepo := sqlite.NewRoleRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, roleRepo.Init(ctx))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	policy := service.PasswordPolicy{
		MinLength:        6,
		RequireDigit:     true,
		RequireLowercase: true,
		RequireUppercase: true,
	}
	creds := service.NewCredentialService(userRepo, policy, lockoutThreshold, 5*time.Minute)
	roles := service.NewRoleService(roleRepo)
	issuer := token.NewIssuer("test-secret", time.Hour)
	sessions := cache.New[string](rdb, cache.StringCodec{}, time.Hour)

	auth := service.NewAuthService(creds, roles, issuer, sessions, logger)
	registration := service.NewRegistrationService(creds, roles, "subscriptor", logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(auth, registration, issuer, logger)
	handler.RegisterRoutes(router)

	return router, issuer
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAlice(t *testing.T, router *gin.Engine) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Ok", rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	router, issuer := newTestRouter(t, 5)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"username": "alice",
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	signed := rec.Body.String()
	claims, err := issuer.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Name)
	require.Equal(t, []string{"subscriptor"}, claims.Roles)
}

func TestRegisterTwiceReturnsOk(t *testing.T) {
	router, _ := newTestRouter(t, 5)
	registerAlice(t, router)
	registerAlice(t, router)
}

func TestRegisterWeakPassword(t *testing.T) {
	router, _ := newTestRouter(t, 5)

	rec := doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short1",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "create user failed")
}

func TestRegisterMissingFields(t *testing.T) {
	router, _ := newTestRouter(t, 5)

	rec := doJSON(t, router, http.MethodPost, "/api/register", gin.H{
		"username": "alice",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t, 5)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"username": "alice",
		"password": "Wr0ngPass",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid username or password", rec.Body.String())
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	router, _ := newTestRouter(t, 5)

	rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"username": "nobody",
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid username or password", rec.Body.String())
}

func TestLoginLockoutScenario(t *testing.T) {
	router, _ := newTestRouter(t, 5)
	registerAlice(t, router)

	for i := 0; i < 5; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
			"username": "alice",
			"password": "Wr0ngPass",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid username or password", rec.Body.String())
	}

	// sixth attempt reports the lockout, not invalid credentials
	rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"username": "alice",
		"password": "Wr0ngPass",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "account locked until")
}

func TestMeRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, 5)

	rec := doJSON(t, router, http.MethodGet, "/api/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/me", nil, map[string]string{
		"Authorization": "Bearer not.a.token",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsClaims(t *testing.T) {
	router, _ := newTestRouter(t, 5)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/login", gin.H{
		"username": "alice",
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	signed := rec.Body.String()

	rec = doJSON(t, router, http.MethodGet, "/api/me", nil, map[string]string{
		"Authorization": "Bearer " + signed,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Name  string   `json:"name"`
		Roles []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.Name)
	require.Equal(t, []string{"subscriptor"}, resp.Roles)
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, 5)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
