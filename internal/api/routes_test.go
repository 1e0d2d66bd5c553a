package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/repository/memory"
	"fittrack/internal/service"
)

// noopStorage satisfies the file storage dependency without an S3 backend.
type noopStorage struct{}

func (noopStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (noopStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (noopStorage) DeleteObject(context.Context, string) error { return nil }

type apiEnv struct {
	router *gin.Engine
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	uow := memory.NewUnitOfWork(store)
	tokens := newTokenManager(t)

	router := gin.New()
	SetupRoutes(router, tokens, nil, RateLimit{},
		service.NewAuthService(uow, tokens),
		service.NewCategoryService(uow),
		service.NewExerciseService(uow, noopStorage{}),
		service.NewWorkoutService(uow),
		service.NewUserService(uow),
	)
	return &apiEnv{router: router}
}

func (e *apiEnv) do(t *testing.T, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestRegisterLoginAndMe(t *testing.T) {
	t.Parallel()
	env := newAPIEnv(t)

	w, resp := env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "sam", "email": "sam@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Result)

	w, resp = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "sam@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	tokenStr := data["token"].(string)
	require.NotEmpty(t, tokenStr)

	w, resp = env.do(t, http.MethodGet, "/api/v1/auth/me", tokenStr, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := resp.Data.(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "sam", me["username"])
}

func TestLoginFailureEnvelope(t *testing.T) {
	t.Parallel()
	env := newAPIEnv(t)

	w, resp := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "whatever1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Result)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.NotEmpty(t, resp.Message)
}

func TestCategoryRoutesAreAdminGated(t *testing.T) {
	t.Parallel()
	env := newAPIEnv(t)

	_, _ = env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "sam", "email": "sam@example.com", "password": "correct-horse",
	})
	_, login := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "sam@example.com", "password": "correct-horse",
	})
	tokenStr := login.Data.(map[string]interface{})["token"].(string)

	t.Run("reads are open", func(t *testing.T) {
		w, _ := env.do(t, http.MethodGet, "/api/v1/categories", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("anonymous mutation is rejected", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/api/v1/categories", "", gin.H{"name": "Strength"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin mutation is forbidden", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/api/v1/categories", tokenStr, gin.H{"name": "Strength"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestNotFoundMapsTo404(t *testing.T) {
	t.Parallel()
	env := newAPIEnv(t)

	w, resp := env.do(t, http.MethodGet, "/api/v1/categories/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Result)
}

func TestBadPathID(t *testing.T) {
	t.Parallel()
	env := newAPIEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/v1/categories/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkoutLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	env := newAPIEnv(t)

	_, _ = env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "sam", "email": "sam@example.com", "password": "correct-horse",
	})
	_, login := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "sam@example.com", "password": "correct-horse",
	})
	tokenStr := login.Data.(map[string]interface{})["token"].(string)

	w, resp := env.do(t, http.MethodPost, "/api/v1/workouts", tokenStr, gin.H{
		"name": "My Plan", "kind": "custom",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(resp.Data.(map[string]interface{})["id"].(float64))

	w, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "My Plan", resp.Data.(map[string]interface{})["name"])

	w, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/workouts/%d", id), tokenStr, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
