package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                    { return s.name }
func (s stubChecker) Healthy(_ context.Context) error { return s.err }

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// in-memory SQLite is per connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.Check)
	return router
}

func doCheck(t *testing.T, handler *Handler) (int, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	setupRouter(handler).ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHandler_Check(t *testing.T) {
	t.Run("database and relay healthy", func(t *testing.T) {
		handler := New(setupTestDB(t), zap.NewNop().Sugar(), stubChecker{name: "relay"})

		code, resp := doCheck(t, handler)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, map[string]string{"database": "ok", "relay": "ok"}, resp.Components)
		require.NotNil(t, resp.Pool)
		assert.Equal(t, 1, resp.Pool.MaxOpen)
	})

	t.Run("database unavailable", func(t *testing.T) {
		db := setupTestDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		code, resp := doCheck(t, New(db, zap.NewNop().Sugar()))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "unhealthy", resp.Components["database"])
	})

	t.Run("stalled relay", func(t *testing.T) {
		handler := New(setupTestDB(t), zap.NewNop().Sugar(),
			stubChecker{name: "relay", err: errors.New("last pass 5m ago")})

		code, resp := doCheck(t, handler)

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "ok", resp.Components["database"])
		assert.Equal(t, "unhealthy", resp.Components["relay"])
	})

	t.Run("nil database", func(t *testing.T) {
		code, resp := doCheck(t, New(nil, nil))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Nil(t, resp.Pool)
	})

	t.Run("multiple concurrent health checks", func(t *testing.T) {
		router := setupRouter(New(setupTestDB(t), zap.NewNop().Sugar()))

		results := make(chan int, 10)
		for i := 0; i < 10; i++ {
			go func() {
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/health", nil)
				router.ServeHTTP(w, req)
				results <- w.Code
			}()
		}

		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, <-results)
		}
	})

	t.Run("completes quickly", func(t *testing.T) {
		start := time.Now()
		code, _ := doCheck(t, New(setupTestDB(t), zap.NewNop().Sugar()))

		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, http.StatusOK, code)
	})
}

func BenchmarkHandler_Check(b *testing.B) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	router := setupRouter(New(db, zap.NewNop().Sugar()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)
	}
}
