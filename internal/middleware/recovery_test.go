package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupRecoveryRouter(logger *zap.SugaredLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(logger))
	r.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})
	r.GET("/panic-as-user", func(c *gin.Context) {
		c.Set(userIDKey, "user-1")
		panic("user panic")
	})
	r.GET("/panic-after-write", func(c *gin.Context) {
		c.String(http.StatusOK, "event: snapshot\n\n")
		panic("stream panic")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestRecovery_Middleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	router := setupRecoveryRouter(zap.New(core).Sugar())

	t.Run("recovers from panic", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/panic", nil)

		assert.NotPanics(t, func() {
			router.ServeHTTP(w, req)
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`, w.Body.String())
	})

	t.Run("logs the authenticated user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/panic-as-user", nil)
		router.ServeHTTP(w, req)

		entries := logs.FilterMessage("panic recovered").FilterField(zap.String("user_id", "user-1")).All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].ContextMap()["stack"], "recovery_test.go")
	})

	t.Run("started response is not overwritten", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/panic-after-write", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "event: snapshot\n\n", w.Body.String())
	})

	t.Run("normal request works", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ok")
	})
}
