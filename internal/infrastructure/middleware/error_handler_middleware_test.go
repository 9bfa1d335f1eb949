package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"togetherwatch/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newErrorTestRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(ErrorHandlerMiddleware(log))
	router.GET("/test", handler)
	return router
}

func doRequest(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorHandler_AppErrorKeepsCodeAndStatus(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(errors.NewForbiddenError("not a member of this room"))
	})

	w, body := doRequest(t, router)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["error"])
	assert.Equal(t, "not a member of this room", body["message"])
	assert.NotContains(t, body, "details")
}

func TestErrorHandler_AppErrorContextBecomesDetails(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(errors.NewInvalidInputError("bad field").WithContext("field", "email"))
	})

	w, body := doRequest(t, router)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "email", details["field"])
}

func TestErrorHandler_UnknownErrorIsOpaque500(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.Error(assert.AnError)
	})

	w, body := doRequest(t, router)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["error"])
	// The raw error text stays out of the response.
	assert.NotContains(t, body["message"], assert.AnError.Error())
}

func TestErrorHandler_NoErrorPassesThrough(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w, body := doRequest(t, router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	router := newErrorTestRouter(func(c *gin.Context) {
		panic("boom")
	})

	w, body := doRequest(t, router)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["error"])
}
