//go:build unit || e2e

package httptest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// PerformRequestWithHeaders is a bodiless request carrying extra headers, e.g. an upstream request id.
func PerformRequestWithHeaders(t *testing.T, router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}

// AssertDownload checks an attachment response and the toast carried in its headers.
func AssertDownload(t *testing.T, w *httptest.ResponseRecorder, filename, toastTitle, body string) {
	t.Helper()

	assert.Equal(t, http.StatusOK, w.Code, "download failed: %s", w.Body.String())
	AssertHeaders(t, w, map[string]string{
		"Content-Disposition":  `attachment; filename="` + filename + `"`,
		"X-Notification-Title": toastTitle,
	})
	assert.Equal(t, body, w.Body.String())
}
