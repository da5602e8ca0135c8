//go:build unit

package middleware_test

import (
	"net/http"
	"strings"
	"testing"

	"voucher-console/internal/handler/middleware"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/reqctx"
	"voucher-console/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoggingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware(config.NewTestConfig().Log))
	router.GET("/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"context": reqctx.RequestID(c.Request.Context()),
			"gin":     middleware.GetRequestID(c),
		})
	})
	return router
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{name: "generates an id when none is sent", incoming: "", reused: false},
		{name: "reuses a well-formed upstream id", incoming: "edge-7f3a.42", reused: true},
		{name: "replaces an id with unsafe characters", incoming: "bad id\nInjected: 1", reused: false},
		{name: "replaces an overlong id", incoming: strings.Repeat("a", 65), reused: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupLoggingRouter(t)

			var headers map[string]string
			if tt.incoming != "" {
				headers = map[string]string{reqctx.Header: tt.incoming}
			}
			w := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/echo", headers)
			require.Equal(t, http.StatusOK, w.Code)

			id := w.Header().Get(reqctx.Header)
			require.NotEmpty(t, id)
			if tt.reused {
				assert.Equal(t, tt.incoming, id)
			} else {
				assert.NotEqual(t, tt.incoming, id)
				assert.Regexp(t, `^\d{14}-[0-9a-f]{8}$`, id)
			}

			var body map[string]string
			require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
			assert.Equal(t, map[string]string{"context": id, "gin": id}, body)
		})
	}
}
