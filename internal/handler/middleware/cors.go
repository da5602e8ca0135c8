package middleware

import (
	"log/slog"
	"slices"

	"voucher-console/internal/handler/httperr"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/reqctx"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware always exposes the download toast headers and the request id to pages served
// from another origin.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	expose := slices.Clone(cfg.ExposeHeaders)
	for _, h := range []string{httperr.HeaderNotificationTitle, httperr.HeaderNotificationMessage, reqctx.Header} {
		if !slices.Contains(expose, h) {
			expose = append(expose, h)
		}
	}

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    expose,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "AllowOrigins", cfg.AllowOrigins, "ExposeHeaders", expose)
	return cors.New(corsCfg)
}
