package middleware

import (
	"log/slog"
	"net/http"

	"voucher-console/internal/handler/httperr"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/cookie"
	"voucher-console/internal/pkg/jwt"
	"voucher-console/internal/usecase/console"

	"github.com/gin-gonic/gin"
)

const ctxSessionKey = "console_session"

// SessionMiddleware binds every request to a console session. A missing or invalid cookie
// starts a new session; a valid cookie whose session was evicted gets a fresh one under the same id.
type SessionMiddleware struct {
	tokens   *jwt.Service
	registry *console.Registry
	cookies  config.CookieConfig
}

func NewSessionMiddleware(tokens *jwt.Service, registry *console.Registry, cfg config.Config) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, registry: registry, cookies: cfg.Cookie}
}

func (m *SessionMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := cookie.GetSessionToken(c); token != "" {
			claims, err := m.tokens.ValidateSessionToken(token)
			if err == nil {
				c.Set(ctxSessionKey, m.registry.GetOrCreate(claims.SessionID))
				c.Next()
				return
			}
			slog.Debug("session token rejected, starting a new session", "error", err.Error())
		}

		session := m.registry.Create()
		token, err := m.tokens.GenerateSessionToken(session.ID)
		if err != nil {
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to start session", nil)
			return
		}
		cookie.SetSessionCookie(c, m.cookies, token, m.tokens.TokenDuration())
		c.Set(ctxSessionKey, session)
		c.Next()
	}
}

func GetSession(c *gin.Context) (*console.Session, bool) {
	v, exists := c.Get(ctxSessionKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*console.Session)
	return s, ok
}
