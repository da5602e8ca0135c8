//go:build e2e

package navigation_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"voucher-console/internal/domain/navigation"
	resdto "voucher-console/internal/handler/dto/response"
	"voucher-console/internal/pkg/cookie"
	"voucher-console/internal/pkg/jwt"
	"voucher-console/tests/common/dbtest"
	"voucher-console/tests/common/httptest"
	"voucher-console/tests/e2e"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const navigationURL = "/console/api/navigation"

type NavigationSuite struct {
	e2e.SharedSuite
	// Other shares the database with Router, standing in for a second console process.
	Other *gin.Engine
}

func (s *NavigationSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.Other = e2e.BuildApp(s.T(), s.Config)
}

func (s *NavigationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
}

func TestNavigationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(NavigationSuite))
}

// browser returns the session id and cookie of one admin browser. Both processes accept it
// because they share the session secret.
func (s *NavigationSuite) browser() (uuid.UUID, *http.Cookie) {
	id := uuid.New()
	token, err := jwt.NewService(s.Config.Session.Secret, s.Config.Session.TTL).GenerateSessionToken(id)
	require.NoError(s.T(), err)
	return id, &http.Cookie{Name: cookie.SessionCookieName, Value: token}
}

func (s *NavigationSuite) active(router *gin.Engine, session *http.Cookie) string {
	t := s.T()
	w := httptest.PerformRequest(t, router, http.MethodGet, navigationURL, nil, session)
	var res resdto.NavigationResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
	return res.Active
}

func (s *NavigationSuite) TestActiveView() {
	s.Run("Normal case: the chosen view is persisted and followed by other processes", func() {
		t := s.T()
		id, session := s.browser()

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, navigationURL, map[string]any{"view": "vouchers"}, session)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var stored string
		require.NoError(t, s.DB.QueryRow(ctx,
			`SELECT value FROM console_preferences WHERE key = $1`, navigation.SessionKey(id.String())).Scan(&stored))
		s.Equal("vouchers", stored)

		s.Eventually(func() bool { return s.active(s.Other, session) == "vouchers" }, 5*time.Second, 50*time.Millisecond)

		w = httptest.PerformRequest(t, s.Other, http.MethodGet, "/", nil, session)
		s.Equal(http.StatusFound, w.Code)
		s.Equal("/vouchers", w.Header().Get("Location"))
	})

	s.Run("Normal case: opening a page makes it the active view", func() {
		t := s.T()
		_, session := s.browser()
		w := httptest.PerformRequest(t, s.Other, http.MethodGet, "/generate", nil, session)
		s.Equal(http.StatusOK, w.Code)
		s.Eventually(func() bool { return s.active(s.Router, session) == "generate" }, 5*time.Second, 50*time.Millisecond)
	})

	s.Run("Normal case: another admin's view is not followed", func() {
		t := s.T()
		_, mine := s.browser()
		_, theirs := s.browser()

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, navigationURL, map[string]any{"view": "vouchers"}, mine)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, nil)
		w = httptest.PerformRequest(t, s.Other, http.MethodPut, navigationURL, map[string]any{"view": "generate"}, theirs)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, nil)

		s.Equal("vouchers", s.active(s.Other, mine))
		s.Equal("generate", s.active(s.Router, theirs))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/", nil, mine)
		s.Equal("/vouchers", w.Header().Get("Location"))
	})

	s.Run("Error case: unknown view is rejected and nothing changes", func() {
		t := s.T()
		_, session := s.browser()
		before := s.active(s.Router, session)
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, navigationURL, map[string]any{"view": "settings"}, session)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid request")
		s.Equal(before, s.active(s.Router, session))
	})
}
