//go:build unit

package backend_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/infra/backend"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/pkg/reqctx"
	"voucher-console/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	engine *gin.Engine
	server *httptest.Server
	client *backend.Client
}

func (s *ClientTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.engine = gin.New()
	s.server = httptest.NewServer(s.engine)
	s.client = backend.NewClient(
		config.BackendConfig{APIURL: s.server.URL + "/", Timeout: 2 * time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestListVouchers() {
	s.engine.GET("/api/vouchers/", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`[
			{"id": 7, "code": "SNAKE1", "status": "Active", "duration": "1h", "data_limit": "1gb",
			 "created_at": "2024-05-01T12:00:00Z", "used_at": null, "expires_at": null},
			{"id": "v-8", "code": "CAMEL1", "status": "used", "duration": "1d", "dataLimit": "5gb",
			 "createdAt": "2024-05-01T12:00:00Z", "usedAt": "2024-05-02T08:00:00Z", "expiresAt": "2024-05-03T08:00:00Z"},
			{"id": "v-9", "code": "BOTH1", "status": "disabled", "duration": "1h",
			 "data_limit": "snake", "dataLimit": "camel", "expires_at": "not a date"}
		]`))
	})

	got, err := s.client.ListVouchers(context.Background())
	s.Require().NoError(err)
	s.Require().Len(got, 3)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	used := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	expires := time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)
	want := []voucher.Voucher{
		{ID: "7", Code: "SNAKE1", Status: voucher.StatusActive, Duration: "1h", DataLimit: "1gb", CreatedAt: &created},
		{ID: "v-8", Code: "CAMEL1", Status: voucher.StatusUsed, Duration: "1d", DataLimit: "5gb", CreatedAt: &created, UsedAt: &used, ExpiresAt: &expires},
		{ID: "v-9", Code: "BOTH1", Status: voucher.StatusDisabled, Duration: "1h", DataLimit: "snake"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		s.T().Errorf("vouchers mismatch (-want +got):\n%s", diff)
	}
}

func (s *ClientTestSuite) TestListVouchersErrors() {
	s.Run("non-2xx is a backend failure", func() {
		s.engine.GET("/api/vouchers/", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "boom")
		})
		_, err := s.client.ListVouchers(context.Background())
		s.Require().Error(err)
		s.True(errs.Is(err, errs.ErrBackendRequestFailed))

		var serr *backend.StatusError
		s.Require().True(errs.As(err, &serr))
		s.Equal(http.StatusInternalServerError, serr.StatusCode)
		s.Equal("boom", serr.Body)
	})
}

func (s *ClientTestSuite) TestDecodeFailure() {
	s.engine.GET("/api/vouchers/", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{"results": []}`))
	})
	_, err := s.client.ListVouchers(context.Background())
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrBackendDecodeFailed))
}

func (s *ClientTestSuite) TestTransportFailure() {
	s.server.Close()
	_, err := s.client.Stats(context.Background())
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrBackendRequestFailed))
}

func (s *ClientTestSuite) TestStatsAndActivity() {
	s.engine.GET("/api/vouchers/stats/", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{"total": 10, "active": 4, "used_today": 2, "success_rate": "12.5%"}`))
	})
	s.engine.GET("/api/vouchers/activity/", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`[{"code": "AAA", "status": "used", "time": "2024-05-01 12:00"}]`))
	})

	stats, err := s.client.Stats(context.Background())
	s.Require().NoError(err)
	s.Equal(shared.Stats{Total: 10, Active: 4, UsedToday: 2, SuccessRate: "12.5%"}, stats)

	activity, err := s.client.Activity(context.Background())
	s.Require().NoError(err)
	s.Equal([]shared.ActivityItem{{Code: "AAA", Status: "used", Time: "2024-05-01 12:00"}}, activity)
}

func (s *ClientTestSuite) TestStatsNumericSuccessRate() {
	s.engine.GET("/api/vouchers/stats/", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{"total": 1, "active": 1, "used_today": 0, "success_rate": 87.5}`))
	})
	stats, err := s.client.Stats(context.Background())
	s.Require().NoError(err)
	s.Equal("87.5", stats.SuccessRate)
}

func (s *ClientTestSuite) TestGenerate() {
	expiresAt := time.Date(2024, 5, 1, 13, 0, 0, 0, time.FixedZone("X", 3600))
	req := shared.GenerateRequest{Quantity: "2", Duration: "1h", DataLimit: "1gb", ExpiresAt: expiresAt}

	s.Run("created array", func() {
		var body map[string]any
		s.engine.POST("/api/vouchers/", func(c *gin.Context) {
			s.Require().NoError(c.ShouldBindJSON(&body))
			c.Data(http.StatusCreated, "application/json", []byte(`[{"code": "AAA"}, {"code": "BBB"}]`))
		})

		res, err := s.client.Generate(context.Background(), req)
		s.Require().NoError(err)
		s.Equal([]string{"AAA", "BBB"}, res.Codes)
		s.Equal(map[string]any{
			"quantity":   "2",
			"duration":   "1h",
			"data_limit": "1gb",
			"expires_at": "2024-05-01T12:00:00.000Z",
		}, body)
	})
}

func (s *ClientTestSuite) TestGenerateSingleObject() {
	s.engine.POST("/api/vouchers/", func(c *gin.Context) {
		c.Data(http.StatusCreated, "application/json", []byte(`{"id": 1, "code": "ONLY"}`))
	})
	res, err := s.client.Generate(context.Background(), shared.GenerateRequest{Quantity: "1", Duration: "1h", DataLimit: "1gb"})
	s.Require().NoError(err)
	s.Equal([]string{"ONLY"}, res.Codes)
}

func (s *ClientTestSuite) TestGeneratePartialCreation() {
	s.engine.POST("/api/vouchers/", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors":  []gin.H{{"code": []string{"duplicate"}}},
			"created": []gin.H{{"code": "AAA"}},
		})
	})

	res, err := s.client.Generate(context.Background(), shared.GenerateRequest{Quantity: "2", Duration: "1h", DataLimit: "1gb"})
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrPartialCreation))
	s.True(errs.Is(err, errs.ErrBackendRequestFailed))
	s.Equal([]string{"AAA"}, res.Codes)

	var perr *backend.PartialCreationError
	s.Require().True(errs.As(err, &perr))
	s.Equal(1, perr.Created)
}

func (s *ClientTestSuite) TestGenerateBadRequest() {
	s.engine.POST("/api/vouchers/", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"quantity": []string{"invalid"}})
	})

	res, err := s.client.Generate(context.Background(), shared.GenerateRequest{Quantity: "2", Duration: "1h", DataLimit: "1gb"})
	s.Require().Error(err)
	s.False(errs.Is(err, errs.ErrPartialCreation))
	s.True(errs.Is(err, errs.ErrBackendRequestFailed))
	s.Empty(res.Codes)
}

func (s *ClientTestSuite) TestUpdateStatusAndDelete() {
	var patched map[string]string
	s.engine.PATCH("/api/vouchers/:id/", func(c *gin.Context) {
		s.Equal("v 1", c.Param("id"))
		s.Require().NoError(c.ShouldBindJSON(&patched))
		c.Status(http.StatusOK)
	})
	s.engine.DELETE("/api/vouchers/:id/", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	s.Require().NoError(s.client.UpdateStatus(context.Background(), "v 1", voucher.StatusDisabled))
	s.Equal(map[string]string{"status": "disabled"}, patched)

	err := s.client.Delete(context.Background(), "gone")
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrVoucherNotFound))
}

func (s *ClientTestSuite) TestForwardsRequestID() {
	var got []string
	s.engine.DELETE("/api/vouchers/:id/", func(c *gin.Context) {
		got = append(got, c.GetHeader(reqctx.Header))
		c.Status(http.StatusNoContent)
	})

	s.Require().NoError(s.client.Delete(reqctx.WithRequestID(context.Background(), "20240501120000-abcd1234"), "1"))
	s.Require().NoError(s.client.Delete(context.Background(), "2"))
	s.Equal([]string{"20240501120000-abcd1234", ""}, got)
}

func (s *ClientTestSuite) TestExport() {
	s.engine.GET("/api/vouchers/export/", func(c *gin.Context) {
		c.Header("Content-Disposition", `attachment; filename="backend-name.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte("code\nAAA\n"))
	})

	file, err := s.client.Export(context.Background())
	s.Require().NoError(err)
	defer file.Body.Close()

	body, err := io.ReadAll(file.Body)
	s.Require().NoError(err)
	s.Equal("code\nAAA\n", string(body))
	s.Equal("vouchers.csv", file.Filename)
	s.Equal("text/csv", file.ContentType)
}

func TestErrorMessages(t *testing.T) {
	perr := &backend.PartialCreationError{Created: 2, Detail: `[{"code":["duplicate"]}]`}
	assert.Equal(t, `backend created 2 voucher(s) before failing: [{"code":["duplicate"]}]`, perr.Error())

	serr := &backend.StatusError{Op: "delete", StatusCode: http.StatusBadGateway}
	assert.Equal(t, "backend delete: unexpected status 502", serr.Error())
}
