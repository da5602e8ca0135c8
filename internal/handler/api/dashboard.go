package api

import (
	"net/http"

	resdto "voucher-console/internal/handler/dto/response"
	"voucher-console/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	q queries.DashboardQueries
}

func NewDashboardHandler(q queries.DashboardQueries) *DashboardHandler {
	return &DashboardHandler{q: q}
}

// @Summary Dashboard
// @Description Voucher stats and recent activity, both computed by the backend
// @Tags dashboard
// @Produce json
// @Success 200 {object} resdto.DashboardResponse
// @Failure 502 {object} map[string]string
// @Router /console/api/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	view, err := h.q.Load(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, resdto.FromDashboardView(view))
}
