package api

import (
	"io"
	"net/http"

	reqdto "voucher-console/internal/handler/dto/request"
	resdto "voucher-console/internal/handler/dto/response"
	"voucher-console/internal/handler/httperr"
	"voucher-console/internal/usecase/console"

	"github.com/gin-gonic/gin"
)

type NavigationHandler struct {
	shell *console.Shell
}

func NewNavigationHandler(shell *console.Shell) *NavigationHandler {
	return &NavigationHandler{shell: shell}
}

// @Summary Get navigation
// @Description Active view and sidebar menu
// @Tags navigation
// @Produce json
// @Success 200 {object} resdto.NavigationResponse
// @Router /console/api/navigation [get]
func (h *NavigationHandler) Get(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromNavigation(h.shell.Active(c.Request.Context(), session.ID)))
}

// @Summary Set active view
// @Description Persist the active view shared by the tabs of this browser session
// @Tags navigation
// @Accept json
// @Produce json
// @Param request body reqdto.NavigationRequest true "Active view"
// @Success 200 {object} resdto.NavigationResponse
// @Failure 400 {object} map[string]string
// @Router /console/api/navigation [put]
func (h *NavigationHandler) Set(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req reqdto.NavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithBindError(c, err)
		return
	}
	view, err := h.shell.SetActive(c.Request.Context(), session.ID, req.View)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to save active view")
		return
	}
	c.JSON(http.StatusOK, resdto.FromNavigation(view))
}

// @Summary Navigation events
// @Description Server-sent events carrying this session's active view whenever it changes
// @Tags navigation
// @Produce text/event-stream
// @Router /console/api/navigation/events [get]
func (h *NavigationHandler) Events(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	changes := h.shell.Watch(ctx, session.ID)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("view", h.shell.Active(ctx, session.ID).String())
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		view, ok := <-changes
		if !ok {
			return false
		}
		c.SSEvent("view", view.String())
		return true
	})
}
