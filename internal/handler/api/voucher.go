package api

import (
	"fmt"
	"net/http"

	"voucher-console/internal/domain/voucher"
	reqdto "voucher-console/internal/handler/dto/request"
	resdto "voucher-console/internal/handler/dto/response"
	"voucher-console/internal/handler/httperr"
	"voucher-console/internal/pkg/clock"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/console"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	clock     clock.Clock
	countdown *voucher.Countdown
}

func NewVoucherHandler(clk clock.Clock, countdown *voucher.Countdown) *VoucherHandler {
	return &VoucherHandler{clock: clk, countdown: countdown}
}

func (h *VoucherHandler) listResponse(list *console.List) *resdto.ListResponse {
	return resdto.FromListView(list.View(h.clock.Now()))
}

// @Summary List vouchers
// @Description Session voucher list. The backend is queried once per visit of the voucher view; q and status only filter in memory.
// @Tags vouchers
// @Produce json
// @Param q query string false "Case-insensitive code search"
// @Param status query string false "all, active, used, expired or disabled"
// @Success 200 {object} resdto.ListResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /console/api/vouchers [get]
func (h *VoucherHandler) List(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var query reqdto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithBindError(c, err)
		return
	}
	if query.Status != nil {
		if err := session.List.SetStatusFilter(*query.Status); err != nil {
			abortWithUsecaseError(c, err, "Invalid filter")
			return
		}
	}
	if query.Q != nil {
		session.List.SetSearch(*query.Q)
	}
	if err := session.List.Load(c.Request.Context()); err != nil {
		abortWithUsecaseError(c, err, "Failed to fetch vouchers")
		return
	}
	c.JSON(http.StatusOK, h.listResponse(session.List))
}

// @Summary Reload vouchers
// @Description Re-fetch the whole collection, discarding local status overrides
// @Tags vouchers
// @Produce json
// @Success 200 {object} resdto.ListResponse
// @Failure 502 {object} map[string]string
// @Router /console/api/vouchers/reload [post]
func (h *VoucherHandler) Reload(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	if err := session.List.Reload(c.Request.Context()); err != nil {
		abortWithUsecaseError(c, err, "Failed to fetch vouchers")
		return
	}
	c.JSON(http.StatusOK, h.listResponse(session.List))
}

func (h *VoucherHandler) card(c *gin.Context) (*console.Session, *console.Card, bool) {
	session, ok := mustSession(c)
	if !ok {
		return nil, nil, false
	}
	card, err := session.List.Card(c.Param("id"))
	if err != nil {
		abortWithUsecaseError(c, err, "Voucher not found")
		return nil, nil, false
	}
	return session, card, true
}

func (h *VoucherHandler) cardResponse(card *console.Card, n console.Notification) resdto.CardActionResponse {
	view := resdto.FromCardView(card.View(h.clock.Now()))
	return resdto.CardActionResponse{Voucher: &view, Notification: resdto.FromNotification(n)}
}

// @Summary Toggle voucher
// @Description Enable a disabled voucher or disable an active one
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} resdto.CardActionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /console/api/vouchers/{id}/toggle [post]
func (h *VoucherHandler) Toggle(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	card, n, err := session.List.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to update voucher")
		return
	}
	c.JSON(http.StatusOK, h.cardResponse(card, n))
}

// @Summary Copy voucher code
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} resdto.CopyResponse
// @Failure 404 {object} map[string]string
// @Router /console/api/vouchers/{id}/copy [post]
func (h *VoucherHandler) Copy(c *gin.Context) {
	_, card, ok := h.card(c)
	if !ok {
		return
	}
	code, n := card.CopyCode()
	c.JSON(http.StatusOK, resdto.CopyResponse{Code: code, Notification: resdto.FromNotification(n)})
}

// @Summary Open delete confirmation
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} resdto.CardActionResponse
// @Failure 404 {object} map[string]string
// @Router /console/api/vouchers/{id}/delete-request [post]
func (h *VoucherHandler) RequestDelete(c *gin.Context) {
	_, card, ok := h.card(c)
	if !ok {
		return
	}
	card.RequestDelete()
	c.JSON(http.StatusOK, h.cardResponse(card, console.Notification{}))
}

// @Summary Cancel delete confirmation
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} resdto.CardActionResponse
// @Failure 404 {object} map[string]string
// @Router /console/api/vouchers/{id}/delete-cancel [post]
func (h *VoucherHandler) CancelDelete(c *gin.Context) {
	_, card, ok := h.card(c)
	if !ok {
		return
	}
	card.CancelDelete()
	c.JSON(http.StatusOK, h.cardResponse(card, console.Notification{}))
}

// @Summary Delete voucher
// @Description Delete a voucher whose confirmation dialog is open, then reload the list
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher ID"
// @Success 200 {object} resdto.ListActionResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /console/api/vouchers/{id} [delete]
func (h *VoucherHandler) Delete(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	n, err := session.List.ConfirmDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to delete voucher")
		return
	}
	c.JSON(http.StatusOK, resdto.ListActionResponse{
		List:         h.listResponse(session.List),
		Notification: resdto.FromNotification(n),
	})
}

// @Summary Voucher countdown
// @Description Server-sent events with the remaining time, once per tick, ending after "Expired"
// @Tags vouchers
// @Produce text/event-stream
// @Param id path string true "Voucher ID"
// @Success 204 "No expiry"
// @Failure 404 {object} map[string]string
// @Router /console/api/vouchers/{id}/countdown [get]
func (h *VoucherHandler) Countdown(c *gin.Context) {
	_, card, ok := h.card(c)
	if !ok {
		return
	}
	expiresAt := card.ExpiresAt()
	if expiresAt == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	h.countdown.Run(c.Request.Context(), expiresAt, func(text string) {
		c.SSEvent("countdown", text)
		c.Writer.Flush()
	})
}

// @Summary Change selection
// @Description toggle one id, select the whole filtered view, or clear
// @Tags vouchers
// @Accept json
// @Produce json
// @Param request body reqdto.SelectionRequest true "Selection change"
// @Success 200 {object} resdto.ListResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /console/api/vouchers/selection [post]
func (h *VoucherHandler) Select(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req reqdto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithBindError(c, err)
		return
	}
	switch req.Action {
	case reqdto.SelectionToggle:
		if err := session.List.ToggleSelect(req.ID); err != nil {
			abortWithUsecaseError(c, err, "Voucher not found")
			return
		}
	case reqdto.SelectionAll:
		session.List.SelectAll()
	case reqdto.SelectionNone:
		session.List.ClearSelection()
	}
	c.JSON(http.StatusOK, h.listResponse(session.List))
}

// @Summary Bulk delete
// @Description Delete every selected voucher and report each outcome
// @Tags vouchers
// @Produce json
// @Success 200 {object} resdto.BulkDeleteResponse
// @Failure 400 {object} map[string]string
// @Router /console/api/vouchers/bulk-delete [post]
func (h *VoucherHandler) BulkDelete(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	requested := session.List.Selected()
	result, err := session.List.BulkDelete(c.Request.Context())
	if errs.Is(err, console.ErrNothingSelected) {
		abortWithUsecaseError(c, err, "Nothing to delete")
		return
	}

	succeeded, failed := resdto.FromBulkResult(requested, result)
	res := resdto.BulkDeleteResponse{
		Succeeded:    succeeded,
		Failed:       failed,
		List:         h.listResponse(session.List),
		Notification: resdto.FromNotification(console.BulkDeleted(result)),
	}
	if err != nil && !result.HasFailures() {
		res.Notification = resdto.FromNotification(console.Failure(err))
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Export vouchers
// @Description Backend CSV export, streamed as vouchers.csv
// @Tags vouchers
// @Produce text/csv
// @Success 200 {file} file
// @Failure 502 {object} map[string]string
// @Router /console/api/vouchers/export [get]
func (h *VoucherHandler) Export(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	file, err := session.List.Export(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to export vouchers")
		return
	}
	defer file.Body.Close()

	setNotificationHeaders(c, console.Exported())

	c.DataFromReader(http.StatusOK, file.ContentLength, file.ContentType, file.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, file.Filename),
	})
}

// @Summary Print layout
// @Description Filtered codes in rows of six, codes only
// @Tags vouchers
// @Produce json
// @Success 200 {object} resdto.PrintResponse
// @Router /console/api/vouchers/print [get]
func (h *VoucherHandler) Print(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.PrintResponse{Columns: console.PrintColumns, Rows: session.List.PrintRows()})
}
