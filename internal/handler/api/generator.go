package api

import (
	"fmt"
	"net/http"

	reqdto "voucher-console/internal/handler/dto/request"
	resdto "voucher-console/internal/handler/dto/response"
	"voucher-console/internal/handler/httperr"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type GeneratorHandler struct{}

func NewGeneratorHandler() *GeneratorHandler {
	return &GeneratorHandler{}
}

// @Summary Get generator form
// @Tags generator
// @Produce json
// @Success 200 {object} resdto.GeneratorResponse
// @Router /console/api/generator [get]
func (h *GeneratorHandler) Get(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromGeneratorView(session.Generator.View()))
}

// @Summary Update generator form
// @Description Apply changed fields. A duration change recomputes the expiry until the date is edited by hand.
// @Tags generator
// @Accept json
// @Produce json
// @Param request body reqdto.GeneratorPatchRequest true "Changed fields"
// @Success 200 {object} resdto.GeneratorResponse
// @Failure 400 {object} map[string]string
// @Router /console/api/generator [patch]
func (h *GeneratorHandler) Update(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req reqdto.GeneratorPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithBindError(c, err)
		return
	}
	if err := session.Generator.Update(req.ToPatch()); err != nil {
		abortWithUsecaseError(c, err, "Invalid request")
		return
	}
	c.JSON(http.StatusOK, resdto.FromGeneratorView(session.Generator.View()))
}

// @Summary Generate vouchers
// @Description Submit the batch. A partial creation still returns the created codes, with status 502.
// @Tags generator
// @Produce json
// @Success 201 {object} resdto.GeneratorActionResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} resdto.GeneratorActionResponse
// @Router /console/api/generator/submit [post]
func (h *GeneratorHandler) Submit(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	n, err := session.Generator.Submit(c.Request.Context())
	res := resdto.GeneratorActionResponse{
		Generator:    resdto.FromGeneratorView(session.Generator.View()),
		Notification: resdto.FromNotification(n),
	}
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, res)
	case errs.Is(err, errs.ErrPartialCreation):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, res)
	default:
		abortWithUsecaseError(c, err, "Failed to generate vouchers")
	}
}

// @Summary Export generated codes
// @Description The session's generated codes as vouchers.csv, one per line
// @Tags generator
// @Produce text/csv
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Router /console/api/generator/export [get]
func (h *GeneratorHandler) Export(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	body, n, err := session.Generator.ExportCSV()
	if err != nil {
		abortWithUsecaseError(c, err, "Nothing to export")
		return
	}
	setNotificationHeaders(c, n)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, shared.ExportFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
