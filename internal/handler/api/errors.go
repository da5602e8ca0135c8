package api

import (
	"net/http"

	"voucher-console/internal/domain/voucher"
	resdto "voucher-console/internal/handler/dto/response"
	"voucher-console/internal/handler/httperr"
	"voucher-console/internal/handler/middleware"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/console"

	"github.com/gin-gonic/gin"
)

var errNoSession = errs.New("request has no console session")

// abortWithUsecaseError maps usecase errors to HTTP statuses. The error toast rides along in
// detail so pages can show it without a second request.
func abortWithUsecaseError(c *gin.Context, err error, fallbackMsg string) {
	status, msg := http.StatusInternalServerError, "Internal error"
	switch {
	case errs.Is(err, errs.ErrValidation):
		status, msg = http.StatusBadRequest, "Invalid request"
	case errs.Is(err, errs.ErrVoucherNotFound):
		status, msg = http.StatusNotFound, "Voucher not found"
	case errs.Is(err, console.ErrRequestInFlight):
		status, msg = http.StatusConflict, "Request already in progress"
	case errs.Is(err, console.ErrDeleteNotConfirmed):
		status, msg = http.StatusConflict, "Delete not confirmed"
	case errs.Is(err, voucher.ErrToggleNotAllowed):
		status, msg = http.StatusUnprocessableEntity, "Voucher status cannot be toggled"
	case errs.Is(err, errs.ErrBackendRequestFailed), errs.Is(err, errs.ErrBackendDecodeFailed):
		status, msg = http.StatusBadGateway, fallbackMsg
	case errs.Is(err, errs.ErrPreferenceStoreFailed):
		status, msg = http.StatusServiceUnavailable, fallbackMsg
	}
	detail := gin.H{"notification": resdto.FromNotification(console.Failure(err))}
	httperr.AbortWithError(c, status, err, msg, detail)
}

func mustSession(c *gin.Context) (*console.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoSession, "Internal error", nil)
		return nil, false
	}
	return session, true
}

// setNotificationHeaders carries a toast on responses whose body is a file.
func setNotificationHeaders(c *gin.Context, n console.Notification) {
	c.Header(httperr.HeaderNotificationTitle, n.Title)
	c.Header(httperr.HeaderNotificationMessage, n.Message)
}
