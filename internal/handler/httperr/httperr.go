package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Toasts for file downloads travel in these headers, since the body is the file.
const (
	HeaderNotificationTitle   = "X-Notification-Title"
	HeaderNotificationMessage = "X-Notification-Message"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

func New(status int, msg string, detail any) Response {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Message = msg
	return resp
}

// preserves original error for the logging middleware
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := New(status, msg, detail)
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithBindError answers a request whose body or query failed binding.
func AbortWithBindError(c *gin.Context, err error) {
	AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
}
