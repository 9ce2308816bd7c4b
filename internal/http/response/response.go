package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tgdash-backend/internal/platform/apierr"
)

// Envelope is the shape of every JSON response: {ok:true, data} or
// {ok:false, error}.
type Envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{OK: true, Data: data})
}

func RespondError(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = "unknown error"
	}
	c.JSON(status, Envelope{OK: false, Error: msg})
}

// RespondAPIError classifies err through apierr and writes its message.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.FromError(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, "")
		return
	}
	RespondError(c, ae.Status, ae.Error())
}
