package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tgdash-backend/internal/domain/chatlog"
	"github.com/yungbote/tgdash-backend/internal/http/response"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

type ChatStats interface {
	Metrics(ctx context.Context, q chatlog.Query) (chatlog.ActivityMetrics, error)
	Topics(ctx context.Context, f chatlog.Filter, w chatlog.Window) ([]chatlog.ForumTopicStat, error)
}

type DashboardHandler struct {
	log   *logger.Logger
	stats ChatStats
	now   func() time.Time
}

func NewDashboardHandler(log *logger.Logger, stats ChatStats) *DashboardHandler {
	return &DashboardHandler{log: log.With("handler", "DashboardHandler"), stats: stats, now: time.Now}
}

// GET /api/overview?chat_id&days
func (h *DashboardHandler) Overview(c *gin.Context) {
	f, err := chatlog.ParseFilter(c.Query("chat_id"), "")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	q := chatlog.Query{Filter: f, Window: lastDays(h.now(), windowDays(c.Query("days")))}
	m, err := h.stats.Metrics(c.Request.Context(), q)
	if err != nil {
		h.log.Error("Overview query failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to fetch overview")
		return
	}
	response.RespondOK(c, m)
}

// GET /api/topics?chat_id&days
func (h *DashboardHandler) Topics(c *gin.Context) {
	f, err := chatlog.ParseFilter(c.Query("chat_id"), "")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	topics, err := h.stats.Topics(c.Request.Context(), f, lastDays(h.now(), windowDays(c.Query("days"))))
	if err != nil {
		h.log.Error("Topics query failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Не удалось загрузить темы форума")
		return
	}
	response.RespondOK(c, topics)
}
