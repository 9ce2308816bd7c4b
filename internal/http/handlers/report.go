package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tgdash-backend/internal/clients/telegram"
	"github.com/yungbote/tgdash-backend/internal/http/response"
	"github.com/yungbote/tgdash-backend/internal/modules/report"
	"github.com/yungbote/tgdash-backend/internal/modules/report/format"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

const msgReportUnavailable = "Не удалось сгенерировать отчёт. Попробуйте позже."

type ReportBuilder interface {
	Build(ctx context.Context, p report.Params) (*report.Result, error)
	BuildAll(ctx context.Context, p report.Params) ([]report.Outcome, error)
}

type ReportSender interface {
	SendReport(ctx context.Context, chatID, threadID string, parts []string) error
	DefaultChatID() string
}

type ReportHandler struct {
	log     *logger.Logger
	reports ReportBuilder
	sender  ReportSender
	now     func() time.Time
}

// NewReportHandler wires the report routes. sender may be nil when Telegram
// delivery is not configured.
func NewReportHandler(log *logger.Logger, reports ReportBuilder, sender ReportSender) *ReportHandler {
	return &ReportHandler{
		log:     log.With("handler", "ReportHandler"),
		reports: reports,
		sender:  sender,
		now:     time.Now,
	}
}

// GET /api/report/:kind
func (h *ReportHandler) Report(c *gin.Context) {
	kind := c.Param("kind")
	switch kind {
	case "generate", "insights", "preview":
	default:
		response.RespondError(c, http.StatusNotFound, "Unsupported report kind")
		return
	}

	res, err := h.reports.Build(c.Request.Context(), reportParams(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if res == nil {
		response.RespondError(c, http.StatusServiceUnavailable, msgReportUnavailable)
		return
	}

	switch kind {
	case "insights":
		if res.Persona != "" {
			response.RespondOK(c, res.Data)
			return
		}
		response.RespondOK(c, gin.H{"themes": res.Themes, "insights": res.Insights})
	case "preview":
		payload := format.Rich(res)
		payload["telegram_preview"] = format.Split(format.Telegram(res, h.now()), format.TelegramLimit)
		response.RespondOK(c, payload)
	default:
		response.RespondOK(c, format.Rich(res))
	}
}

type personaOutcome struct {
	Persona string         `json:"persona"`
	OK      bool           `json:"ok"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// GET /api/reports/all
func (h *ReportHandler) All(c *gin.Context) {
	outcomes, err := h.reports.BuildAll(c.Request.Context(), reportParams(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out := make([]personaOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		po := personaOutcome{Persona: string(o.Persona)}
		switch {
		case o.Err != nil:
			po.Error = o.Err.Error()
		case o.Report == nil:
			po.Error = msgReportUnavailable
		default:
			po.OK = true
			po.Data = format.Rich(o.Report)
		}
		out = append(out, po)
	}
	response.RespondOK(c, out)
}

type sendRequest struct {
	Date         string         `json:"date"`
	ChatID       string         `json:"chat_id"`
	ThreadID     string         `json:"thread_id"`
	Days         *int           `json:"days"`
	Persona      string         `json:"persona"`
	TargetChatID string         `json:"target_chat_id"`
	Report       *report.Result `json:"report"`
}

// POST /api/send-to-telegram
func (h *ReportHandler) SendToTelegram(c *gin.Context) {
	var body sendRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := reportParams(c)
	overlay(&p.Date, body.Date)
	overlay(&p.ChatID, body.ChatID)
	overlay(&p.ThreadID, body.ThreadID)
	overlay(&p.Persona, body.Persona)
	if body.Days != nil {
		p.Days = 1
		if *body.Days == 7 {
			p.Days = 7
		}
	}

	if h.sender == nil {
		response.RespondError(c, http.StatusInternalServerError, telegram.ErrNotConfigured.Error())
		return
	}
	target := strings.TrimSpace(body.TargetChatID)
	if target == "" {
		target = h.sender.DefaultChatID()
	}
	if target == "" {
		response.RespondError(c, http.StatusInternalServerError, telegram.ErrNotConfigured.Error())
		return
	}

	res := body.Report
	if res != nil && res.FlatReport == nil && res.Data == nil {
		res = nil
	}
	if res != nil {
		h.log.Info("Using pre-generated report", "persona", string(res.Persona))
		if res.Date == "" {
			res.Date = p.Date
		}
		if res.Date == "" {
			res.Date = h.now().Format("2006-01-02")
		}
	} else {
		built, err := h.reports.Build(c.Request.Context(), p)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		if built == nil {
			response.RespondError(c, http.StatusServiceUnavailable, msgReportUnavailable)
			return
		}
		res = built
	}

	parts := format.Split(format.Telegram(res, h.now()), format.TelegramLimit)
	if err := h.sender.SendReport(c.Request.Context(), target, p.ThreadID, parts); err != nil {
		var de *telegram.DeliveryError
		switch {
		case errors.As(err, &de):
			response.RespondError(c, http.StatusBadGateway, de.Reason)
		case errors.Is(err, telegram.ErrNotConfigured):
			response.RespondError(c, http.StatusInternalServerError, err.Error())
		default:
			response.RespondAPIError(c, err)
		}
		return
	}
	response.RespondOK(c, gin.H{
		"message":      "Отчёт отправлен в Telegram",
		"sentMessages": len(parts),
	})
}

func overlay(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
