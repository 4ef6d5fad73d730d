package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/dto"
	"github.com/SscSPs/procurement_agent/internal/middleware"
	"github.com/gin-gonic/gin"
)

// decisionHandler runs the agent and renders reports.
type decisionHandler struct {
	decisionService     portssvc.DecisionSvcFacade
	notificationService portssvc.NotificationSvcFacade
	now                 func() time.Time
}

func newDecisionHandler(ds portssvc.DecisionSvcFacade, ns portssvc.NotificationSvcFacade) *decisionHandler {
	return &decisionHandler{decisionService: ds, notificationService: ns, now: time.Now}
}

func registerDecisionRoutes(r gin.IRoutes, decisionService portssvc.DecisionSvcFacade, notificationService portssvc.NotificationSvcFacade) {
	h := newDecisionHandler(decisionService, notificationService)

	r.POST("/analyze", h.analyze)
	r.POST("/download_report", h.downloadReport)
}

// analyze godoc
// @Summary Analyze a procurement decision
// @Description Runs the planning agent over forex, weather, calculator and (when loaded) policy tools and returns a structured verdict. A chat alert is queued in the background.
// @Tags decision
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "Procurement query and shipping city"
// @Success 200 {object} dto.AnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse "No query provided"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Agent failed"
// @Router /analyze [post]
func (h *decisionHandler) analyze(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for analyze", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No query provided"})
		return
	}

	decisionReq := domain.DecisionRequest{Query: req.Query, Location: req.City}
	outcome, err := h.decisionService.Analyze(c.Request.Context(), decisionReq)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid analyze request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Decision agent failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	sent := h.notificationService.Enqueue(c.Request.Context(), domain.NotificationText(decisionReq, outcome.Decision))
	logger.Info("Analysis completed",
		slog.String("run_id", outcome.RunID),
		slog.String("decision_tag", string(outcome.Tag)),
		slog.Bool("telegram_queued", sent),
	)
	c.JSON(http.StatusOK, dto.ToAnalyzeResponse(outcome, sent))
}

// downloadReport godoc
// @Summary Download a decision report
// @Description Renders the query, location and decision into a timestamped plain-text attachment.
// @Tags decision
// @Accept json
// @Produce plain
// @Param request body dto.ReportRequest true "Report contents"
// @Success 200 {file} file "procurement_decision_<YYYYMMDD_HHMMSS>.txt"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /download_report [post]
func (h *decisionHandler) downloadReport(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON for report", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	report := domain.DecisionReport{
		Query:       req.Query,
		Location:    req.City,
		Decision:    req.Decision,
		GeneratedAt: h.now(),
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename()))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report.Render()))
}
