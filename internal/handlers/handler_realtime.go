package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/dto"
	"github.com/SscSPs/procurement_agent/internal/middleware"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// realtimeHandler serves the live forex and weather snapshot.
type realtimeHandler struct {
	forexService   portssvc.ForexReaderSvc
	weatherService portssvc.WeatherReaderSvc
	policyService  portssvc.PolicyReaderSvc
}

func registerRealtimeRoutes(r gin.IRoutes, services *portssvc.ServiceContainer) {
	h := &realtimeHandler{
		forexService:   services.Forex,
		weatherService: services.Weather,
		policyService:  services.Policy,
	}
	r.POST("/get_realtime_data", h.getRealtimeData)
}

// getRealtimeData godoc
// @Summary Live forex and weather
// @Description Fetches the ranked INR rate report and the shipping weather for a city. Provider failures come back as descriptive text.
// @Tags realtime
// @Accept json
// @Produce json
// @Param request body dto.RealtimeRequest true "Shipping city"
// @Success 200 {object} dto.RealtimeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /get_realtime_data [post]
func (h *realtimeHandler) getRealtimeData(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RealtimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for realtime data", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	resp := dto.RealtimeResponse{PolicyLoaded: h.policyService.Loaded()}

	// Both summaries absorb their own errors, so the group never fails.
	var g errgroup.Group
	g.Go(func() error {
		resp.Forex = h.forexService.ForexSummary(ctx)
		return nil
	})
	g.Go(func() error {
		resp.Weather = h.weatherService.WeatherSummary(ctx, req.City)
		return nil
	})
	_ = g.Wait()

	c.JSON(http.StatusOK, resp)
}
