package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/SscSPs/procurement_agent/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
)

// weatherService implements the WeatherSvcFacade interface. Every call re-fetches.
type weatherService struct {
	BaseService
	provider gateways.WeatherProvider
}

// NewWeatherService creates a new weather service
func NewWeatherService(provider gateways.WeatherProvider) portssvc.WeatherSvcFacade {
	return &weatherService{provider: provider}
}

// Assess fetches current conditions for city and classifies them for shipping.
func (s *weatherService) Assess(ctx context.Context, city string) (*domain.WeatherSnapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", apperrors.ErrValidation)
	}

	obs, err := s.provider.CurrentWeather(ctx, city)
	if err != nil {
		return nil, err
	}
	// Report under the name the caller asked about, not the provider's canonical one.
	obs.Location = city

	snapshot := domain.NewWeatherSnapshot(*obs)
	s.LogDebug(ctx, "Weather assessed",
		slog.String("city", city),
		slog.String("condition", string(snapshot.Condition)))
	return snapshot, nil
}

// WeatherSummary returns a one-sentence assessment, assuming moderate conditions on any failure.
func (s *weatherService) WeatherSummary(ctx context.Context, city string) string {
	snapshot, err := s.Assess(ctx, city)
	if err != nil {
		s.LogWarn(ctx, "Weather lookup failed, assuming moderate conditions",
			slog.String("city", city),
			slog.String("error", err.Error()))
		return fmt.Sprintf("Weather data unavailable for %s. Conditions assumed moderate. (%s)", city, err)
	}
	return snapshot.Format()
}
