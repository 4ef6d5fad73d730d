package services

import (
	"context"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
)

// WeatherReaderSvc defines read operations for shipping weather
type WeatherReaderSvc interface {
	// Assess fetches current weather for a city and classifies shipping risk.
	Assess(ctx context.Context, city string) (*domain.WeatherSnapshot, error)

	// WeatherSummary renders the assessment, or a moderate-conditions fallback on any failure.
	WeatherSummary(ctx context.Context, city string) string
}

// WeatherSvcFacade combines all weather-related service interfaces
type WeatherSvcFacade interface {
	WeatherReaderSvc
}
