package services_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/procurement_agent/internal/adapters/openweather"
	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/SscSPs/procurement_agent/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherService_Assess(t *testing.T) {
	ctx := context.Background()
	provider := new(MockWeatherProvider)
	provider.On("CurrentWeather", ctx, "Chennai").Return(&domain.WeatherObservation{
		Location:     "Chennai District",
		TemperatureC: 29,
		Humidity:     80,
		WindSpeed:    22.5,
		Description:  "moderate rain",
	}, nil).Once()

	svc := services.NewWeatherService(provider)
	snapshot, err := svc.Assess(ctx, "  Chennai ")

	require.NoError(t, err)
	assert.Equal(t, "Chennai", snapshot.Location)
	assert.Equal(t, domain.ShippingRiskyWind, snapshot.Condition)
	provider.AssertExpectations(t)
}

func TestWeatherService_SummaryFormatsSentence(t *testing.T) {
	ctx := context.Background()
	provider := new(MockWeatherProvider)
	provider.On("CurrentWeather", ctx, "Delhi").Return(&domain.WeatherObservation{
		TemperatureC: 47, Humidity: 10, WindSpeed: 3, Description: "clear sky",
	}, nil)

	summary := services.NewWeatherService(provider).WeatherSummary(ctx, "Delhi")

	assert.Equal(t, "Weather in Delhi: 47°C, clear sky. Humidity: 10%, Wind: 3 m/s. Conditions are challenging due to extreme temperature for shipping.", summary)
}

func TestWeatherService_SummaryFallsBackToModerate(t *testing.T) {
	ctx := context.Background()
	provider := new(MockWeatherProvider)
	provider.On("CurrentWeather", ctx, "Atlantis").
		Return(nil, fmt.Errorf("%w: city not found", apperrors.ErrNotFound))

	svc := services.NewWeatherService(provider)

	summary := svc.WeatherSummary(ctx, "Atlantis")
	assert.Contains(t, summary, "Weather data unavailable for Atlantis.")
	assert.Contains(t, summary, "Conditions assumed moderate.")
	assert.Contains(t, summary, "city not found")

	empty := svc.WeatherSummary(ctx, "  ")
	assert.Contains(t, empty, "Conditions assumed moderate.")
	provider.AssertNumberOfCalls(t, "CurrentWeather", 1)
}

func TestWeatherService_SummaryNeverExposesAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	svc := services.NewWeatherService(openweather.NewClient(baseURL, "SUPERSECRETKEY", time.Second))
	summary := svc.WeatherSummary(context.Background(), "Mumbai")

	assert.Contains(t, summary, "Weather data unavailable for Mumbai. Conditions assumed moderate.")
	assert.Contains(t, summary, "network error")
	assert.NotContains(t, summary, "SUPERSECRETKEY")
	assert.NotContains(t, summary, "appid")
}
