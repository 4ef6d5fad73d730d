// Package openweather reads current conditions from the OpenWeatherMap current weather API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/procurement_agent/internal/adapters/httpx"
	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
)

const providerName = "openweather"

// Client implements gateways.WeatherProvider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpx.NewClient(timeout),
	}
}

type currentWeatherResponse struct {
	Name string `json:"name"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

// CurrentWeather fetches metric readings for city.
func (c *Client) CurrentWeather(ctx context.Context, city string) (*domain.WeatherObservation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather API key", apperrors.ErrNotConfigured)
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build openweather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, httpx.TransportError(providerName, err)
	}
	defer resp.Body.Close()

	if !httpx.IsSuccess(resp.StatusCode) {
		return nil, httpx.StatusError(providerName, resp)
	}

	var payload currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode openweather payload: %v", apperrors.ErrMalformedResponse, err)
	}
	if payload.Main == nil || payload.Main.Temp == nil || payload.Main.Humidity == nil ||
		payload.Wind == nil || payload.Wind.Speed == nil || len(payload.Weather) == 0 {
		return nil, fmt.Errorf("%w: openweather payload is missing readings", apperrors.ErrMalformedResponse)
	}

	location := payload.Name
	if location == "" {
		location = city
	}
	return &domain.WeatherObservation{
		Location:     location,
		TemperatureC: *payload.Main.Temp,
		Humidity:     *payload.Main.Humidity,
		WindSpeed:    *payload.Wind.Speed,
		Description:  payload.Weather[0].Description,
	}, nil
}
