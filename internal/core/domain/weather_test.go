package domain_test

import (
	"testing"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyShipping(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		wind float64
		want domain.ShippingCondition
	}{
		{name: "high wind", temp: 25, wind: 20, want: domain.ShippingRiskyWind},
		{name: "hot", temp: 50, wind: 5, want: domain.ShippingExtremeTemp},
		{name: "freezing", temp: -3, wind: 2, want: domain.ShippingExtremeTemp},
		{name: "mild", temp: 20, wind: 5, want: domain.ShippingSuitable},
		{name: "wind wins over temperature", temp: 50, wind: 20, want: domain.ShippingRiskyWind},
		{name: "wind at limit", temp: 20, wind: 15, want: domain.ShippingSuitable},
		{name: "zero degrees", temp: 0, wind: 0, want: domain.ShippingSuitable},
		{name: "forty five degrees", temp: 45, wind: 0, want: domain.ShippingSuitable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyShipping(tt.temp, tt.wind))
		})
	}
}

func TestWeatherSnapshot_Format(t *testing.T) {
	snap := domain.NewWeatherSnapshot(domain.WeatherObservation{
		Location:     "Mumbai",
		TemperatureC: 31.5,
		Humidity:     70,
		WindSpeed:    4.1,
		Description:  "haze",
	})

	assert.Equal(t, domain.ShippingSuitable, snap.Condition)
	assert.Equal(t,
		"Weather in Mumbai: 31.5°C, haze. Humidity: 70%, Wind: 4.1 m/s. Conditions are suitable for shipping.",
		snap.Format())
}
