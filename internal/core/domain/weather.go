package domain

import (
	"fmt"
	"strconv"
)

// ShippingCondition is the rule-based shipping suitability of current weather.
type ShippingCondition string

const (
	ShippingSuitable    ShippingCondition = "suitable"
	ShippingRiskyWind   ShippingCondition = "risky due to high winds"
	ShippingExtremeTemp ShippingCondition = "challenging due to extreme temperature"
)

// Classification thresholds, metric units.
const (
	MaxSafeWindSpeed = 15.0 // m/s
	MinSafeTempC     = 0.0
	MaxSafeTempC     = 45.0
)

// WeatherObservation is the raw provider reading for a location.
type WeatherObservation struct {
	Location     string
	TemperatureC float64
	Humidity     float64
	WindSpeed    float64
	Description  string
}

// WeatherSnapshot is an observation plus its shipping classification.
type WeatherSnapshot struct {
	Location     string            `json:"location"`
	TemperatureC float64           `json:"temperatureC"`
	Humidity     float64           `json:"humidity"`
	WindSpeed    float64           `json:"windSpeed"`
	Description  string            `json:"description"`
	Condition    ShippingCondition `json:"condition"`
}

// ClassifyShipping applies the fixed thresholds. Wind takes precedence over temperature.
func ClassifyShipping(tempC, windSpeed float64) ShippingCondition {
	switch {
	case windSpeed > MaxSafeWindSpeed:
		return ShippingRiskyWind
	case tempC < MinSafeTempC || tempC > MaxSafeTempC:
		return ShippingExtremeTemp
	default:
		return ShippingSuitable
	}
}

// NewWeatherSnapshot classifies an observation.
func NewWeatherSnapshot(obs WeatherObservation) *WeatherSnapshot {
	return &WeatherSnapshot{
		Location:     obs.Location,
		TemperatureC: obs.TemperatureC,
		Humidity:     obs.Humidity,
		WindSpeed:    obs.WindSpeed,
		Description:  obs.Description,
		Condition:    ClassifyShipping(obs.TemperatureC, obs.WindSpeed),
	}
}

// Format renders the snapshot as one sentence.
func (w *WeatherSnapshot) Format() string {
	return fmt.Sprintf("Weather in %s: %s°C, %s. Humidity: %s%%, Wind: %s m/s. Conditions are %s for shipping.",
		w.Location, num(w.TemperatureC), w.Description, num(w.Humidity), num(w.WindSpeed), w.Condition)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
