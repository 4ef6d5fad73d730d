package domain_test

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quotes(prices map[string]float64) domain.BridgeQuotes {
	return domain.BridgeQuotes{Asset: domain.BridgeAsset, Prices: prices}
}

func TestBuildRateReport_RanksAndSavings(t *testing.T) {
	q := quotes(map[string]float64{
		"INR": 84.0,
		"USD": 1.0,  // 84.00
		"EUR": 0.92, // 91.30
		"GBP": 0.79, // 106.33
		"JPY": 150,  // 0.56
	})

	report, err := domain.BuildRateReport(q, domain.TargetCurrencies)
	require.NoError(t, err)

	codes := make([]string, 0, len(report.Quotes))
	for _, rq := range report.Quotes {
		codes = append(codes, rq.Currency)
	}
	assert.Equal(t, []string{"JPY", "USD", "EUR", "GBP"}, codes)
	assert.Equal(t, "JPY", report.Best.Currency)
	assert.Equal(t, "GBP", report.Worst.Currency)
	assert.Equal(t, "84.00", report.Quotes[1].Rate.StringFixed(2))

	expected := report.Worst.Rate.Sub(report.Best.Rate).Div(report.Worst.Rate).Mul(decimal.NewFromInt(100))
	assert.True(t, expected.Equal(report.SavingsPercent))
}

func TestBuildRateReport_SkipsZeroAndMissingDenominators(t *testing.T) {
	q := quotes(map[string]float64{"INR": 84, "USD": 1, "EUR": 0})

	report, err := domain.BuildRateReport(q, domain.TargetCurrencies)
	require.NoError(t, err)

	require.Len(t, report.Quotes, 1)
	assert.Equal(t, "USD", report.Best.Currency)
	assert.Equal(t, "USD", report.Worst.Currency)
	assert.True(t, report.SavingsPercent.IsZero())
}

func TestBuildRateReport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		prices map[string]float64
		want   error
	}{
		{name: "INR absent", prices: map[string]float64{"USD": 1}, want: domain.ErrNoINRQuote},
		{name: "INR zero", prices: map[string]float64{"INR": 0, "USD": 1}, want: domain.ErrNoINRQuote},
		{name: "all cross quotes zero", prices: map[string]float64{"INR": 84, "USD": 0, "EUR": 0}, want: domain.ErrNoCrossRates},
		{name: "no cross quotes", prices: map[string]float64{"INR": 84}, want: domain.ErrNoCrossRates},
		{name: "empty", prices: nil, want: domain.ErrNoINRQuote},
		{name: "INR infinite", prices: map[string]float64{"INR": math.Inf(1), "USD": 1}, want: domain.ErrNoINRQuote},
		{name: "INR NaN", prices: map[string]float64{"INR": math.NaN(), "USD": 1}, want: domain.ErrNoINRQuote},
		{name: "cross quotes non-finite", prices: map[string]float64{"INR": 84, "USD": math.Inf(1), "EUR": math.NaN()}, want: domain.ErrNoCrossRates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := domain.BuildRateReport(quotes(tt.prices), domain.TargetCurrencies)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildRateReport_SkipsNonFinitePrices(t *testing.T) {
	q := quotes(map[string]float64{"INR": 84, "USD": 1, "EUR": math.Inf(1), "GBP": math.NaN()})

	var report *domain.RateReport
	var err error
	assert.NotPanics(t, func() { report, err = domain.BuildRateReport(q, domain.TargetCurrencies) })
	require.NoError(t, err)
	require.Len(t, report.Quotes, 1)
	assert.Equal(t, "USD", report.Best.Currency)
}

func TestBuildRateReport_BestIsMinimumAndSavingsBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hundred := decimal.NewFromInt(100)

	for i := 0; i < 500; i++ {
		prices := map[string]float64{"INR": 1 + rng.Float64()*200}
		for _, code := range domain.TargetCurrencies {
			switch rng.Intn(4) {
			case 0: // absent
			case 1:
				prices[code] = 0
			default:
				prices[code] = 0.001 + rng.Float64()*500
			}
		}
		// Guarantee at least one positive denominator.
		prices["USD"] = 0.5 + rng.Float64()

		report, err := domain.BuildRateReport(quotes(prices), domain.TargetCurrencies)
		require.NoError(t, err)

		for _, rq := range report.Quotes {
			assert.True(t, report.Best.Rate.LessThanOrEqual(rq.Rate), "best must be <= %s", rq.Currency)
			assert.True(t, report.Worst.Rate.GreaterThanOrEqual(rq.Rate))
		}
		assert.True(t, report.SavingsPercent.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, report.SavingsPercent.LessThan(hundred))
	}
}

func TestRateReport_Format(t *testing.T) {
	q := quotes(map[string]float64{"INR": 84, "USD": 1, "EUR": 0.92, "GBP": 0.79})
	report, err := domain.BuildRateReport(q, domain.TargetCurrencies)
	require.NoError(t, err)
	report.Source = "CoinGecko API (Live)"

	out := report.Format()

	assert.Contains(t, out, "USD: ₹84.00 [BEST RATE]")
	assert.Contains(t, out, "GBP: ₹106.33 [HIGHEST]")
	assert.Contains(t, out, "RECOMMENDATION: Use USD")
	assert.Contains(t, out, "vs worst rate (GBP)")
	assert.Contains(t, out, "Data Source: CoinGecko API (Live)")
	assert.Less(t, strings.Index(out, "USD:"), strings.Index(out, "EUR:"))
	assert.Less(t, strings.Index(out, "EUR:"), strings.Index(out, "GBP:"))
	assert.Equal(t, out, report.Format(), "rendering must be deterministic")
}
