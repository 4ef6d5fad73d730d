package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/SscSPs/procurement_agent/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
)

// forexService implements the ForexSvcFacade interface
type forexService struct {
	BaseService
	provider     gateways.MarketDataProvider
	providerName string
	source       string
	currencies   []string
}

// ForexOption is a functional option for configuring the forex service
type ForexOption func(*forexService)

// WithForexProviderName sets the provider name used in fallback messages and the data-source footer.
func WithForexProviderName(name string) ForexOption {
	return func(s *forexService) {
		s.providerName = name
		s.source = name + " API (Live)"
	}
}

// WithTargetCurrencies overrides the compared currencies.
func WithTargetCurrencies(codes ...string) ForexOption {
	return func(s *forexService) {
		s.currencies = codes
	}
}

// NewForexService creates a new forex service with the provided options
func NewForexService(provider gateways.MarketDataProvider, options ...ForexOption) portssvc.ForexSvcFacade {
	svc := &forexService{
		provider:     provider,
		providerName: "CoinGecko",
		source:       "CoinGecko API (Live)",
		currencies:   domain.TargetCurrencies,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// RateReport fetches live bridge quotes and ranks the target currencies by INR rate.
func (s *forexService) RateReport(ctx context.Context) (*domain.RateReport, error) {
	quoted := make([]string, 0, len(s.currencies)+1)
	quoted = append(quoted, domain.HomeCurrency)
	quoted = append(quoted, s.currencies...)

	quotes, err := s.provider.BridgeQuotes(ctx, domain.BridgeAsset, quoted)
	if err != nil {
		return nil, err
	}

	report, err := domain.BuildRateReport(*quotes, s.currencies)
	if err != nil {
		return nil, err
	}
	report.Source = s.source

	s.LogDebug(ctx, "Forex rates computed",
		slog.String("best", report.Best.Currency),
		slog.String("worst", report.Worst.Currency),
		slog.Int("currencies", len(report.Quotes)))
	return report, nil
}

// ForexSummary returns the formatted rate report, or fallback text when it cannot be built.
func (s *forexService) ForexSummary(ctx context.Context) string {
	report, err := s.RateReport(ctx)
	if err != nil {
		s.LogWarn(ctx, "Forex lookup failed, returning fallback text", slog.String("error", err.Error()))
		return s.fallback(err)
	}
	return report.Format()
}

// fallback maps every failure class to text the agent can reason about.
func (s *forexService) fallback(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrRateLimited):
		return fmt.Sprintf("%s API rate limit exceeded. Please try again in a minute.", s.providerName)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return fmt.Sprintf("%s API authentication failed. Check your API key.", s.providerName)
	case errors.Is(err, apperrors.ErrTimeout):
		return fmt.Sprintf("Request timeout. %s API is slow to respond.", s.providerName)
	case errors.Is(err, apperrors.ErrNetwork):
		return fmt.Sprintf("Network error: %s", err)
	case errors.Is(err, apperrors.ErrUpstream):
		return fmt.Sprintf("HTTP error: %s", err)
	case errors.Is(err, domain.ErrNoBridgeData):
		return fmt.Sprintf("Unable to fetch forex rates from %s (no %s data).", s.providerName, domain.BridgeAsset)
	case errors.Is(err, domain.ErrNoINRQuote):
		return "Unable to calculate INR rates (no INR data)."
	case errors.Is(err, domain.ErrNoCrossRates):
		return "Unable to calculate any forex rates."
	case errors.Is(err, apperrors.ErrMalformedResponse):
		return fmt.Sprintf("Data parsing error: %s", err)
	default:
		return fmt.Sprintf("Unexpected error: %s", err)
	}
}
