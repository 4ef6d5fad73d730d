package services

import (
	"context"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
)

// ForexReaderSvc defines read operations for exchange rates
type ForexReaderSvc interface {
	// RateReport fetches live quotes and ranks the target currencies by INR rate.
	RateReport(ctx context.Context) (*domain.RateReport, error)

	// ForexSummary renders the rate report, or a descriptive fallback on any failure.
	ForexSummary(ctx context.Context) string
}

// ForexSvcFacade combines all forex-related service interfaces
type ForexSvcFacade interface {
	ForexReaderSvc
}
