package services

import (
	"context"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
)

// DecisionSvcFacade runs the procurement planning agent.
type DecisionSvcFacade interface {
	// Analyze drives the tool-using agent for one request and returns its verdict.
	Analyze(ctx context.Context, req domain.DecisionRequest) (*domain.DecisionOutcome, error)
}
