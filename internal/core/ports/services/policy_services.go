package services

import (
	"context"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
)

// PolicyReaderSvc defines read operations against the loaded policy document
type PolicyReaderSvc interface {
	// Query answers a compliance question from the loaded policy. It never fails.
	Query(ctx context.Context, question string) string

	// Status describes the live policy index.
	Status() domain.PolicyStatus

	// Loaded reports whether a policy index is live.
	Loaded() bool
}

// PolicyWriterSvc defines ingestion of policy documents
type PolicyWriterSvc interface {
	// LoadDocument extracts, splits and embeds the document at path and makes it the live index.
	LoadDocument(ctx context.Context, path, name string) (*domain.PolicyStatus, error)
}

// PolicySvcFacade combines all policy-related service interfaces
type PolicySvcFacade interface {
	PolicyReaderSvc
	PolicyWriterSvc
}
