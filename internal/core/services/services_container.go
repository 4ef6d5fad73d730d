package services

import (
	"github.com/SscSPs/procurement_agent/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/platform/config"
)

// Gateways bundles the outbound adapters the services depend on.
type Gateways struct {
	MarketData gateways.MarketDataProvider
	Weather    gateways.WeatherProvider
	Documents  gateways.DocumentReader
	Embedder   gateways.Embedder
	Generator  gateways.TextGenerator
	Planner    gateways.Planner
	Notifier   gateways.ChatNotifier
	Tracer     gateways.Tracer
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, gw Gateways) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Forex = NewForexService(gw.MarketData)
	container.Weather = NewWeatherService(gw.Weather)
	container.Policy = NewPolicyService(
		gw.Documents,
		gw.Embedder,
		gw.Generator,
		WithChunking(cfg.PolicyChunkSize, cfg.PolicyChunkOverlap),
		WithTopK(cfg.PolicyTopK),
		WithClearOnFailedUpload(cfg.PolicyClearOnFailedUpload),
	)

	// The agent reads the other services through their narrow reader interfaces
	container.Decision = NewDecisionService(
		gw.Planner,
		container.Forex,
		container.Weather,
		container.Policy,
		WithTracer(gw.Tracer),
		WithMaxSteps(cfg.AgentMaxSteps),
	)

	container.Notification = NewNotificationService(
		gw.Notifier,
		WithQueueSize(cfg.NotifyQueueSize),
		WithSendTimeout(cfg.ProviderTimeout),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ForexSvcFacade        = (*forexService)(nil)
	_ portssvc.WeatherSvcFacade      = (*weatherService)(nil)
	_ portssvc.PolicySvcFacade       = (*policyService)(nil)
	_ portssvc.DecisionSvcFacade     = (*decisionService)(nil)
	_ portssvc.NotificationSvcFacade = (*notificationService)(nil)
)
