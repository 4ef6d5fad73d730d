package services

import "context"

// NotificationSvcFacade dispatches chat alerts in the background.
type NotificationSvcFacade interface {
	// Enqueue schedules text for delivery without blocking. It reports whether the
	// message was accepted, not whether it was delivered.
	Enqueue(ctx context.Context, text string) bool

	// Send delivers text synchronously and reports success. It never fails loudly.
	Send(ctx context.Context, text string) bool

	// Shutdown stops accepting messages and drains the queue until ctx is done.
	Shutdown(ctx context.Context) int
}
