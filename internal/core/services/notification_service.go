package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/procurement_agent/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/google/uuid"
)

type notification struct {
	id     string
	text   string
	logger *slog.Logger
}

// notificationService implements the NotificationSvcFacade interface with a bounded
// queue and a single consumer goroutine. Enqueue never blocks the caller.
type notificationService struct {
	BaseService
	notifier    gateways.ChatNotifier
	sendTimeout time.Duration
	queueSize   int

	queue   chan notification
	done    chan struct{}
	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.RWMutex
	closed  bool
	discard atomic.Bool
}

// NotificationOption is a functional option for configuring the notification service
type NotificationOption func(*notificationService)

// WithQueueSize bounds the number of pending notifications.
func WithQueueSize(size int) NotificationOption {
	return func(s *notificationService) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSendTimeout caps a single delivery attempt.
func WithSendTimeout(d time.Duration) NotificationOption {
	return func(s *notificationService) {
		if d > 0 {
			s.sendTimeout = d
		}
	}
}

// NewNotificationService creates the service and starts its consumer.
func NewNotificationService(notifier gateways.ChatNotifier, options ...NotificationOption) portssvc.NotificationSvcFacade {
	svc := &notificationService{
		notifier:    notifier,
		sendTimeout: 10 * time.Second,
		queueSize:   32,
		done:        make(chan struct{}),
	}
	for _, option := range options {
		option(svc)
	}
	svc.queue = make(chan notification, svc.queueSize)
	svc.baseCtx, svc.cancel = context.WithCancel(context.Background())

	go svc.consume()
	return svc
}

// Enqueue queues text for background delivery. It never blocks and reports whether the message was accepted.
func (s *notificationService) Enqueue(ctx context.Context, text string) bool {
	if !s.notifier.Configured() {
		s.LogDebug(ctx, "Chat notifier not configured, skipping notification")
		return false
	}

	n := notification{id: uuid.NewString(), text: text}
	n.logger = s.GetLogger(ctx).With(slog.String("notification_id", n.id))

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		n.logger.Warn("Notification rejected, dispatcher is shut down")
		return false
	}
	select {
	case s.queue <- n:
		n.logger.Debug("Notification queued", slog.Int("pending", len(s.queue)))
		return true
	default:
		n.logger.Warn("Notification dropped, queue is full", slog.Int("capacity", s.queueSize))
		return false
	}
}

// Send delivers text synchronously.
func (s *notificationService) Send(ctx context.Context, text string) bool {
	return s.deliver(ctx, s.GetLogger(ctx), text)
}

func (s *notificationService) deliver(ctx context.Context, logger *slog.Logger, text string) bool {
	if !s.notifier.Configured() {
		logger.Warn("Chat credentials missing, notification not sent")
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.notifier.SendMessage(sendCtx, text); err != nil {
		logger.Error("Failed to send notification", slog.String("error", err.Error()))
		return false
	}
	logger.Info("Notification sent")
	return true
}

func (s *notificationService) consume() {
	defer close(s.done)
	for n := range s.queue {
		if s.discard.Load() {
			continue
		}
		s.deliver(s.baseCtx, n.logger, n.text)
	}
}

// Shutdown stops accepting messages, then waits for the queue to drain until ctx is
// done. Whatever is still pending after that is discarded; the count is returned.
func (s *notificationService) Shutdown(ctx context.Context) int {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	logger := s.GetLogger(ctx)
	select {
	case <-s.done:
		logger.Info("Notification queue drained")
		return 0
	case <-ctx.Done():
	}

	pending := len(s.queue)
	s.discard.Store(true)
	s.cancel()
	<-s.done
	logger.Warn("Notification drain timed out, pending messages discarded", slog.Int("discarded", pending))
	return pending
}
