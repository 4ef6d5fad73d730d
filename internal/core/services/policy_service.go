package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/SscSPs/procurement_agent/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/utils/textsplit"
	"github.com/panjf2000/ants/v2"
)

const policyQAPrompt = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful Answer:`

// policyService implements the PolicySvcFacade interface. It owns the single live
// policy index; a new index is fully built before it replaces the old one.
type policyService struct {
	BaseService
	reader    gateways.DocumentReader
	embedder  gateways.Embedder
	generator gateways.TextGenerator

	splitter       *textsplit.Splitter
	topK           int
	batchSize      int
	workers        int
	clearOnFailure bool
	now            func() time.Time

	mu    sync.RWMutex
	index *domain.PolicyIndex
}

// PolicyOption is a functional option for configuring the policy service
type PolicyOption func(*policyService)

// WithChunking sets the splitter chunk size and overlap, in characters.
func WithChunking(size, overlap int) PolicyOption {
	return func(s *policyService) {
		s.splitter = textsplit.New(size, overlap)
	}
}

// WithTopK sets how many chunks are stuffed into the answering prompt.
func WithTopK(k int) PolicyOption {
	return func(s *policyService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithEmbedBatching sets the number of chunks per embedding call and how many calls run at once.
func WithEmbedBatching(batchSize, workers int) PolicyOption {
	return func(s *policyService) {
		if batchSize > 0 {
			s.batchSize = batchSize
		}
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithClearOnFailedUpload makes a failed ingestion unload the previous index.
func WithClearOnFailedUpload(clear bool) PolicyOption {
	return func(s *policyService) {
		s.clearOnFailure = clear
	}
}

// WithPolicyClock overrides the clock used for LoadedAt.
func WithPolicyClock(now func() time.Time) PolicyOption {
	return func(s *policyService) {
		s.now = now
	}
}

// NewPolicyService creates a new policy service with the provided options
func NewPolicyService(reader gateways.DocumentReader, embedder gateways.Embedder, generator gateways.TextGenerator, options ...PolicyOption) portssvc.PolicySvcFacade {
	svc := &policyService{
		reader:    reader,
		embedder:  embedder,
		generator: generator,
		splitter:  textsplit.New(1000, 200),
		topK:      3,
		batchSize: 50,
		workers:   4,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// LoadDocument ingests the PDF at path and, on success, replaces the live index.
func (s *policyService) LoadDocument(ctx context.Context, path, name string) (*domain.PolicyStatus, error) {
	logger := s.GetLogger(ctx).With(slog.String("document", name))

	text, err := s.reader.ReadText(ctx, path)
	if err != nil {
		return nil, s.failIngestion(ctx, err)
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, s.failIngestion(ctx, fmt.Errorf("%w: document contains no extractable text", apperrors.ErrIngestion))
	}

	vectors, err := s.embedAll(ctx, chunks)
	if err != nil {
		return nil, s.failIngestion(ctx, fmt.Errorf("%w: %w", apperrors.ErrIngestion, err))
	}

	index := &domain.PolicyIndex{
		DocumentName: name,
		Chunks:       make([]domain.PolicyChunk, len(chunks)),
		LoadedAt:     s.now(),
	}
	for i, c := range chunks {
		index.Chunks[i] = domain.PolicyChunk{Index: i, Text: c, Vector: vectors[i]}
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	logger.Info("Policy document loaded", slog.Int("chunks", len(chunks)))
	status := statusOf(index)
	return &status, nil
}

// failIngestion applies the configured failure policy and returns err unchanged.
func (s *policyService) failIngestion(ctx context.Context, err error) error {
	if s.clearOnFailure {
		s.mu.Lock()
		s.index = nil
		s.mu.Unlock()
		s.LogError(ctx, err, "Policy ingestion failed, previous index cleared")
		return err
	}
	s.LogError(ctx, err, "Policy ingestion failed, previous index kept", slog.Bool("policy_loaded", s.Loaded()))
	return err
}

// embedAll embeds chunks in batches on a bounded worker pool, preserving order.
func (s *policyService) embedAll(ctx context.Context, chunks []string) ([][]float32, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create embedding pool: %w", err)
	}
	defer pool.Release()

	vectors := make([][]float32, len(chunks))
	batches := (len(chunks) + s.batchSize - 1) / s.batchSize
	errCh := make(chan error, batches)
	var wg sync.WaitGroup

	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errCh <- err
				return
			}
			batch, err := s.embedder.EmbedDocuments(ctx, chunks[start:end])
			if err != nil {
				errCh <- fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
				return
			}
			if len(batch) != end-start {
				errCh <- fmt.Errorf("embed chunks %d-%d: got %d vectors", start, end-1, len(batch))
				return
			}
			copy(vectors[start:end], batch)
		})
		if err != nil {
			wg.Done()
			errCh <- fmt.Errorf("submit embedding task: %w", err)
		}
	}

	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}
	return vectors, nil
}

// Query answers question from the live index. It never fails; problems come back as text.
func (s *policyService) Query(ctx context.Context, question string) string {
	index := s.current()
	if index == nil {
		return domain.PolicyNotLoadedMessage
	}

	answer, err := s.answer(ctx, index, question)
	if err != nil {
		s.LogError(ctx, err, "Policy query failed")
		return fmt.Sprintf("Policy query failed: %s", err)
	}
	return answer
}

func (s *policyService) answer(ctx context.Context, index *domain.PolicyIndex, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", apperrors.ErrValidation)
	}

	vector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return "", err
	}

	hits := index.TopK(vector, s.topK)
	passages := make([]string, 0, len(hits))
	for _, h := range hits {
		passages = append(passages, h.Text)
	}

	answer, err := s.generator.Generate(ctx, "", fmt.Sprintf(policyQAPrompt, strings.Join(passages, "\n\n"), question))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func (s *policyService) current() *domain.PolicyIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Loaded reports whether a policy index is live.
func (s *policyService) Loaded() bool {
	return s.current() != nil
}

// Status describes the live index.
func (s *policyService) Status() domain.PolicyStatus {
	return statusOf(s.current())
}

func statusOf(index *domain.PolicyIndex) domain.PolicyStatus {
	if index == nil {
		return domain.PolicyStatus{}
	}
	loadedAt := index.LoadedAt
	return domain.PolicyStatus{
		Loaded:       true,
		DocumentName: index.DocumentName,
		ChunkCount:   len(index.Chunks),
		LoadedAt:     &loadedAt,
	}
}
