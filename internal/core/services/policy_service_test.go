package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const policyText = `Payment terms: payment is due within 30 days of invoice. Advance payment needs CFO approval.

Supplier rules: every supplier must be ISO 9001 certified. A new supplier needs two references.

Shipping: shipping by sea is preferred for orders above 10 tonnes. Shipping insurance is mandatory.

Warranty: hardware must carry a warranty of at least 12 months.`

const revisedPolicyText = `Shipping: all shipments travel by air freight. Shipping documents go to the logistics desk.

Warranty: spare parts carry a warranty of 6 months.`

type PolicyServiceTestSuite struct {
	suite.Suite
	reader    *MockDocumentReader
	embedder  *keywordEmbedder
	generator *MockTextGenerator
	service   portssvc.PolicySvcFacade
	ctx       context.Context
	loadedAt  time.Time
}

func (suite *PolicyServiceTestSuite) SetupTest() {
	suite.reader = new(MockDocumentReader)
	suite.embedder = newKeywordEmbedder()
	suite.generator = new(MockTextGenerator)
	suite.ctx = context.Background()
	suite.loadedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	suite.service = suite.newService()
}

func (suite *PolicyServiceTestSuite) newService(opts ...services.PolicyOption) portssvc.PolicySvcFacade {
	base := []services.PolicyOption{
		services.WithChunking(120, 0),
		services.WithTopK(1),
		services.WithEmbedBatching(2, 2),
		services.WithPolicyClock(func() time.Time { return suite.loadedAt }),
	}
	return services.NewPolicyService(suite.reader, suite.embedder, suite.generator, append(base, opts...)...)
}

func (suite *PolicyServiceTestSuite) TestQuery_NotLoaded() {
	suite.False(suite.service.Loaded())
	suite.Equal(domain.PolicyNotLoadedMessage, suite.service.Query(suite.ctx, "Is advance payment allowed?"))
	suite.Equal(domain.PolicyStatus{}, suite.service.Status())
	suite.generator.AssertNotCalled(suite.T(), "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PolicyServiceTestSuite) TestLoadDocument_ThenQueryUsesMostSimilarChunk() {
	suite.reader.On("ReadText", suite.ctx, "/tmp/policy.pdf").Return(policyText, nil).Once()

	status, err := suite.service.LoadDocument(suite.ctx, "/tmp/policy.pdf", "policy.pdf")
	suite.Require().NoError(err)
	suite.True(status.Loaded)
	suite.Equal("policy.pdf", status.DocumentName)
	suite.Equal(4, status.ChunkCount)
	suite.Equal(suite.loadedAt, *status.LoadedAt)
	suite.Equal(2, suite.embedder.calls, "4 chunks in batches of 2")

	suite.generator.On("Generate", suite.ctx, "", mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "ISO 9001") &&
			!strings.Contains(prompt, "30 days") &&
			strings.Contains(prompt, "Question: Which supplier certification is required?")
	})).Return("  Suppliers must hold ISO 9001.  ", nil).Once()

	answer := suite.service.Query(suite.ctx, "Which supplier certification is required?")

	suite.Equal("Suppliers must hold ISO 9001.", answer)
	suite.True(suite.service.Loaded())
	suite.generator.AssertExpectations(suite.T())
}

func (suite *PolicyServiceTestSuite) TestQuery_FailureBecomesText() {
	suite.reader.On("ReadText", suite.ctx, "p.pdf").Return(policyText, nil).Once()
	_, err := suite.service.LoadDocument(suite.ctx, "p.pdf", "p.pdf")
	suite.Require().NoError(err)

	suite.generator.On("Generate", suite.ctx, "", mock.Anything).Return("", errors.New("quota exhausted")).Once()

	suite.Equal("Policy query failed: quota exhausted", suite.service.Query(suite.ctx, "warranty period?"))
	suite.True(strings.HasPrefix(suite.service.Query(suite.ctx, "  "), "Policy query failed:"))
}

func (suite *PolicyServiceTestSuite) TestLoadDocument_FailureKeepsPreviousIndex() {
	suite.reader.On("ReadText", suite.ctx, "good.pdf").Return(policyText, nil).Once()
	_, err := suite.service.LoadDocument(suite.ctx, "good.pdf", "good.pdf")
	suite.Require().NoError(err)

	suite.reader.On("ReadText", suite.ctx, "bad.pdf").
		Return("", fmt.Errorf("%w: not a pdf", apperrors.ErrUnsupportedFormat)).Once()
	_, err = suite.service.LoadDocument(suite.ctx, "bad.pdf", "bad.pdf")

	suite.ErrorIs(err, apperrors.ErrUnsupportedFormat)
	suite.True(suite.service.Loaded())
	suite.Equal("good.pdf", suite.service.Status().DocumentName)
}

func (suite *PolicyServiceTestSuite) TestLoadDocument_FailureClearsWhenConfigured() {
	svc := suite.newService(services.WithClearOnFailedUpload(true))
	suite.reader.On("ReadText", suite.ctx, "good.pdf").Return(policyText, nil).Once()
	_, err := svc.LoadDocument(suite.ctx, "good.pdf", "good.pdf")
	suite.Require().NoError(err)

	suite.reader.On("ReadText", suite.ctx, "empty.pdf").Return("  \n\n ", nil).Once()
	_, err = svc.LoadDocument(suite.ctx, "empty.pdf", "empty.pdf")

	suite.ErrorIs(err, apperrors.ErrIngestion)
	suite.False(svc.Loaded())
	suite.Equal(domain.PolicyNotLoadedMessage, svc.Query(suite.ctx, "payment?"))
}

func (suite *PolicyServiceTestSuite) TestLoadDocument_EmbeddingFailure() {
	suite.embedder.fail(errors.New("embedding quota"))
	suite.reader.On("ReadText", suite.ctx, "p.pdf").Return(policyText, nil).Once()

	status, err := suite.service.LoadDocument(suite.ctx, "p.pdf", "p.pdf")

	suite.Nil(status)
	suite.ErrorIs(err, apperrors.ErrIngestion)
	suite.Contains(err.Error(), "embedding quota")
	suite.False(suite.service.Loaded())
}

func (suite *PolicyServiceTestSuite) TestLoadDocument_SecondUploadReplacesFirst() {
	svc := suite.newService(services.WithTopK(3))
	suite.reader.On("ReadText", suite.ctx, "a.pdf").Return(policyText, nil).Once()
	suite.reader.On("ReadText", suite.ctx, "b.pdf").Return(revisedPolicyText, nil).Once()

	_, err := svc.LoadDocument(suite.ctx, "a.pdf", "policy-2024.pdf")
	suite.Require().NoError(err)
	suite.Equal(4, svc.Status().ChunkCount)

	status, err := svc.LoadDocument(suite.ctx, "b.pdf", "policy-2025.pdf")
	suite.Require().NoError(err)
	suite.Equal("policy-2025.pdf", status.DocumentName)
	suite.Equal(2, status.ChunkCount)
	suite.Equal(status.DocumentName, svc.Status().DocumentName)
	suite.Equal(2, svc.Status().ChunkCount)

	var prompt string
	suite.generator.On("Generate", suite.ctx, "", mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(2) }).
		Return("Ship by air freight.", nil).Once()

	suite.Equal("Ship by air freight.", svc.Query(suite.ctx, "How should shipping and warranty work?"))
	suite.Contains(prompt, "air freight")
	suite.Contains(prompt, "6 months")
	for _, old := range []string{"by sea", "ISO 9001", "30 days", "12 months"} {
		suite.NotContains(prompt, old)
	}
	suite.generator.AssertExpectations(suite.T())
}

func (suite *PolicyServiceTestSuite) TestConcurrentQueriesDuringReload() {
	suite.reader.On("ReadText", suite.ctx, "p.pdf").Return(policyText, nil)
	suite.generator.On("Generate", suite.ctx, "", mock.Anything).Return("ok", nil)
	_, err := suite.service.LoadDocument(suite.ctx, "p.pdf", "p.pdf")
	suite.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = suite.service.LoadDocument(suite.ctx, "p.pdf", "p.pdf")
		}()
		go func() {
			defer wg.Done()
			suite.Equal("ok", suite.service.Query(suite.ctx, "shipping insurance?"))
		}()
	}
	wg.Wait()

	suite.Equal(4, suite.service.Status().ChunkCount)
}

func TestPolicyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PolicyServiceTestSuite))
}
