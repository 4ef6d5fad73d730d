package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const fullDecision = `DECISION: PROCEED WITH CONDITIONS

CURRENCY ANALYSIS:
- Best Rate: JPY at ₹0.56

DELIVERY ESTIMATE:
- Estimated Days: 14 days

WEATHER CONDITIONS:
- Location: Mumbai

RECOMMENDATION:
Pay in JPY.

RISK FACTORS:
- Monsoon`

// stubForex, stubWeather and stubPolicy are reader facades with canned text.
type stubForex struct{ calls int }

func (s *stubForex) RateReport(context.Context) (*domain.RateReport, error) { return nil, nil }
func (s *stubForex) ForexSummary(context.Context) string {
	s.calls++
	return "FOREX RATES (1 Unit -> INR)"
}

type stubWeather struct{ cities []string }

func (s *stubWeather) Assess(context.Context, string) (*domain.WeatherSnapshot, error) {
	return nil, nil
}
func (s *stubWeather) WeatherSummary(_ context.Context, city string) string {
	s.cities = append(s.cities, city)
	return "Weather in " + city + ": 30°C"
}

type MockPolicyReader struct {
	mock.Mock
}

func (m *MockPolicyReader) Query(ctx context.Context, question string) string {
	return m.Called(ctx, question).String(0)
}

func (m *MockPolicyReader) Status() domain.PolicyStatus {
	return m.Called().Get(0).(domain.PolicyStatus)
}

func (m *MockPolicyReader) Loaded() bool {
	return m.Called().Bool(0)
}

type DecisionServiceTestSuite struct {
	suite.Suite
	forex   *stubForex
	weather *stubWeather
	policy  *MockPolicyReader
	tracer  *recordingTracer
	svc     portssvc.DecisionSvcFacade
	ctx     context.Context
	req     domain.DecisionRequest
}

func (suite *DecisionServiceTestSuite) SetupTest() {
	suite.forex = &stubForex{}
	suite.weather = &stubWeather{}
	suite.policy = new(MockPolicyReader)
	suite.tracer = &recordingTracer{}
	suite.ctx = context.Background()
	suite.req = domain.DecisionRequest{Query: "Buy 100 laptops", Location: "Mumbai"}
}

func (suite *DecisionServiceTestSuite) newService(planner *scriptedPlanner, opts ...services.DecisionOption) *scriptedPlanner {
	base := []services.DecisionOption{
		services.WithTracer(suite.tracer),
		services.WithRunIDGenerator(func() string { return "run-1" }),
	}
	svc := services.NewDecisionService(planner, suite.forex, suite.weather, suite.policy, append(base, opts...)...)
	suite.svc = svc
	return planner
}

func (suite *DecisionServiceTestSuite) TestAnalyze_RunsToolsAndParsesDecision() {
	suite.policy.On("Loaded").Return(false)
	planner := suite.newService(&scriptedPlanner{steps: []*domain.PlanStep{
		{Calls: []domain.ToolCall{call("c1", services.ToolForex, nil)}},
		{Calls: []domain.ToolCall{
			call("c2", services.ToolWeather, map[string]any{"input": "ignored"}),
			call("c3", services.ToolCalculator, map[string]any{"expression": "100 * 0.56"}),
		}},
		{Final: fullDecision},
	}})

	outcome, err := suite.svc.Analyze(suite.ctx, suite.req)

	suite.Require().NoError(err)
	suite.Equal("run-1", outcome.RunID)
	suite.Equal(domain.DecisionProceedWithConditions, outcome.Tag)
	suite.Equal(fullDecision, outcome.Decision)
	suite.Equal([]string{services.ToolForex, services.ToolWeather, services.ToolCalculator}, outcome.ToolsUsed)
	suite.Equal(3, outcome.Steps)
	suite.Equal([]string{"Mumbai"}, suite.weather.cities, "weather is bound to the request location")

	// Conversation: prompt, plan, results, plan, results
	conv := planner.lastConv
	suite.Require().Len(conv.Turns, 5)
	suite.Contains(conv.Turns[0].Text, "Shipping Location: Mumbai")
	suite.Contains(conv.Turns[0].Text, "Skip policy check")
	results := conv.Turns[4].Results
	suite.Require().Len(results, 2)
	suite.Equal("c3", results[1].CallID)
	suite.Equal("Calculation result: 56", results[1].Output)

	suite.NotContains(planner.toolSets[0], services.ToolPolicy)
	suite.Equal([]string{"agent_tool_invoked", "agent_tool_invoked", "agent_tool_invoked", "agent_run_completed"}, suite.tracer.Events())
}

func (suite *DecisionServiceTestSuite) TestAnalyze_OffersPolicyToolWhenLoaded() {
	suite.policy.On("Loaded").Return(true)
	suite.policy.On("Query", suite.ctx, "Is JPY payment allowed?").Return("Yes, with CFO approval.").Once()
	planner := suite.newService(&scriptedPlanner{steps: []*domain.PlanStep{
		{Calls: []domain.ToolCall{call("p1", services.ToolPolicy, map[string]any{"question": "Is JPY payment allowed?"})}},
		{Final: fullDecision},
	}})

	outcome, err := suite.svc.Analyze(suite.ctx, suite.req)

	suite.Require().NoError(err)
	suite.Contains(planner.toolSets[0], services.ToolPolicy)
	suite.Contains(planner.lastConv.Turns[0].Text, domain.SectionPolicy)
	suite.Equal("Yes, with CFO approval.", planner.lastConv.Turns[2].Results[0].Output)
	suite.Equal([]string{services.ToolPolicy}, outcome.ToolsUsed)
	suite.policy.AssertExpectations(suite.T())
}

func (suite *DecisionServiceTestSuite) TestAnalyze_ToolErrorsBecomeText() {
	suite.policy.On("Loaded").Return(false)
	planner := suite.newService(&scriptedPlanner{steps: []*domain.PlanStep{
		{Calls: []domain.ToolCall{
			call("x1", "Stock_Checker", nil),
			call("x2", services.ToolCalculator, map[string]any{"expression": "__import__('os')"}),
			call("x3", services.ToolCalculator, map[string]any{"expr": "10 / 0"}),
		}},
		{Final: "DECISION: DELAY"},
	}})

	outcome, err := suite.svc.Analyze(suite.ctx, suite.req)

	suite.Require().NoError(err)
	suite.Equal(domain.DecisionDelay, outcome.Tag)
	results := planner.lastConv.Turns[2].Results
	suite.Contains(results[0].Output, "Stock_Checker is not a valid tool")
	suite.Contains(results[1].Output, "Calculation error: invalid token")
	suite.Equal("Calculation error: division by zero", results[2].Output)
}

func (suite *DecisionServiceTestSuite) TestAnalyze_ForcesFinalAnswerAtStepLimit() {
	suite.policy.On("Loaded").Return(false)
	loop := &domain.PlanStep{Calls: []domain.ToolCall{call("f", services.ToolForex, nil)}}
	planner := suite.newService(&scriptedPlanner{
		steps:     []*domain.PlanStep{loop, loop, loop, {Final: "DECISION: PROCEED"}},
		afterLast: &domain.PlanStep{Final: "unused"},
	}, services.WithMaxSteps(3))

	outcome, err := suite.svc.Analyze(suite.ctx, suite.req)

	suite.Require().NoError(err)
	suite.Equal(domain.DecisionProceed, outcome.Tag)
	suite.Equal(4, outcome.Steps)
	suite.Equal(3, suite.forex.calls)
	suite.Empty(planner.toolSets[3], "final round offers no tools")
	last := planner.lastConv.Turns[len(planner.lastConv.Turns)-1]
	suite.Equal(domain.RoleUser, last.Role)
}

func (suite *DecisionServiceTestSuite) TestAnalyze_EmptyFinalAnswer() {
	suite.policy.On("Loaded").Return(false)
	suite.newService(&scriptedPlanner{steps: []*domain.PlanStep{{Final: "   "}}})

	outcome, err := suite.svc.Analyze(suite.ctx, suite.req)

	suite.Require().NoError(err)
	suite.Equal("No response generated", outcome.Decision)
	suite.Equal(domain.DecisionUnknown, outcome.Tag)
	suite.Empty(outcome.ToolsUsed)
	suite.NotNil(outcome.ToolsUsed)
}

func (suite *DecisionServiceTestSuite) TestAnalyze_PlannerError() {
	suite.policy.On("Loaded").Return(false)
	suite.newService(&scriptedPlanner{err: errors.New("model overloaded")})

	outcome, err := suite.svc.Analyze(suite.ctx, suite.req)

	suite.Nil(outcome)
	suite.ErrorIs(err, apperrors.ErrPlanner)
	suite.Contains(err.Error(), "model overloaded")
	suite.Equal([]string{"agent_run_failed"}, suite.tracer.Events())
}

func (suite *DecisionServiceTestSuite) TestAnalyze_RequiresQuery() {
	planner := suite.newService(&scriptedPlanner{})

	_, err := suite.svc.Analyze(suite.ctx, domain.DecisionRequest{Query: "  ", Location: "Pune"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Zero(planner.calls)
}

func TestDecisionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DecisionServiceTestSuite))
}
