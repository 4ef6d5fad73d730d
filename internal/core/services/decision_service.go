package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/SscSPs/procurement_agent/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/utils/arith"
	"github.com/google/uuid"
)

// Tool names offered to the planner.
const (
	ToolForex      = "Multi_Currency_Forex_Checker"
	ToolWeather    = "Weather_Checker"
	ToolCalculator = "Calculator"
	ToolPolicy     = "Policy_Checker"
)

const (
	noResponseText = "No response generated"

	forceFinalInstruction = "You have reached the tool-call limit. Using only the information gathered so far, " +
		"give your final answer now in the required structure without calling any more tools."

	agentSystemInstruction = "You are a Procurement Intelligence Agent analyzing international procurement decisions. " +
		"Gather facts with the available tools before deciding. Never invent exchange rates, weather readings or policy rules; " +
		"quote the numbers the tools return."
)

// decisionService implements the DecisionSvcFacade interface. Each Analyze call owns
// its conversation; nothing is shared between runs.
type decisionService struct {
	BaseService
	planner  gateways.Planner
	forex    portssvc.ForexReaderSvc
	weather  portssvc.WeatherReaderSvc
	policy   portssvc.PolicyReaderSvc
	tracer   gateways.Tracer
	maxSteps int
	newRunID func() string
}

// DecisionOption is a functional option for configuring the decision service
type DecisionOption func(*decisionService)

// WithTracer records tool invocations and run outcomes.
func WithTracer(t gateways.Tracer) DecisionOption {
	return func(s *decisionService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMaxSteps bounds the planning rounds before a final answer is forced.
func WithMaxSteps(n int) DecisionOption {
	return func(s *decisionService) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// WithRunIDGenerator overrides how run ids are created.
func WithRunIDGenerator(gen func() string) DecisionOption {
	return func(s *decisionService) {
		s.newRunID = gen
	}
}

// NewDecisionService creates a new decision service with the provided options
func NewDecisionService(
	planner gateways.Planner,
	forex portssvc.ForexReaderSvc,
	weather portssvc.WeatherReaderSvc,
	policy portssvc.PolicyReaderSvc,
	options ...DecisionOption,
) portssvc.DecisionSvcFacade {
	svc := &decisionService{
		planner:  planner,
		forex:    forex,
		weather:  weather,
		policy:   policy,
		tracer:   noopTracer{},
		maxSteps: 15,
		newRunID: uuid.NewString,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

type noopTracer struct{}

func (noopTracer) Enqueue(string, string, map[string]any) {}

// Analyze runs the planning agent for one request and returns its verdict.
func (s *decisionService) Analyze(ctx context.Context, req domain.DecisionRequest) (*domain.DecisionOutcome, error) {
	req.Query = strings.TrimSpace(req.Query)
	req.Location = strings.TrimSpace(req.Location)
	if req.Query == "" {
		return nil, fmt.Errorf("%w: query is required", apperrors.ErrValidation)
	}

	runID := s.newRunID()
	logger := s.GetLogger(ctx).With(slog.String("run_id", runID))
	policyLoaded := s.policy.Loaded()
	tools := toolSpecs(req.Location, policyLoaded)
	conv := domain.NewConversation(agentSystemInstruction, buildAgentPrompt(req, policyLoaded))

	run := &agentRun{runID: runID, req: req, logger: logger}
	logger.Info("Agent run started", slog.Bool("policy_loaded", policyLoaded), slog.Int("tools", len(tools)))

	var final *domain.PlanStep
	for step := 1; step <= s.maxSteps; step++ {
		plan, err := s.planner.Plan(ctx, conv, tools)
		run.steps = step
		if err != nil {
			return nil, s.failRun(run, err)
		}
		if plan.Done() {
			final = plan
			break
		}

		conv.AddPlan(plan)
		results := make([]domain.ToolResult, 0, len(plan.Calls))
		for _, call := range plan.Calls {
			results = append(results, s.invoke(ctx, run, call))
		}
		conv.AddResults(results)
	}

	if final == nil {
		logger.Warn("Planning step limit reached, forcing a final answer", slog.Int("max_steps", s.maxSteps))
		conv.AddUser(forceFinalInstruction)
		plan, err := s.planner.Plan(ctx, conv, nil)
		run.steps++
		if err != nil {
			return nil, s.failRun(run, err)
		}
		if !plan.Done() && strings.TrimSpace(plan.Final) == "" {
			return nil, s.failRun(run, errors.New("planner kept requesting tools after the step limit"))
		}
		final = plan
	}

	decision := strings.TrimSpace(final.Final)
	if decision == "" {
		decision = noResponseText
	}
	tag := domain.ParseDecisionTag(decision)
	if missing := domain.MissingSections(decision, policyLoaded); len(missing) > 0 {
		logger.Warn("Decision is missing expected sections", slog.Any("missing", missing))
	}

	outcome := &domain.DecisionOutcome{
		RunID:     runID,
		Decision:  decision,
		Tag:       tag,
		ToolsUsed: run.toolsUsed(),
		Steps:     run.steps,
	}
	s.tracer.Enqueue(runID, "agent_run_completed", map[string]any{
		"decision_tag":  string(tag),
		"steps":         outcome.Steps,
		"tools_used":    outcome.ToolsUsed,
		"policy_loaded": policyLoaded,
	})
	logger.Info("Agent run completed", slog.String("decision_tag", string(tag)), slog.Int("steps", outcome.Steps))
	return outcome, nil
}

// failRun logs and traces the aborted run and wraps err as a planner failure.
func (s *decisionService) failRun(run *agentRun, err error) error {
	run.logger.Error("Agent run failed", slog.String("error", err.Error()), slog.Int("steps", run.steps))
	s.tracer.Enqueue(run.runID, "agent_run_failed", map[string]any{
		"steps": run.steps,
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %w", apperrors.ErrPlanner, err)
}

// invoke runs one tool. Tool failures are returned as text so the planner can react.
func (s *decisionService) invoke(ctx context.Context, run *agentRun, call domain.ToolCall) domain.ToolResult {
	var output string
	switch call.Name {
	case ToolForex:
		output = s.forex.ForexSummary(ctx)
	case ToolWeather:
		output = s.weather.WeatherSummary(ctx, run.req.Location)
	case ToolCalculator:
		output = calculate(toolInput(call, "expression"))
	case ToolPolicy:
		output = s.policy.Query(ctx, toolInput(call, "question"))
	default:
		output = fmt.Sprintf("%s is not a valid tool, try one of [%s].", call.Name,
			strings.Join([]string{ToolForex, ToolWeather, ToolCalculator, ToolPolicy}, ", "))
	}

	run.record(call.Name)
	run.logger.Debug("Tool invoked", slog.String("tool", call.Name), slog.Int("output_chars", len(output)))
	s.tracer.Enqueue(run.runID, "agent_tool_invoked", map[string]any{
		"tool":         call.Name,
		"step":         run.steps,
		"output_chars": len(output),
	})
	return domain.ToolResult{CallID: call.ID, Name: call.Name, Output: output}
}

func calculate(expression string) string {
	result, err := arith.EvaluateString(expression)
	if err != nil {
		return fmt.Sprintf("Calculation error: %s", err)
	}
	return fmt.Sprintf("Calculation result: %s", result)
}

// toolInput reads the named argument, falling back to the only argument supplied
// when the planner used a different key.
func toolInput(call domain.ToolCall, name string) string {
	if v := call.StringArg(name); v != "" {
		return v
	}
	if len(call.Args) != 1 {
		return ""
	}
	keys := make([]string, 0, 1)
	for k := range call.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return call.StringArg(keys[0])
}

type agentRun struct {
	runID  string
	req    domain.DecisionRequest
	logger *slog.Logger
	steps  int
	used   []string
	seen   map[string]bool
}

func (r *agentRun) record(tool string) {
	if r.seen == nil {
		r.seen = make(map[string]bool)
	}
	if !r.seen[tool] {
		r.seen[tool] = true
		r.used = append(r.used, tool)
	}
}

func (r *agentRun) toolsUsed() []string {
	if r.used == nil {
		return []string{}
	}
	return r.used
}

func toolSpecs(location string, policyLoaded bool) []domain.ToolSpec {
	tools := []domain.ToolSpec{
		{
			Name:        ToolForex,
			Description: "Get current forex rates for USD, EUR, GBP, JPY, AUD, CAD, CHF against INR. Identifies the best currency rate.",
		},
		{
			Name:        ToolWeather,
			Description: fmt.Sprintf("Get current weather conditions for %s to assess shipping viability.", location),
		},
		{
			Name:        ToolCalculator,
			Description: "Perform mathematical calculations for cost analysis and delivery estimates. Supports numbers, + - * / and parentheses.",
			Params: []domain.ToolParam{
				{Name: "expression", Description: "Arithmetic expression, for example (1000 * 83.2) / 7", Required: true},
			},
		},
	}
	if policyLoaded {
		tools = append(tools, domain.ToolSpec{
			Name:        ToolPolicy,
			Description: "Check procurement policy compliance and requirements.",
			Params: []domain.ToolParam{
				{Name: "question", Description: "Question about the procurement policy", Required: true},
			},
		})
	}
	return tools
}

func buildAgentPrompt(req domain.DecisionRequest, policyLoaded bool) string {
	policyStep := "Skip policy check"
	policySection := ""
	if policyLoaded {
		policyStep = "Check procurement policy compliance using " + ToolPolicy
		policySection = "\n" + domain.SectionPolicy + "\n- Status: [compliant/non-compliant]\n- Notes: [any requirements]\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %q\nShipping Location: %s\n\n", req.Query, req.Location)
	b.WriteString("Follow these steps:\n")
	fmt.Fprintf(&b, "1. Check ALL currency exchange rates using %s\n", ToolForex)
	b.WriteString("2. Identify which currency offers the BEST (lowest) rate against INR\n")
	fmt.Fprintf(&b, "3. Check weather conditions for %s using %s\n", req.Location, ToolWeather)
	fmt.Fprintf(&b, "4. %s\n", policyStep)
	b.WriteString("5. Calculate estimated delivery timeline based on:\n")
	b.WriteString("   - Best currency rate advantage\n")
	b.WriteString("   - Weather conditions impact\n")
	b.WriteString("   - Standard international shipping times (7-21 days depending on currency region)\n")
	fmt.Fprintf(&b, "   - Use %s for any cost computations\n", ToolCalculator)
	b.WriteString("6. Write the final answer in the structure below.\n\n")

	fmt.Fprintf(&b, "%s [PROCEED/DELAY/PROCEED WITH CONDITIONS]\n\n", domain.SectionDecision)
	fmt.Fprintf(&b, "%s\n- Best Rate: [currency and rate]\n- Cost Advantage: [percentage or amount saved compared to USD]\n- Recommended Payment Currency: [currency]\n\n", domain.SectionCurrency)
	fmt.Fprintf(&b, "%s\n- Estimated Days: [number] days\n- Based on: [currency advantage + weather + region]\n\n", domain.SectionDelivery)
	fmt.Fprintf(&b, "%s\n- Location: %s\n- Impact: [summary]\n", domain.SectionWeather, req.Location)
	b.WriteString(policySection)
	fmt.Fprintf(&b, "\n%s\n[Detailed explanation with specific numbers]\n\n", domain.SectionRecommend)
	fmt.Fprintf(&b, "%s\n[List any concerns]\n", domain.SectionRiskFactor)
	return b.String()
}
