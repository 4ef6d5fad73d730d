package domain

import (
	"fmt"
	"strings"
)

// ToolParam describes one string argument of a tool.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
}

// ToolSpec is the typed contract a planner sees for a callable capability.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

// ToolCall is one invocation chosen by the planner.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// StringArg returns the named argument as text. Planners sometimes send numbers or
// nested values, so anything that is not a string is formatted.
func (c ToolCall) StringArg(name string) string {
	v, ok := c.Args[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

// ToolResult is the textual output of a tool invocation.
type ToolResult struct {
	CallID string
	Name   string
	Output string
}

// PlanStep is one planner round: either tool invocations to run in order, or a final answer.
type PlanStep struct {
	Calls []ToolCall
	Final string
	// Raw carries provider-specific assistant content so the next round can replay it verbatim.
	Raw any
}

// Done reports whether the planner produced a final answer.
func (s *PlanStep) Done() bool {
	return len(s.Calls) == 0
}

// TurnRole identifies the speaker of a conversation turn.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
	RoleTool      TurnRole = "tool"
)

// Turn is one entry in the request-scoped agent memory.
type Turn struct {
	Role    TurnRole
	Text    string
	Calls   []ToolCall
	Results []ToolResult
	Raw     any
}

// Conversation is the ephemeral memory buffer of one agent run. It is never shared
// across requests.
type Conversation struct {
	System string
	Turns  []Turn
}

// NewConversation starts a conversation with a system instruction and the user prompt.
func NewConversation(system, prompt string) *Conversation {
	return &Conversation{
		System: system,
		Turns:  []Turn{{Role: RoleUser, Text: prompt}},
	}
}

// AddPlan records the planner's tool invocations.
func (c *Conversation) AddPlan(step *PlanStep) {
	c.Turns = append(c.Turns, Turn{Role: RoleAssistant, Text: step.Final, Calls: step.Calls, Raw: step.Raw})
}

// AddResults records tool outputs for the preceding invocations.
func (c *Conversation) AddResults(results []ToolResult) {
	c.Turns = append(c.Turns, Turn{Role: RoleTool, Results: results})
}

// AddUser appends a user instruction.
func (c *Conversation) AddUser(text string) {
	c.Turns = append(c.Turns, Turn{Role: RoleUser, Text: text})
}
