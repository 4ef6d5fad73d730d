package gemini

import (
	"context"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"google.golang.org/genai"
)

// Plan asks the model for the next step. Function calls in the reply become tool
// invocations, otherwise the reply text is the final answer.
func (c *Client) Plan(ctx context.Context, conv *domain.Conversation, tools []domain.ToolSpec) (*domain.PlanStep, error) {
	config := &genai.GenerateContentConfig{Temperature: c.temperature}
	if conv.System != "" {
		config.SystemInstruction = genai.NewContentFromText(conv.System, genai.RoleUser)
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: functionDeclarations(tools)}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, toContents(conv), config)
	if err != nil {
		return nil, classify(err)
	}
	return planStep(resp), nil
}

func functionDeclarations(tools []domain.ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		schema := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
		for _, p := range t.Params {
			schema.Properties[p.Name] = &genai.Schema{Type: genai.TypeString, Description: p.Description}
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return decls
}

func toContents(conv *domain.Conversation) []*genai.Content {
	contents := make([]*genai.Content, 0, len(conv.Turns))
	for _, turn := range conv.Turns {
		switch turn.Role {
		case domain.RoleUser:
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleUser))
		case domain.RoleAssistant:
			// Replaying the model's own content keeps any thought signatures intact.
			if raw, ok := turn.Raw.(*genai.Content); ok && raw != nil {
				contents = append(contents, raw)
				continue
			}
			var parts []*genai.Part
			if turn.Text != "" {
				parts = append(parts, genai.NewPartFromText(turn.Text))
			}
			for _, call := range turn.Calls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: call.ID, Name: call.Name, Args: call.Args}})
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
		case domain.RoleTool:
			parts := make([]*genai.Part, 0, len(turn.Results))
			for _, r := range turn.Results {
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       r.CallID,
					Name:     r.Name,
					Response: map[string]any{"output": r.Output},
				}})
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
		}
	}
	return contents
}

func planStep(resp *genai.GenerateContentResponse) *domain.PlanStep {
	step := &domain.PlanStep{}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		step.Raw = resp.Candidates[0].Content
	}

	// Gemini API calls may carry no id; results are matched back by name and order.
	for _, fc := range resp.FunctionCalls() {
		step.Calls = append(step.Calls, domain.ToolCall{ID: fc.ID, Name: fc.Name, Args: fc.Args})
	}
	if len(step.Calls) == 0 {
		step.Final = resp.Text()
	}
	return step
}
