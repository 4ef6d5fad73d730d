package dto

import "github.com/SscSPs/procurement_agent/internal/core/domain"

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Query string `json:"query" example:"Buy 500 laptops from an overseas vendor"`
	City  string `json:"city" example:"Mumbai"`
}

// AnalyzeResponse is returned when the agent produced a verdict.
type AnalyzeResponse struct {
	Success      bool     `json:"success"`
	Decision     string   `json:"decision"`
	DecisionTag  string   `json:"decision_tag"`
	ToolsUsed    []string `json:"tools_used"`
	TelegramSent bool     `json:"telegram_sent"`
}

// ToAnalyzeResponse converts an agent outcome to its response body.
func ToAnalyzeResponse(outcome *domain.DecisionOutcome, telegramSent bool) AnalyzeResponse {
	tools := outcome.ToolsUsed
	if tools == nil {
		tools = []string{}
	}
	return AnalyzeResponse{
		Success:      true,
		Decision:     outcome.Decision,
		DecisionTag:  string(outcome.Tag),
		ToolsUsed:    tools,
		TelegramSent: telegramSent,
	}
}

// RealtimeRequest is the body of POST /get_realtime_data.
type RealtimeRequest struct {
	City string `json:"city" example:"Chennai"`
}

// RealtimeResponse carries the formatted forex and weather reports.
type RealtimeResponse struct {
	Forex        string `json:"forex"`
	Weather      string `json:"weather"`
	PolicyLoaded bool   `json:"policy_loaded"`
}

// ReportRequest is the body of POST /download_report.
type ReportRequest struct {
	Query    string `json:"query"`
	Decision string `json:"decision"`
	City     string `json:"city"`
}

// UploadResponse is returned by POST /upload_pdf.
type UploadResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	PolicyLoaded bool   `json:"policy_loaded"`
	Document     string `json:"document,omitempty"`
	Chunks       int    `json:"chunks,omitempty"`
}

// ErrorResponse is the failure body shared by the JSON endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
