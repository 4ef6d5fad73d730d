package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DecisionTag is the top-line verdict of a recommendation.
type DecisionTag string

const (
	DecisionProceed               DecisionTag = "PROCEED"
	DecisionDelay                 DecisionTag = "DELAY"
	DecisionProceedWithConditions DecisionTag = "PROCEED WITH CONDITIONS"
	DecisionUnknown               DecisionTag = "UNKNOWN"
)

// Section headings the final recommendation must contain.
const (
	SectionDecision   = "DECISION:"
	SectionCurrency   = "CURRENCY ANALYSIS:"
	SectionDelivery   = "DELIVERY ESTIMATE:"
	SectionWeather    = "WEATHER CONDITIONS:"
	SectionPolicy     = "POLICY COMPLIANCE:"
	SectionRecommend  = "RECOMMENDATION:"
	SectionRiskFactor = "RISK FACTORS:"
)

// RequiredSections lists the headings expected in every verdict; the policy section is
// only required when a policy document is loaded.
func RequiredSections(policyLoaded bool) []string {
	sections := []string{SectionDecision, SectionCurrency, SectionDelivery, SectionWeather}
	if policyLoaded {
		sections = append(sections, SectionPolicy)
	}
	return append(sections, SectionRecommend, SectionRiskFactor)
}

// MissingSections returns the required headings absent from text.
func MissingSections(text string, policyLoaded bool) []string {
	upper := strings.ToUpper(text)
	var missing []string
	for _, s := range RequiredSections(policyLoaded) {
		if !strings.Contains(upper, s) {
			missing = append(missing, s)
		}
	}
	return missing
}

var decisionLine = regexp.MustCompile(`(?im)^[\s*#>]*DECISION[\s*]*:[\s*\[]*(PROCEED WITH CONDITIONS|PROCEED|DELAY)\b`)

// ParseDecisionTag extracts the verdict from the DECISION line.
func ParseDecisionTag(text string) DecisionTag {
	m := decisionLine.FindStringSubmatch(text)
	if m == nil {
		return DecisionUnknown
	}
	return DecisionTag(strings.ToUpper(m[1]))
}

// DecisionRequest is the input of one agent run.
type DecisionRequest struct {
	Query    string
	Location string
}

// DecisionOutcome is the result of one agent run.
type DecisionOutcome struct {
	RunID     string
	Decision  string
	Tag       DecisionTag
	ToolsUsed []string
	Steps     int
}

// ReportTimestampLayout is the timestamp shown inside a downloaded report.
const ReportTimestampLayout = "2006-01-02 15:04:05"

const reportFileLayout = "20060102_150405"

// DecisionReport is the downloadable rendering of a recommendation.
type DecisionReport struct {
	Query       string
	Location    string
	Decision    string
	GeneratedAt time.Time
}

// Render returns the plain-text report body.
func (r DecisionReport) Render() string {
	return fmt.Sprintf("PROCUREMENT DECISION REPORT\n\nDate: %s\nQuery: %s\nShipping Location: %s\n\n%s\n",
		r.GeneratedAt.Format(ReportTimestampLayout), r.Query, r.Location, r.Decision)
}

// Filename returns procurement_decision_<YYYYMMDD_HHMMSS>.txt.
func (r DecisionReport) Filename() string {
	return "procurement_decision_" + r.GeneratedAt.Format(reportFileLayout) + ".txt"
}

// NotificationText is the message pushed to the chat destination after an analysis.
func NotificationText(req DecisionRequest, decision string) string {
	return fmt.Sprintf("Query: %s\nLocation: %s\n\n%s", req.Query, req.Location, decision)
}
