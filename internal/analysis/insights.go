package analysis

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Insight thresholds.
const (
	highRiskThreshold      = 0.7
	mediumRiskThreshold    = 0.4
	sentimentThreshold     = 0.3
	lowConfidenceThreshold = 0.5
	maxInsightFindings     = 3
	maxInsightOrgs         = 3
)

// insights renders the ordered summary lines for a result. It reads only
// the result's fields, so equal results yield equal insights.
func insights(r *AnalysisResult) []string {
	p := message.NewPrinter(language.English)
	var lines []string

	switch {
	case r.RiskScore > highRiskThreshold:
		lines = append(lines, fmt.Sprintf("High risk profile (risk score %.2f)", r.RiskScore))
	case r.RiskScore > mediumRiskThreshold:
		lines = append(lines, fmt.Sprintf("Moderate risk profile (risk score %.2f)", r.RiskScore))
	default:
		lines = append(lines, fmt.Sprintf("Low risk profile (risk score %.2f)", r.RiskScore))
	}

	switch {
	case r.SentimentScore <= -sentimentThreshold:
		lines = append(lines, fmt.Sprintf("Predominantly negative financial sentiment (%.2f)", r.SentimentScore))
	case r.SentimentScore >= sentimentThreshold:
		lines = append(lines, fmt.Sprintf("Predominantly positive financial sentiment (%.2f)", r.SentimentScore))
	}

	var orgs []string
	var total float64
	var monetary, dates int
	for _, ent := range r.Entities {
		switch ent.Kind {
		case KindOrg:
			if len(orgs) < maxInsightOrgs && !slices.Contains(orgs, ent.Value) {
				orgs = append(orgs, ent.Value)
			}
		case KindMoney:
			if ent.NormalizedValue != nil {
				total += *ent.NormalizedValue
				monetary++
			}
		case KindDate:
			dates++
		}
	}

	if len(orgs) > 0 {
		lines = append(lines, fmt.Sprintf("Organizations referenced: %s", strings.Join(orgs, ", ")))
	}
	if monetary > 0 {
		lines = append(lines, p.Sprintf("Total monetary value: $%.2f across %d figure(s)", total, monetary))
	}
	if dates > 0 {
		lines = append(lines, fmt.Sprintf("Document contains %d date reference(s)", dates))
	}

	for i, f := range r.Anomalies {
		if i == maxInsightFindings {
			break
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(string(f.Severity)), f.Description))
	}

	var serious int
	for _, f := range r.Anomalies {
		if f.Severity.Rank() >= SeverityHigh.Rank() {
			serious++
		}
	}
	if serious > 0 {
		lines = append(lines, fmt.Sprintf("%d high-severity issue(s) require immediate attention", serious))
	}

	if r.ConfidenceScore < lowConfidenceThreshold {
		lines = append(lines, fmt.Sprintf("Limited signal available (confidence %.2f)", r.ConfidenceScore))
	}

	return lines
}

func formatAmount(v float64) string {
	return message.NewPrinter(language.English).Sprintf("$%.2f", v)
}
