package dashboard

import "ardash/pkg/models"

// NewSummary formats the backend KPIs for display. Values are taken as-is.
func NewSummary(kpi models.KPISummary) Summary {
	return Summary{
		TotalInvoiced:    kpi.TotalInvoiced.StringFixed(2),
		TotalReceived:    kpi.TotalReceived.StringFixed(2),
		TotalOutstanding: kpi.TotalOutstanding.StringFixed(2),
		PercentOverdue:   kpi.PercentOverdue.StringFixed(2) + "%",
	}
}
