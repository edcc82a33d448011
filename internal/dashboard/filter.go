package dashboard

import (
	"net/url"
	"strings"

	"ardash/pkg/models"
)

// Query parameter names understood by /invoices and /kpis.
const (
	ParamCustomerID = "customer_id"
	ParamStartDate  = "start_date"
	ParamEndDate    = "end_date"
)

var filterMessages = map[string]string{
	"CustomerID": "Customer must be a numeric id",
	"StartDate":  "Start date must be YYYY-MM-DD",
	"EndDate":    "End date must be YYYY-MM-DD",
}

// FilterForm mirrors the filter inputs: customer selector, date range and the
// free-text search box. Search is applied locally and never sent to the backend.
type FilterForm struct {
	CustomerID string
	StartDate  string
	EndDate    string
	Search     string
}

// Reset clears every input, search included.
func (f *FilterForm) Reset() {
	*f = FilterForm{}
}

// Criteria reads the backend criteria from the form and validates them.
func (f FilterForm) Criteria() (models.FilterCriteria, error) {
	criteria := models.FilterCriteria{
		CustomerID: strings.TrimSpace(f.CustomerID),
		StartDate:  strings.TrimSpace(f.StartDate),
		EndDate:    strings.TrimSpace(f.EndDate),
	}

	if err := validate.Struct(criteria); err != nil {
		fe, ok := firstFieldError(err)
		if !ok {
			return models.FilterCriteria{}, NewValidationError(ErrInvalidFilter, "filter", criteria, err.Error())
		}
		message := filterMessages[fe.Field()]
		return models.FilterCriteria{}, NewValidationError(ErrInvalidFilter, fe.Field(), fe.Value(), message)
	}

	return criteria, nil
}

// BuildQuery encodes criteria as "" or "?k=v&..." in customer, start, end
// order, leaving out empty criteria.
func BuildQuery(criteria models.FilterCriteria) string {
	params := []struct{ key, value string }{
		{ParamCustomerID, criteria.CustomerID},
		{ParamStartDate, criteria.StartDate},
		{ParamEndDate, criteria.EndDate},
	}

	var parts []string
	for _, p := range params {
		if p.value == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}
