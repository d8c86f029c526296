package pipeline

import (
	"strings"
	"time"

	"github.com/sells-group/chase-cli/internal/model"
)

// Filter is one interactive filter selection. Zero-valued criteria
// match everything, so an unset criterion never narrows the result.
type Filter struct {
	Clients      []string `json:"clients,omitempty"`
	Agents       []string `json:"agents,omitempty"`
	Groups       []string `json:"groups,omitempty"`
	Dispositions []string `json:"dispositions,omitempty"`

	// CaseID is a substring match on the case identifier.
	CaseID string `json:"case_id,omitempty"`

	// Search is a case-insensitive partial match over agent name and
	// client.
	Search string `json:"search,omitempty"`

	// DateField selects which canonical date the From/To range applies
	// to; records without that date are excluded when a range is set.
	DateField model.Field `json:"date_field,omitempty"`
	From      *time.Time  `json:"from,omitempty"`
	To        *time.Time  `json:"to,omitempty"`
}

// Apply returns the records matching every set criterion, preserving
// input order.
func (f Filter) Apply(records []*model.LeadRecord) []*model.LeadRecord {
	out := make([]*model.LeadRecord, 0, len(records))
	for _, rec := range records {
		if f.matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (f Filter) matches(rec *model.LeadRecord) bool {
	if !matchSet(f.Clients, rec.Client) ||
		!matchSet(f.Agents, rec.AgentName) ||
		!matchSet(f.Groups, rec.AgentGroup) ||
		!matchSet(f.Dispositions, rec.Disposition) {
		return false
	}

	if f.CaseID != "" && !strings.Contains(strings.ToLower(rec.CaseID), strings.ToLower(f.CaseID)) {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(rec.AgentName), needle) &&
			!strings.Contains(strings.ToLower(rec.Client), needle) {
			return false
		}
	}

	if f.From != nil || f.To != nil {
		if f.DateField == "" {
			return true
		}
		d, ok := rec.DateOnly(f.DateField)
		if !ok {
			return false
		}
		if f.From != nil && d.Before(*f.From) {
			return false
		}
		if f.To != nil && d.After(*f.To) {
			return false
		}
	}
	return true
}

func matchSet(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
