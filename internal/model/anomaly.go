package model

// RuleID identifies one quality invariant check.
type RuleID string

const (
	RuleCompletedNotAssigned RuleID = "completed_not_assigned"
	RuleCompletedNotApproved RuleID = "completed_not_approved"
	RuleUploadedNotCompleted RuleID = "uploaded_not_completed"
	RuleUploadedNotAssigned  RuleID = "uploaded_not_assigned"
	RuleUploadedNotApproved  RuleID = "uploaded_not_approved"
	RulePendingShipNoUpload  RuleID = "pending_shipment_no_upload"
	RuleStalledDisposition   RuleID = "stalled_disposition"
	RuleApprovedAndDenied    RuleID = "approved_and_denied"
)

// AnomalyRecord ties one LeadRecord to one fired quality rule. It is
// purely derivative and never constructed outside the rule engine.
type AnomalyRecord struct {
	Record *LeadRecord `json:"record"`
	Rule   RuleID      `json:"rule"`
	Detail string      `json:"detail,omitempty"`
}

// QualityReport is the union of all rule outputs plus per-rule counts.
type QualityReport struct {
	Anomalies []AnomalyRecord `json:"anomalies"`
	Counts    map[RuleID]int  `json:"counts"`
}

// ByRule returns the anomalies fired by a single rule.
func (q *QualityReport) ByRule(id RuleID) []AnomalyRecord {
	var out []AnomalyRecord
	for _, a := range q.Anomalies {
		if a.Rule == id {
			out = append(out, a)
		}
	}
	return out
}
