// Package model defines the canonical data types shared across the lead
// analytics pipeline: schema fields, lead records, anomaly reports, and
// reconciliation results.
package model

// Field is a logical schema attribute the pipeline understands,
// independent of how it is spelled in any given source export.
type Field string

const (
	FieldCreatedTime    Field = "created_time"
	FieldAssignedDate   Field = "assigned_date"
	FieldApprovalDate   Field = "approval_date"
	FieldDenialDate     Field = "denial_date"
	FieldCompletionDate Field = "completion_date"
	FieldUploadDate     Field = "upload_date"
	FieldSaleDate       Field = "sale_date"
	FieldModifiedTime   Field = "modified_time"
	FieldAgent          Field = "agent"
	FieldClient         Field = "client"
	FieldProduct        Field = "product"
	FieldCaseID         Field = "case_id"
	FieldDisposition    Field = "disposition"
	FieldComments       Field = "comments"
)

// AllFields lists every canonical field in declaration order. Synonym
// resolution claims headers in this order, so earlier fields win ties.
func AllFields() []Field {
	return []Field{
		FieldCreatedTime,
		FieldAssignedDate,
		FieldApprovalDate,
		FieldDenialDate,
		FieldCompletionDate,
		FieldUploadDate,
		FieldSaleDate,
		FieldModifiedTime,
		FieldAgent,
		FieldClient,
		FieldProduct,
		FieldCaseID,
		FieldDisposition,
		FieldComments,
	}
}

// DateFields lists the canonical fields that carry timestamps.
func DateFields() []Field {
	return []Field{
		FieldCreatedTime,
		FieldAssignedDate,
		FieldApprovalDate,
		FieldDenialDate,
		FieldCompletionDate,
		FieldUploadDate,
		FieldSaleDate,
		FieldModifiedTime,
	}
}

// IsDate reports whether f carries a timestamp value.
func (f Field) IsDate() bool {
	switch f {
	case FieldCreatedTime, FieldAssignedDate, FieldApprovalDate, FieldDenialDate,
		FieldCompletionDate, FieldUploadDate, FieldSaleDate, FieldModifiedTime:
		return true
	}
	return false
}

// FieldSet is the capability set of canonical fields that resolved
// against a source's headers. Downstream stages query it instead of
// re-deriving column presence checks per row.
type FieldSet map[Field]bool

// Has reports whether the field resolved for this source.
func (s FieldSet) Has(f Field) bool { return s[f] }

// HasAll reports whether every given field resolved.
func (s FieldSet) HasAll(fields ...Field) bool {
	for _, f := range fields {
		if !s[f] {
			return false
		}
	}
	return true
}

// Fields returns the available fields in canonical declaration order.
func (s FieldSet) Fields() []Field {
	var out []Field
	for _, f := range AllFields() {
		if s[f] {
			out = append(out, f)
		}
	}
	return out
}
