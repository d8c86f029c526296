// Package schema resolves raw export headers to canonical fields via
// fuzzy synonym matching.
package schema

import (
	"regexp"
	"strings"

	"github.com/sells-group/chase-cli/internal/model"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize strips every non-alphanumeric character and lowercases, so
// "Created Time", "created_time", and "CREATED-TIME" all compare equal.
func Normalize(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// SynonymEntry declares the accepted spellings for one canonical field.
type SynonymEntry struct {
	Field    model.Field `yaml:"field"`
	Synonyms []string    `yaml:"synonyms"`
}

// SynonymTable is the ordered field → synonyms declaration. Order
// matters: when two fields could claim the same header, the earlier
// declaration wins.
type SynonymTable []SynonymEntry

// Resolution maps canonical fields to the raw header that resolved for
// them, plus the header's column index in the source row.
type Resolution struct {
	headers map[model.Field]string
	indexes map[model.Field]int

	// Available is the capability set of resolved fields. Every
	// downstream stage queries it instead of re-checking columns.
	Available model.FieldSet
}

// Resolve matches the raw header list against the synonym table. An
// unresolved field is simply absent from the result; resolution never
// fails. No header is claimed by more than one field.
func Resolve(headers []string, table SynonymTable) *Resolution {
	res := &Resolution{
		headers:   make(map[model.Field]string),
		indexes:   make(map[model.Field]int),
		Available: make(model.FieldSet),
	}

	normHeaders := make([]string, len(headers))
	for i, h := range headers {
		normHeaders[i] = Normalize(h)
	}

	claimed := make(map[int]bool, len(headers))
	for _, entry := range table {
		if _, done := res.headers[entry.Field]; done {
			continue
		}
		idx := matchHeader(normHeaders, claimed, entry.Synonyms)
		if idx < 0 {
			continue
		}
		claimed[idx] = true
		res.headers[entry.Field] = headers[idx]
		res.indexes[entry.Field] = idx
		res.Available[entry.Field] = true
	}
	return res
}

// matchHeader returns the index of the first unclaimed header whose
// normalized form equals any synonym's normalized form, or -1.
func matchHeader(normHeaders []string, claimed map[int]bool, synonyms []string) int {
	want := make(map[string]bool, len(synonyms))
	for _, s := range synonyms {
		if n := Normalize(s); n != "" {
			want[n] = true
		}
	}
	for i, h := range normHeaders {
		if claimed[i] || h == "" {
			continue
		}
		if want[h] {
			return i
		}
	}
	return -1
}

// Header returns the raw header that resolved for f.
func (r *Resolution) Header(f model.Field) (string, bool) {
	h, ok := r.headers[f]
	return h, ok
}

// Value extracts the cell for canonical field f from a raw row, or ""
// when the field did not resolve or the row is short.
func (r *Resolution) Value(row []string, f model.Field) string {
	idx, ok := r.indexes[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
