// Package dedup partitions the canonical record set into true
// duplicates and legitimate multi-product repetition of a case
// identifier.
package dedup

import (
	"sort"
	"strings"

	"github.com/sells-group/chase-cli/internal/model"
)

// Detect groups records by (case identifier, product). Keys with more
// than one record are true duplicates. A case identifier whose distinct
// product set has more than one element, and which owns no
// true-duplicate key, has all its records classified as multi-product.
// The two classifications are disjoint.
func Detect(records []*model.LeadRecord) *model.DuplicateReport {
	type key struct{ caseID, product string }

	byKey := make(map[key][]*model.LeadRecord)
	byCase := make(map[string][]*model.LeadRecord)
	caseProducts := make(map[string]map[string]bool)

	for _, rec := range records {
		caseID := strings.TrimSpace(rec.CaseID)
		if caseID == "" {
			continue
		}
		product := strings.TrimSpace(rec.Product)
		k := key{caseID, product}
		byKey[k] = append(byKey[k], rec)
		byCase[caseID] = append(byCase[caseID], rec)
		if caseProducts[caseID] == nil {
			caseProducts[caseID] = make(map[string]bool)
		}
		caseProducts[caseID][product] = true
	}

	report := &model.DuplicateReport{}
	dupCases := make(map[string]bool)

	for k, recs := range byKey {
		if len(recs) < 2 {
			continue
		}
		dupCases[k.caseID] = true
		report.TrueDuplicates = append(report.TrueDuplicates, model.DuplicateGroup{
			CaseID:  k.caseID,
			Product: k.product,
			Records: recs,
		})
	}

	for caseID, products := range caseProducts {
		// A case with any duplicated key is excluded from the
		// multi-product classification entirely.
		if len(products) < 2 || dupCases[caseID] {
			continue
		}
		names := make([]string, 0, len(products))
		for p := range products {
			names = append(names, p)
		}
		sort.Strings(names)
		report.MultiProduct = append(report.MultiProduct, model.MultiProductGroup{
			CaseID:   caseID,
			Products: names,
			Records:  byCase[caseID],
		})
	}

	sort.Slice(report.TrueDuplicates, func(i, j int) bool {
		a, b := report.TrueDuplicates[i], report.TrueDuplicates[j]
		if a.CaseID != b.CaseID {
			return a.CaseID < b.CaseID
		}
		return a.Product < b.Product
	})
	sort.Slice(report.MultiProduct, func(i, j int) bool {
		return report.MultiProduct[i].CaseID < report.MultiProduct[j].CaseID
	})
	return report
}
