// internal/analytics/quality.go
package analytics

import (
	"fmt"
	"strings"
)

// DataQualityHandler reports blank revenue and status cells and deal
// companies that never show up on work orders. It never declines.
type DataQualityHandler struct{}

func (DataQualityHandler) Branch() Branch { return BranchDataQuality }

func (DataQualityHandler) Triggered(query string) bool {
	return containsAny(query, "data quality", "inconsistency")
}

func (DataQualityHandler) Handle(ds *Dataset) (string, bool) {
	q := DataQuality(ds)
	return fmt.Sprintf(
		"Data Quality Report: %d deals missing revenue values. %d deals missing status. %d deal companies not found in work orders.",
		q.MissingRevenue, q.MissingStatus, q.UnmatchedCompanies,
	), true
}

type QualityStats struct {
	MissingRevenue     int
	MissingStatus      int
	UnmatchedCompanies int
}

// DataQuality counts blank cells, where absent, null and whitespace-only all
// count as blank. Company matching is lower-cased but otherwise exact, and
// only runs when both company columns were detected.
func DataQuality(ds *Dataset) QualityStats {
	cols := ds.Columns
	var q QualityStats

	for _, deal := range ds.Deals {
		if isBlank(deal.Text(cols.Revenue.Name)) {
			q.MissingRevenue++
		}
		if isBlank(deal.Text(cols.Status.Name)) {
			q.MissingStatus++
		}
	}

	if cols.Company.Found && cols.WorkOrderCompany.Found {
		ordered := make(map[string]struct{}, len(ds.WorkOrders))
		for _, wo := range ds.WorkOrders {
			ordered[strings.ToLower(wo.Text(cols.WorkOrderCompany.Name))] = struct{}{}
		}
		seen := make(map[string]struct{})
		for _, deal := range ds.Deals {
			company := strings.ToLower(deal.Text(cols.Company.Name))
			if _, dup := seen[company]; dup {
				continue
			}
			seen[company] = struct{}{}
			if _, ok := ordered[company]; !ok {
				q.UnmatchedCompanies++
			}
		}
	}

	return q
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
