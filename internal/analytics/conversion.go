// internal/analytics/conversion.go
package analytics

import (
	"fmt"
	"strings"
)

// ConversionHandler reports how many won-deal companies also appear on the
// work-orders board.
type ConversionHandler struct{}

func (ConversionHandler) Branch() Branch { return BranchConversion }

func (ConversionHandler) Triggered(query string) bool {
	return containsAny(query, "work order", "conversion")
}

func (ConversionHandler) Handle(ds *Dataset) (string, bool) {
	cols := ds.Columns
	if !cols.Company.Found || !cols.WorkOrderCompany.Found || !cols.Status.Found {
		return "", false
	}

	stats := Conversion(ds)
	return fmt.Sprintf(
		"%d won deals have associated work orders. Conversion rate: %.1f%%.",
		stats.Converted, stats.Rate,
	), true
}

// ConversionStats is the outcome of the won-deal to work-order comparison.
type ConversionStats struct {
	WonCompanies int
	Converted    int
	Rate         float64
}

// Conversion compares normalized company names of won deals against those
// on work orders. Rate is 0 when there are no won companies.
func Conversion(ds *Dataset) ConversionStats {
	cols := ds.Columns

	won := make(map[string]struct{})
	for _, deal := range ds.Deals {
		if strings.ToLower(deal.Text(cols.Status.Name)) != "won" {
			continue
		}
		won[normalizeCompany(deal.Text(cols.Company.Name))] = struct{}{}
	}

	ordered := make(map[string]struct{}, len(ds.WorkOrders))
	for _, wo := range ds.WorkOrders {
		ordered[normalizeCompany(wo.Text(cols.WorkOrderCompany.Name))] = struct{}{}
	}

	converted := 0
	for company := range won {
		if _, ok := ordered[company]; ok {
			converted++
		}
	}

	stats := ConversionStats{WonCompanies: len(won), Converted: converted}
	if len(won) > 0 {
		stats.Rate = float64(converted) / float64(len(won)) * 100
	}
	return stats
}
