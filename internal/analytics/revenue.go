// internal/analytics/revenue.go
package analytics

import "fmt"

// RevenueHandler totals the revenue column. It declines when no numeric
// column was detected.
type RevenueHandler struct{}

func (RevenueHandler) Branch() Branch { return BranchRevenue }

func (RevenueHandler) Triggered(query string) bool {
	return containsAny(query, "revenue")
}

func (RevenueHandler) Handle(ds *Dataset) (string, bool) {
	if !ds.Columns.Revenue.Found {
		return "", false
	}
	return fmt.Sprintf("Total pipeline revenue is %s.", grouped(TotalRevenue(ds))), true
}

// TotalRevenue sums the revenue column with unparsable cells counted as zero.
func TotalRevenue(ds *Dataset) float64 {
	var total float64
	for _, deal := range ds.Deals {
		total += amountOrZero(deal.Text(ds.Columns.Revenue.Name))
	}
	return total
}
