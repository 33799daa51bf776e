// internal/analytics/types.go
package analytics

import (
	"monday-bi-agent/internal/board"
	"monday-bi-agent/internal/inference"
)

// Branch names the handler that produced an answer.
type Branch string

const (
	BranchConversion  Branch = "conversion"
	BranchWinRate     Branch = "win_rate"
	BranchDataQuality Branch = "data_quality"
	BranchRevenue     Branch = "revenue"
	BranchLLMFallback Branch = "llm_fallback"
)

// Dataset is everything a handler may look at for one request.
type Dataset struct {
	Deals      board.Collection
	WorkOrders board.Collection
	Columns    inference.Columns
}

// Trace records what was fetched and detected. Every response carries one
// with the same keys regardless of branch.
type Trace struct {
	RequestID                      string  `json:"request_id"`
	MondayAPICalled                bool    `json:"monday_api_called"`
	DealsFetched                   int     `json:"deals_fetched"`
	WorkOrdersFetched              int     `json:"work_orders_fetched"`
	StatusColumnDetected           *string `json:"status_column_detected"`
	RevenueColumnDetected          *string `json:"revenue_column_detected"`
	CompanyColumnDetected          *string `json:"company_column_detected"`
	WorkOrderCompanyColumnDetected *string `json:"workorder_company_column_detected"`
	Branch                         Branch  `json:"branch"`
}

// NewTrace fills the detection fields from a dataset.
func NewTrace(requestID string, ds *Dataset) Trace {
	return Trace{
		RequestID:                      requestID,
		MondayAPICalled:                true,
		DealsFetched:                   len(ds.Deals),
		WorkOrdersFetched:              len(ds.WorkOrders),
		StatusColumnDetected:           ds.Columns.Status.Ptr(),
		RevenueColumnDetected:          ds.Columns.Revenue.Ptr(),
		CompanyColumnDetected:          ds.Columns.Company.Ptr(),
		WorkOrderCompanyColumnDetected: ds.Columns.WorkOrderCompany.Ptr(),
	}
}

// Result is the terminal artifact of a query.
type Result struct {
	Answer string `json:"answer"`
	Trace  Trace  `json:"trace"`
}
