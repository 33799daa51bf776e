// internal/analytics/analytics_test.go
package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monday-bi-agent/internal/board"
	"monday-bi-agent/internal/inference"
)

// ==========================
// Test Helper Functions
// ==========================

func col(name string) inference.Column {
	return inference.Column{Name: name, Found: true}
}

func allColumns() inference.Columns {
	return inference.Columns{
		Status:           col("status"),
		Revenue:          col("revenue"),
		Company:          col("company"),
		WorkOrderCompany: col("company"),
	}
}

func deal(status, revenue, company string) *board.Row {
	return board.RowFrom("name", "deal", "status", status, "revenue", revenue, "company", company)
}

func workOrder(company string) *board.Row {
	return board.RowFrom("name", "wo", "company", company)
}

// ==========================
// Conversion
// ==========================

func TestConversion_NormalizationIsNotFuzzy(t *testing.T) {
	ds := &Dataset{
		Deals: board.Collection{
			deal("Won", "100", "Acme Inc"),
			deal("Open", "50", "Beta LLC"),
		},
		WorkOrders: board.Collection{workOrder("ACME")},
		Columns:    allColumns(),
	}

	branch, answer, ok := DefaultRouter().Route("conversion", ds)
	require.True(t, ok)
	assert.Equal(t, BranchConversion, branch)
	assert.Equal(t, "0 won deals have associated work orders. Conversion rate: 0.0%.", answer)
}

func TestConversion_Rates(t *testing.T) {
	tests := []struct {
		name      string
		deals     board.Collection
		orders    board.Collection
		converted int
		rate      float64
	}{
		{
			name:      "no won deals is zero",
			deals:     board.Collection{deal("Open", "1", "Acme"), deal("Dead", "1", "Beta")},
			orders:    board.Collection{workOrder("Acme"), workOrder("Beta")},
			converted: 0,
			rate:      0,
		},
		{
			name:      "punctuation and case are ignored",
			deals:     board.Collection{deal("WON", "1", "Acme, Inc."), deal("won", "1", "Beta")},
			orders:    board.Collection{workOrder("acme inc")},
			converted: 1,
			rate:      50,
		},
		{
			name:      "duplicate won companies count once",
			deals:     board.Collection{deal("Won", "1", "Acme"), deal("Won", "2", "ACME")},
			orders:    board.Collection{workOrder("Acme")},
			converted: 1,
			rate:      100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Conversion(&Dataset{Deals: tt.deals, WorkOrders: tt.orders, Columns: allColumns()})
			assert.Equal(t, tt.converted, stats.Converted)
			assert.InDelta(t, tt.rate, stats.Rate, 1e-9)
			assert.GreaterOrEqual(t, stats.Rate, 0.0)
			assert.LessOrEqual(t, stats.Rate, 100.0)
		})
	}
}

func TestConversion_DeclinesWithoutColumns(t *testing.T) {
	cols := allColumns()
	cols.WorkOrderCompany = inference.Column{}
	ds := &Dataset{
		Deals:      board.Collection{deal("Won", "100", "Acme")},
		WorkOrders: board.Collection{workOrder("Acme")},
		Columns:    cols,
	}

	_, ok := ConversionHandler{}.Handle(ds)
	assert.False(t, ok)

	// "work order conversion revenue" falls through to the revenue branch.
	branch, answer, ok := DefaultRouter().Route("Work order conversion revenue", ds)
	require.True(t, ok)
	assert.Equal(t, BranchRevenue, branch)
	assert.Equal(t, "Total pipeline revenue is 100.", answer)
}

// ==========================
// Win rate / funnel
// ==========================

func TestWinRate_Scenario(t *testing.T) {
	ds := &Dataset{
		Deals: board.Collection{
			deal("Won", "100", "a"),
			deal("Dead", "", "b"),
			deal("Open", "50", "c"),
		},
		Columns: allColumns(),
	}

	f := Funnel(ds)
	assert.Equal(t, 1, f.Won)
	assert.Equal(t, 1, f.Dead)
	assert.Equal(t, 1, f.Open)
	assert.Equal(t, []float64{100, 50}, f.Revenues)
	assert.InDelta(t, 50.0, f.WinRate, 1e-9)
	assert.InDelta(t, 75.0, f.AverageDeal, 1e-9)
	assert.InDelta(t, 75.0, f.MedianDeal, 1e-9)
	assert.InDelta(t, 25.0, f.Forecast, 1e-9)

	branch, answer, ok := DefaultRouter().Route("What is our WIN RATE?", ds)
	require.True(t, ok)
	assert.Equal(t, BranchWinRate, branch)
	assert.Equal(t,
		"Win Rate: 50.0%. Won: 1, Dead: 1, Open: 1. Average Deal Size: 75. Median Deal Size: 75. Expected Realizable Revenue from open pipeline: 25.",
		answer)
}

func TestWinRate_NoClosedDeals(t *testing.T) {
	ds := &Dataset{
		Deals:   board.Collection{deal("Open", "10", "a"), deal("Pending", "x", "b")},
		Columns: allColumns(),
	}
	f := Funnel(ds)
	assert.Equal(t, 0.0, f.WinRate)
	assert.Equal(t, 1, f.Open)
	assert.Equal(t, 0.0, f.Forecast)
}

func TestWinRate_NeverDeclines(t *testing.T) {
	branch, answer, ok := DefaultRouter().Route("show me the funnel", &Dataset{})
	require.True(t, ok)
	assert.Equal(t, BranchWinRate, branch)
	assert.Contains(t, answer, "Win Rate: 0.0%. Won: 0, Dead: 0, Open: 0.")
}

func TestWinRate_UnparsableOpenRevenueIsZero(t *testing.T) {
	ds := &Dataset{
		Deals: board.Collection{
			deal("Won", "1000", "a"),
			deal("Open", "TBD", "b"),
			deal("Open", "3000", "c"),
		},
		Columns: allColumns(),
	}
	f := Funnel(ds)
	assert.InDelta(t, 3000.0, f.OpenPipeline, 1e-9)
	assert.Len(t, f.Revenues, 2)
	assert.InDelta(t, 3000.0, f.Forecast, 1e-9)
}

func TestForecastRevenue_Monotonic(t *testing.T) {
	rates := []float64{0, 10, 33.3, 50, 99, 100}
	for i := 1; i < len(rates); i++ {
		assert.GreaterOrEqual(t, ForecastRevenue(rates[i], 5000), ForecastRevenue(rates[i-1], 5000))
	}
	pipelines := []float64{0, 1, 250, 10000, 1e9}
	for i := 1; i < len(pipelines); i++ {
		assert.GreaterOrEqual(t, ForecastRevenue(40, pipelines[i]), ForecastRevenue(40, pipelines[i-1]))
	}
}

// ==========================
// Data quality
// ==========================

func TestDataQuality(t *testing.T) {
	nullStatus := deal("", "10", "Gamma")
	nullStatus.SetNull("status")

	ds := &Dataset{
		Deals: board.Collection{
			deal("Won", "", "Acme"),
			deal("Open", "  ", "acme"),
			nullStatus,
			deal("Dead", "5", "Beta"),
		},
		WorkOrders: board.Collection{workOrder("ACME")},
		Columns:    allColumns(),
	}

	q := DataQuality(ds)
	assert.Equal(t, 2, q.MissingRevenue)
	assert.Equal(t, 1, q.MissingStatus)
	assert.Equal(t, 2, q.UnmatchedCompanies)

	branch, answer, ok := DefaultRouter().Route("any data quality issues?", ds)
	require.True(t, ok)
	assert.Equal(t, BranchDataQuality, branch)
	assert.Equal(t,
		"Data Quality Report: 2 deals missing revenue values. 1 deals missing status. 2 deal companies not found in work orders.",
		answer)
}

func TestDataQuality_SkipsCompanyCheckWithoutColumns(t *testing.T) {
	cols := allColumns()
	cols.Company = inference.Column{}
	ds := &Dataset{
		Deals:      board.Collection{deal("Won", "1", "Acme")},
		WorkOrders: board.Collection{workOrder("Beta")},
		Columns:    cols,
	}
	assert.Equal(t, 0, DataQuality(ds).UnmatchedCompanies)
}

func TestDataQuality_UndetectedColumnsAreBlank(t *testing.T) {
	ds := &Dataset{Deals: board.Collection{deal("Won", "1", "Acme")}}
	q := DataQuality(ds)
	assert.Equal(t, 1, q.MissingRevenue)
	assert.Equal(t, 1, q.MissingStatus)
}

// ==========================
// Revenue
// ==========================

func TestRevenue(t *testing.T) {
	ds := &Dataset{
		Deals: board.Collection{
			deal("Won", "1000000", "a"),
			deal("Open", "234567", "b"),
			deal("Open", "n/a", "c"),
		},
		Columns: allColumns(),
	}

	assert.InDelta(t, 1234567.0, TotalRevenue(ds), 1e-9)

	branch, answer, ok := DefaultRouter().Route("total revenue", ds)
	require.True(t, ok)
	assert.Equal(t, BranchRevenue, branch)
	assert.Equal(t, "Total pipeline revenue is 1,234,567.", answer)
}

func TestRevenue_DeclinesWithoutColumn(t *testing.T) {
	ds := &Dataset{Deals: board.Collection{deal("Won", "", "a")}}
	branch, _, ok := DefaultRouter().Route("revenue please", ds)
	assert.False(t, ok)
	assert.Equal(t, BranchLLMFallback, branch)
}

// ==========================
// Routing
// ==========================

func TestRouter_Priority(t *testing.T) {
	ds := &Dataset{
		Deals:      board.Collection{deal("Won", "100", "Acme")},
		WorkOrders: board.Collection{workOrder("Acme")},
		Columns:    allColumns(),
	}

	tests := []struct {
		query  string
		branch Branch
	}{
		{"conversion and win rate and revenue", BranchConversion},
		{"win rate vs data quality", BranchWinRate},
		{"inconsistency in revenue", BranchDataQuality},
		{"Revenue", BranchRevenue},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			branch, _, ok := DefaultRouter().Route(tt.query, ds)
			require.True(t, ok)
			assert.Equal(t, tt.branch, branch)
		})
	}
}

func TestRouter_FallsThroughToLanguageModel(t *testing.T) {
	ds := &Dataset{
		Deals:   board.Collection{deal("Won", "100", "Acme")},
		Columns: allColumns(),
	}
	branch, answer, ok := DefaultRouter().Route("Which sector is growing fastest?", ds)
	assert.False(t, ok)
	assert.Equal(t, "", answer)
	assert.Equal(t, BranchLLMFallback, branch)
}

type decliningHandler struct{ called *bool }

func (decliningHandler) Branch() Branch        { return "declining" }
func (decliningHandler) Triggered(string) bool { return true }
func (h decliningHandler) Handle(*Dataset) (string, bool) {
	*h.called = true
	return "", false
}

func TestRouter_DecliningHandlerContinues(t *testing.T) {
	called := false
	r := NewRouter(decliningHandler{called: &called}, RevenueHandler{})
	ds := &Dataset{Deals: board.Collection{deal("Won", "7", "a")}, Columns: allColumns()}

	branch, answer, ok := r.Route("revenue", ds)
	require.True(t, ok)
	assert.True(t, called)
	assert.Equal(t, BranchRevenue, branch)
	assert.Equal(t, "Total pipeline revenue is 7.", answer)
}

// ==========================
// Helpers
// ==========================

func TestGrouped(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1234567, "1,234,567"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, grouped(tt.in))
	}
}

func TestRevenue_InfiniteCell(t *testing.T) {
	ds := &Dataset{
		Deals:   board.Collection{deal("Won", "inf", "a"), deal("Open", "10", "b")},
		Columns: allColumns(),
	}
	branch, answer, ok := DefaultRouter().Route("total revenue", ds)
	require.True(t, ok)
	assert.Equal(t, BranchRevenue, branch)
	assert.Equal(t, "Total pipeline revenue is inf.", answer)
}

func TestNumberHelpers(t *testing.T) {
	assert.Equal(t, "acmeinc", normalizeCompany("Acme, Inc."))
	assert.Equal(t, "", normalizeCompany("  --  "))
	assert.InDelta(t, 2.5, median([]float64{4, 1, 3, 2}), 1e-9)
	assert.InDelta(t, 3.0, median([]float64{5, 3, 1}), 1e-9)
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 0.0, mean(nil))

	v, ok := parseAmount(" 42.5 ")
	assert.True(t, ok)
	assert.InDelta(t, 42.5, v, 1e-9)
	_, ok = parseAmount("")
	assert.False(t, ok)
}

func TestNewTrace(t *testing.T) {
	cols := allColumns()
	cols.WorkOrderCompany = inference.Column{}
	ds := &Dataset{
		Deals:      board.Collection{deal("Won", "1", "a"), deal("Open", "2", "b")},
		WorkOrders: board.Collection{workOrder("a")},
		Columns:    cols,
	}

	tr := NewTrace("req-1", ds)
	assert.Equal(t, "req-1", tr.RequestID)
	assert.True(t, tr.MondayAPICalled)
	assert.Equal(t, 2, tr.DealsFetched)
	assert.Equal(t, 1, tr.WorkOrdersFetched)
	require.NotNil(t, tr.StatusColumnDetected)
	assert.Equal(t, "status", *tr.StatusColumnDetected)
	assert.Nil(t, tr.WorkOrderCompanyColumnDetected)
}
