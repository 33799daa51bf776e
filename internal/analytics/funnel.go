// internal/analytics/funnel.go
package analytics

import (
	"fmt"
	"strings"
)

// WinRateHandler reports win rate, funnel counts, deal size and a forecast
// for the open pipeline. It never declines.
type WinRateHandler struct{}

func (WinRateHandler) Branch() Branch { return BranchWinRate }

func (WinRateHandler) Triggered(query string) bool {
	return containsAny(query, "win rate", "funnel")
}

func (WinRateHandler) Handle(ds *Dataset) (string, bool) {
	f := Funnel(ds)
	return fmt.Sprintf(
		"Win Rate: %.1f%%. Won: %d, Dead: %d, Open: %d. Average Deal Size: %s. Median Deal Size: %s. Expected Realizable Revenue from open pipeline: %s.",
		f.WinRate, f.Won, f.Dead, f.Open,
		grouped(f.AverageDeal), grouped(f.MedianDeal), grouped(f.Forecast),
	), true
}

// FunnelStats holds the win-rate computation.
type FunnelStats struct {
	Won, Dead, Open int
	// Revenues holds only the amounts that parsed.
	Revenues     []float64
	WinRate      float64
	AverageDeal  float64
	MedianDeal   float64
	OpenPipeline float64
	Forecast     float64
}

// Funnel classifies deals by lower-cased status. Unknown statuses are not
// counted. Revenue cells that fail to parse are left out of the average and
// median and count as zero in the open pipeline.
func Funnel(ds *Dataset) FunnelStats {
	cols := ds.Columns
	var f FunnelStats

	for _, deal := range ds.Deals {
		status := strings.ToLower(deal.Text(cols.Status.Name))
		raw := deal.Text(cols.Revenue.Name)

		value, ok := parseAmount(raw)
		if ok {
			f.Revenues = append(f.Revenues, value)
		}

		switch status {
		case "won":
			f.Won++
		case "dead":
			f.Dead++
		case "open":
			f.Open++
			f.OpenPipeline += value
		}
	}

	if closed := f.Won + f.Dead; closed > 0 {
		f.WinRate = float64(f.Won) / float64(closed) * 100
	}
	f.AverageDeal = mean(f.Revenues)
	f.MedianDeal = median(f.Revenues)
	f.Forecast = ForecastRevenue(f.WinRate, f.OpenPipeline)
	return f
}

// ForecastRevenue scales the open pipeline by the win rate percentage.
func ForecastRevenue(winRatePct, openPipeline float64) float64 {
	return winRatePct / 100 * openPipeline
}
