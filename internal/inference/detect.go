// internal/inference/detect.go
package inference

import (
	"strings"
	"unicode"

	"monday-bi-agent/internal/board"
)

// companySampleSize bounds how many rows the company detector inspects.
const companySampleSize = 20

// StatusValues are the literal values that identify the status column.
// Matching is case-sensitive, so a board using "won"/"open"/"dead" is never
// detected even though the analytics compare statuses lower-cased.
var StatusValues = []string{"Open", "Won", "Dead"}

// Column is an inferred column name. The zero value means not detected.
type Column struct {
	Name  string
	Found bool
}

func found(name string) Column {
	return Column{Name: name, Found: true}
}

// Ptr returns nil when the column was not detected. Used for JSON output.
func (c Column) Ptr() *string {
	if !c.Found {
		return nil
	}
	name := c.Name
	return &name
}

// scan walks columns in first-row order and rows in collection order and
// returns the first column for which match holds on any row.
func scan(rows board.Collection, limit int, match func(value string) bool) Column {
	if len(rows) == 0 {
		return Column{}
	}
	sample := rows
	if limit > 0 && len(sample) > limit {
		sample = sample[:limit]
	}
	for _, key := range rows.Schema() {
		for _, row := range sample {
			if match(row.Text(key)) {
				return found(key)
			}
		}
	}
	return Column{}
}

// DetectColumn returns the first column holding any value that is an exact
// member of allowed.
func DetectColumn(rows board.Collection, allowed []string) Column {
	if len(allowed) == 0 {
		return Column{}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return scan(rows, 0, func(value string) bool {
		_, ok := set[value]
		return ok
	})
}

// DetectStatusColumn is DetectColumn over StatusValues.
func DetectStatusColumn(rows board.Collection) Column {
	return DetectColumn(rows, StatusValues)
}

// DetectNumericColumn returns the first column holding any value made only of
// digits once every '.' is removed.
func DetectNumericColumn(rows board.Collection) Column {
	return scan(rows, 0, isNumeric)
}

// DetectCompanyColumn returns the first column whose first rows contain a
// value mentioning "company", case-insensitively.
func DetectCompanyColumn(rows board.Collection) Column {
	return scan(rows, companySampleSize, func(value string) bool {
		return strings.Contains(strings.ToLower(value), "company")
	})
}

// isNumeric accepts decimal digits only (Unicode Nd). Superscripts such as
// "²" and other digit-like symbols are not numeric here.
func isNumeric(value string) bool {
	stripped := strings.ReplaceAll(value, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Columns bundles the detections made for one request.
type Columns struct {
	Status           Column
	Revenue          Column
	Company          Column
	WorkOrderCompany Column
}

// Infer runs every detector. Company detection runs separately on each
// collection since the two boards need not share a schema.
func Infer(deals, workOrders board.Collection) Columns {
	return Columns{
		Status:           DetectStatusColumn(deals),
		Revenue:          DetectNumericColumn(deals),
		Company:          DetectCompanyColumn(deals),
		WorkOrderCompany: DetectCompanyColumn(workOrders),
	}
}
