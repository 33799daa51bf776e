// internal/board/extract.go
package board

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedResponse = errors.New("BOARD_RESPONSE_MALFORMED")
)

// Response mirrors the board service payload. Pointer fields distinguish a
// missing key from an empty one so that shape errors can be reported.
type Response struct {
	Data   *ResponseData     `json:"data"`
	Errors []json.RawMessage `json:"errors,omitempty"`
}

type ResponseData struct {
	Boards []Board `json:"boards"`
}

type Board struct {
	ItemsPage *ItemsPage `json:"items_page"`
}

type ItemsPage struct {
	Items *[]Item `json:"items"`
}

type Item struct {
	ID           *string        `json:"id"`
	Name         *string        `json:"name"`
	ColumnValues *[]ColumnValue `json:"column_values"`
}

type ColumnValue struct {
	ID   *string `json:"id"`
	Text *string `json:"text"`
}

// ParseResponse decodes raw board JSON without validating its shape.
func ParseResponse(raw []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// ExtractRows flattens the first board of a response into rows. Each item
// yields a "name" key followed by one key per column value. A response with
// no boards yields an empty collection; a board whose items are missing
// expected fields is an error.
func ExtractRows(resp *Response) (Collection, error) {
	if resp == nil || resp.Data == nil || len(resp.Data.Boards) == 0 {
		return Collection{}, nil
	}

	b := resp.Data.Boards[0]
	if b.ItemsPage == nil {
		return nil, fmt.Errorf("%w: board has no items_page", ErrMalformedResponse)
	}
	if b.ItemsPage.Items == nil {
		return nil, fmt.Errorf("%w: items_page has no items", ErrMalformedResponse)
	}

	items := *b.ItemsPage.Items
	rows := make(Collection, 0, len(items))
	for i, item := range items {
		if item.Name == nil {
			return nil, fmt.Errorf("%w: item %d has no name", ErrMalformedResponse, i)
		}
		if item.ColumnValues == nil {
			return nil, fmt.Errorf("%w: item %d has no column_values", ErrMalformedResponse, i)
		}

		row := NewRow()
		row.Set("name", *item.Name)
		for j, col := range *item.ColumnValues {
			if col.ID == nil {
				return nil, fmt.Errorf("%w: item %d column %d has no id", ErrMalformedResponse, i, j)
			}
			if col.Text == nil {
				row.SetNull(*col.ID)
				continue
			}
			row.Set(*col.ID, *col.Text)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Extract decodes and flattens raw board JSON in one step.
func Extract(raw []byte) (Collection, error) {
	resp, err := ParseResponse(raw)
	if err != nil {
		return nil, err
	}
	return ExtractRows(resp)
}
