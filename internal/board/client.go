// internal/board/client.go
package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	commonhttp "monday-bi-agent/internal/common/http"
)

const (
	DefaultAPIURL     = "https://api.monday.com/v2"
	DefaultAPIVersion = "2023-10"
	DefaultPageLimit  = 500
	DefaultTimeout    = 30 * time.Second
)

var (
	ErrFetchFailed = errors.New("BOARD_FETCH_FAILED")
)

// itemsQuery asks for the first page of items on one board. The page size is
// substituted at construction time.
const itemsQuery = `
query ($board_id: ID!) {
  boards(ids: [$board_id]) {
    items_page(limit: %d) {
      items {
        id
        name
        column_values {
          id
          text
        }
      }
    }
  }
}
`

// Fetcher retrieves the raw JSON of one board.
type Fetcher interface {
	FetchBoardItems(ctx context.Context, boardID, apiKey string) ([]byte, error)
}

type Config struct {
	APIURL     string
	APIVersion string
	PageLimit  int
	Timeout    time.Duration
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.PageLimit == 0 {
		c.PageLimit = DefaultPageLimit
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Client talks to the board service GraphQL endpoint.
type Client struct {
	config Config
	http   *commonhttp.Client
	query  string
}

func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		config: cfg,
		http:   commonhttp.NewClient(cfg.Timeout),
		query:  fmt.Sprintf(itemsQuery, cfg.PageLimit),
	}
}

// FetchBoardItems posts the items query and returns the body untouched,
// including any GraphQL error envelope. Only transport failures are errors.
func (c *Client) FetchBoardItems(ctx context.Context, boardID, apiKey string) ([]byte, error) {
	payload := map[string]interface{}{
		"query": c.query,
		"variables": map[string]interface{}{
			"board_id": boardID,
		},
	}
	headers := map[string]string{
		"Authorization": apiKey,
		"API-Version":   c.config.APIVersion,
	}

	body, _, err := c.http.PostJSON(ctx, c.config.APIURL, headers, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: board %s: %v", ErrFetchFailed, boardID, err)
	}
	return body, nil
}
