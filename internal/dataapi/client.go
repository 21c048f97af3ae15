package dataapi

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/betbot/copycat/internal/domain"
	"github.com/betbot/copycat/pkg/logger"
)

// Number decodes a JSON value that the Data API emits either as a number or
// as a quoted string, depending on the field and the day.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// rawPosition is the wire shape of one /positions record.
type rawPosition struct {
	Asset        string `json:"asset"`
	Title        string `json:"title"`
	Outcome      string `json:"outcome"`
	Size         Number `json:"size"`
	AvgPrice     Number `json:"avgPrice"`
	CurrentValue Number `json:"currentValue"`
	PercentPnl   Number `json:"percentPnl"`
}

// Client fetches open positions for a wallet from the Polymarket Data API.
type Client struct {
	http *resty.Client
}

// NewClient creates a Data API client. An empty host selects the production
// endpoint.
func NewClient(host string) *Client {
	if host == "" {
		host = "https://data-api.polymarket.com"
	}
	host = strings.TrimRight(host, "/")

	client := resty.New().
		SetBaseURL(host).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "copycat/1.0")

	return &Client{http: client}
}

// OpenPositions returns the wallet's current open positions in the order the
// API reports them. Records without an asset id or with a non-positive size
// are skipped; a record with an unparsable numeric field is skipped rather
// than failing the fetch.
func (c *Client) OpenPositions(ctx context.Context, wallet string) ([]domain.Position, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"user":          wallet,
			"sizeThreshold": "0",
			"limit":         "500",
		}).
		Get("/positions")
	if err != nil {
		return nil, errors.Wrap(err, "fetch positions")
	}
	if resp.IsError() {
		return nil, errors.Errorf("fetch positions: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &raws); err != nil {
		return nil, errors.Wrap(err, "decode positions")
	}

	out := make([]domain.Position, 0, len(raws))
	for i, raw := range raws {
		var rp rawPosition
		if err := json.Unmarshal(raw, &rp); err != nil {
			logger.Warnf("[dataapi] skipping malformed position record %d: %v", i, err)
			continue
		}
		if rp.Asset == "" || rp.Size <= 0 {
			continue
		}
		out = append(out, domain.Position{
			AssetID:      rp.Asset,
			Title:        rp.Title,
			Outcome:      rp.Outcome,
			Size:         float64(rp.Size),
			AvgPrice:     float64(rp.AvgPrice),
			CurrentValue: float64(rp.CurrentValue),
			PercentPnl:   float64(rp.PercentPnl),
		})
	}
	return out, nil
}
