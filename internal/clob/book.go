package clob

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/betbot/copycat/internal/domain"
)

// BookLevel is one price level of the order book. The venue reports prices
// and sizes as strings.
type BookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// Book is the venue order book for one token.
type Book struct {
	Market    string      `json:"market"`
	AssetID   string      `json:"asset_id"`
	Timestamp string      `json:"timestamp"`
	NegRisk   bool        `json:"neg_risk"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
}

// Book fetches the order book for a token and remembers the market's
// neg-risk flag for later order signing. A 404 maps to
// domain.ErrMarketNotFound (market closed or resolved).
func (c *Client) Book(ctx context.Context, assetID string) (*Book, error) {
	var book Book
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("token_id", assetID).
		SetResult(&book).
		Get(endpointGetOrderBook)
	if err != nil {
		return nil, errors.Wrap(err, "fetch order book")
	}
	if resp.StatusCode() == 404 {
		return nil, errors.Wrapf(domain.ErrMarketNotFound, "token %s", assetID)
	}
	if resp.IsError() {
		return nil, errors.Errorf("fetch order book: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	c.negRisk[assetID] = book.NegRisk
	return &book, nil
}

// BestAsk returns the lowest sell price for the token, or 0 when the book
// has no asks.
func (c *Client) BestAsk(ctx context.Context, assetID string) (float64, error) {
	book, err := c.Book(ctx, assetID)
	if err != nil {
		return 0, err
	}
	best := 0.0
	for _, lvl := range book.Asks {
		p, err := strconv.ParseFloat(lvl.Price, 64)
		if err != nil || p <= 0 {
			continue
		}
		if best == 0 || p < best {
			best = p
		}
	}
	return best, nil
}

// BestBid returns the highest buy price for the token, or 0 when the book
// has no bids.
func (c *Client) BestBid(ctx context.Context, assetID string) (float64, error) {
	book, err := c.Book(ctx, assetID)
	if err != nil {
		return 0, err
	}
	best := 0.0
	for _, lvl := range book.Bids {
		p, err := strconv.ParseFloat(lvl.Price, 64)
		if err != nil {
			continue
		}
		if p > best {
			best = p
		}
	}
	return best, nil
}

type balanceAllowanceResponse struct {
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// CollateralBalance returns the available settlement-currency (USDC) balance
// in whole units. The venue reports it as a raw integer string with 6
// decimals.
func (c *Client) CollateralBalance(ctx context.Context) (float64, error) {
	headers, err := c.l2Headers("GET", endpointGetBalanceAllowance, nil)
	if err != nil {
		return 0, err
	}

	var out balanceAllowanceResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetQueryParams(map[string]string{
			"asset_type":     "COLLATERAL",
			"signature_type": strconv.Itoa(c.signatureType),
		}).
		SetResult(&out).
		Get(endpointGetBalanceAllowance)
	if err != nil {
		return 0, errors.Wrap(err, "fetch balance")
	}
	if resp.IsError() {
		return 0, errors.Errorf("fetch balance: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	if out.Balance == "" {
		return 0, nil
	}
	raw, err := strconv.ParseFloat(out.Balance, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse balance %q", out.Balance)
	}
	return raw / 1e6, nil
}
