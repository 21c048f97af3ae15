package clob

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/betbot/copycat/internal/domain"
	"github.com/betbot/copycat/pkg/logger"
)

// signedOrder is the wire shape of a signed order, amounts in 6-decimal raw
// units.
type signedOrder struct {
	Salt          int64       `json:"salt"`
	Maker         string      `json:"maker"`
	Signer        string      `json:"signer"`
	Taker         string      `json:"taker"`
	TokenID       string      `json:"tokenId"`
	MakerAmount   string      `json:"makerAmount"`
	TakerAmount   string      `json:"takerAmount"`
	Expiration    string      `json:"expiration"`
	Nonce         string      `json:"nonce"`
	FeeRateBps    string      `json:"feeRateBps"`
	Side          domain.Side `json:"side"`
	SignatureType int         `json:"signatureType"`
	Signature     string      `json:"signature"`
}

type newOrderPayload struct {
	Order     signedOrder `json:"order"`
	Owner     string      `json:"owner"`
	OrderType string      `json:"orderType"`
}

type orderResponse struct {
	Success  bool   `json:"success"`
	ErrorMsg string `json:"errorMsg"`
	OrderID  string `json:"orderID"`
	Status   string `json:"status"`
}

const zeroAddress = "0x0000000000000000000000000000000000000000"

// SubmitOrder signs and submits a good-till-cancelled limit order and returns
// the venue order id. A closed or resolved market maps to
// domain.ErrMarketNotFound.
func (c *Client) SubmitOrder(ctx context.Context, assetID string, side domain.Side, price, size float64) (string, error) {
	tokenID, ok := new(big.Int).SetString(assetID, 10)
	if !ok {
		return "", errors.Errorf("invalid token id %q", assetID)
	}

	// BUY: maker pays USDC, taker amount is shares. SELL is the mirror.
	priceDec := decimal.NewFromFloat(price)
	sizeDec := decimal.NewFromFloat(size).Round(2)
	usdcDec := sizeDec.Mul(priceDec).Round(4)

	var makerUnits, takerUnits *big.Int
	if side == domain.SideBuy {
		makerUnits = usdcDec.Shift(6).BigInt()
		takerUnits = sizeDec.Shift(6).BigInt()
	} else {
		makerUnits = sizeDec.Shift(6).BigInt()
		takerUnits = usdcDec.Shift(6).BigInt()
	}

	sideCode := uint8(1)
	if side == domain.SideBuy {
		sideCode = 0
	}

	od := &orderData{
		Salt:          time.Now().UnixNano(),
		Maker:         c.funder,
		Signer:        c.address.Hex(),
		Taker:         zeroAddress,
		TokenID:       tokenID,
		MakerAmount:   makerUnits,
		TakerAmount:   takerUnits,
		Expiration:    big.NewInt(0),
		Nonce:         big.NewInt(0),
		FeeRateBps:    big.NewInt(0),
		Side:          sideCode,
		SignatureType: c.signatureType,
	}

	exchange := ctfExchangeAddress
	if negRisk, err := c.tokenNegRisk(ctx, assetID); err != nil {
		return "", err
	} else if negRisk {
		exchange = negRiskCtfExchangeAddress
	}

	signature, err := buildOrderSignature(c.privateKey, c.chainID, exchange, od)
	if err != nil {
		return "", err
	}

	payload := newOrderPayload{
		Order: signedOrder{
			Salt:          od.Salt,
			Maker:         od.Maker,
			Signer:        od.Signer,
			Taker:         od.Taker,
			TokenID:       assetID,
			MakerAmount:   makerUnits.String(),
			TakerAmount:   takerUnits.String(),
			Expiration:    "0",
			Nonce:         "0",
			FeeRateBps:    "0",
			Side:          side,
			SignatureType: c.signatureType,
			Signature:     signature,
		},
		Owner:     c.creds.Key,
		OrderType: "GTC",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshal order")
	}
	bodyStr := string(body)

	headers, err := c.l2Headers("POST", endpointPostOrder, &bodyStr)
	if err != nil {
		return "", err
	}
	headers["Content-Type"] = "application/json"

	var out orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		SetResult(&out).
		Post(endpointPostOrder)
	if err != nil {
		return "", errors.Wrap(err, "submit order")
	}

	if resp.StatusCode() == 404 || strings.Contains(strings.ToLower(out.ErrorMsg), "not found") {
		return "", errors.Wrapf(domain.ErrMarketNotFound, "token %s", assetID)
	}
	if resp.IsError() {
		return "", errors.Errorf("submit order: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if !out.Success {
		return "", errors.Errorf("submit order rejected: %s", out.ErrorMsg)
	}

	logger.Debugf("[clob] order placed: id=%s status=%s token=%s %s %.2f @ %.2f",
		out.OrderID, out.Status, assetID, side, size, price)
	return out.OrderID, nil
}

// tokenNegRisk reports whether the token's market settles on the neg-risk
// exchange, fetching the book when no earlier quote cached the flag.
func (c *Client) tokenNegRisk(ctx context.Context, assetID string) (bool, error) {
	if negRisk, ok := c.negRisk[assetID]; ok {
		return negRisk, nil
	}
	book, err := c.Book(ctx, assetID)
	if err != nil {
		return false, err
	}
	return book.NegRisk, nil
}
