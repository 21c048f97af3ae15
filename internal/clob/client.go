package clob

import (
	"crypto/ecdsa"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// API endpoints.
const (
	endpointGetOrderBook        = "/book"
	endpointPostOrder           = "/order"
	endpointGetBalanceAllowance = "/balance-allowance"
)

// Credentials are the L2 API credentials issued by the venue.
type Credentials struct {
	Key        string
	Secret     string
	Passphrase string
}

// Client talks to the Polymarket CLOB: order books, collateral balance and
// order submission. All requests are synchronous with a bounded timeout.
type Client struct {
	host          string
	chainID       int64
	privateKey    *ecdsa.PrivateKey
	address       common.Address
	creds         Credentials
	funder        string
	signatureType int
	http          *resty.Client
	negRisk       map[string]bool // token -> neg-risk market, filled from book fetches
}

// NewClient creates a venue client. An empty host selects the production
// endpoint; funder is the proxy wallet holding the collateral, empty means
// the signer address itself.
func NewClient(host string, chainID int64, privateKeyHex string, creds Credentials, funder string, signatureType int) (*Client, error) {
	if host == "" {
		host = "https://clob.polymarket.com"
	}
	if chainID == 0 {
		chainID = 137
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	address := crypto.PubkeyToAddress(privateKey.PublicKey)
	if funder == "" {
		funder = address.Hex()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(host, "/")).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "copycat/1.0")

	return &Client{
		host:          strings.TrimRight(host, "/"),
		chainID:       chainID,
		privateKey:    privateKey,
		address:       address,
		creds:         creds,
		funder:        funder,
		signatureType: signatureType,
		http:          httpClient,
		negRisk:       make(map[string]bool),
	}, nil
}

// Address returns the signer address derived from the private key.
func (c *Client) Address() common.Address {
	return c.address
}
