package clob

import (
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

// Exchange contracts on Polygon. Orders are signed against the EIP-712
// domain of the exchange that settles the market: neg-risk (multi-outcome)
// markets trade on the NegRisk CTF Exchange, everything else on the standard
// one.
const (
	ctfExchangeAddress        = "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"
	negRiskCtfExchangeAddress = "0xC5d563A36AE78145C45a50134d48A1215220f80a"
)

// buildHmacSignature builds the L2 request signature: HMAC-SHA256 over
// timestamp + method + path + body, keyed with the base64 API secret, with a
// URL-safe base64 result. The secret may arrive in base64url form.
func buildHmacSignature(secret string, timestamp int64, method, requestPath string, body *string) (string, error) {
	message := strconv.FormatInt(timestamp, 10) + method + requestPath
	if body != nil {
		message += *body
	}

	sanitized := strings.ReplaceAll(secret, "-", "+")
	sanitized = strings.ReplaceAll(sanitized, "_", "/")
	keyData, err := base64.StdEncoding.DecodeString(sanitized)
	if err != nil {
		return "", errors.Wrap(err, "decode api secret")
	}

	mac := hmac.New(sha256.New, keyData)
	mac.Write([]byte(message))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	sig = strings.ReplaceAll(sig, "+", "-")
	sig = strings.ReplaceAll(sig, "/", "_")
	return sig, nil
}

// l2Headers builds the POLY_* authentication headers for an L2 request. The
// body string must be byte-identical to the request body actually sent.
func (c *Client) l2Headers(method, requestPath string, body *string) (map[string]string, error) {
	ts := time.Now().Unix()
	sig, err := buildHmacSignature(c.creds.Secret, ts, method, requestPath, body)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"POLY_ADDRESS":    c.address.Hex(),
		"POLY_SIGNATURE":  sig,
		"POLY_TIMESTAMP":  strconv.FormatInt(ts, 10),
		"POLY_API_KEY":    c.creds.Key,
		"POLY_PASSPHRASE": c.creds.Passphrase,
	}, nil
}

// orderData carries the fields covered by the order signature.
type orderData struct {
	Salt          int64
	Maker         string
	Signer        string
	Taker         string
	TokenID       *big.Int
	MakerAmount   *big.Int
	TakerAmount   *big.Int
	Expiration    *big.Int
	Nonce         *big.Int
	FeeRateBps    *big.Int
	Side          uint8 // BUY = 0, SELL = 1
	SignatureType int
}

// buildOrderSignature signs the order as EIP-712 typed data against the
// given exchange contract's domain.
func buildOrderSignature(privateKey *ecdsa.PrivateKey, chainID int64, exchangeAddress string, od *orderData) (string, error) {
	domain := apitypes.TypedDataDomain{
		Name:              "Polymarket CTF Exchange",
		Version:           "1",
		ChainId:           math.NewHexOrDecimal256(chainID),
		VerifyingContract: exchangeAddress,
	}

	typeDefs := apitypes.Types{
		"EIP712Domain": {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
		"Order": {
			{Name: "salt", Type: "uint256"},
			{Name: "maker", Type: "address"},
			{Name: "signer", Type: "address"},
			{Name: "taker", Type: "address"},
			{Name: "tokenId", Type: "uint256"},
			{Name: "makerAmount", Type: "uint256"},
			{Name: "takerAmount", Type: "uint256"},
			{Name: "expiration", Type: "uint256"},
			{Name: "nonce", Type: "uint256"},
			{Name: "feeRateBps", Type: "uint256"},
			{Name: "side", Type: "uint8"},
			{Name: "signatureType", Type: "uint8"},
		},
	}

	message := map[string]interface{}{
		"salt":          big.NewInt(od.Salt),
		"maker":         common.HexToAddress(od.Maker).Hex(),
		"signer":        common.HexToAddress(od.Signer).Hex(),
		"taker":         common.HexToAddress(od.Taker).Hex(),
		"tokenId":       od.TokenID,
		"makerAmount":   od.MakerAmount,
		"takerAmount":   od.TakerAmount,
		"expiration":    od.Expiration,
		"nonce":         od.Nonce,
		"feeRateBps":    od.FeeRateBps,
		"side":          big.NewInt(int64(od.Side)),
		"signatureType": big.NewInt(int64(od.SignatureType)),
	}

	typedData := apitypes.TypedData{
		Types:       typeDefs,
		PrimaryType: "Order",
		Domain:      domain,
		Message:     message,
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return "", errors.Wrap(err, "hash order")
	}

	signature, err := crypto.Sign(hash, privateKey)
	if err != nil {
		return "", errors.Wrap(err, "sign order")
	}
	return "0x" + common.Bytes2Hex(signature), nil
}
