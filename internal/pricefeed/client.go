// Package pricefeed fetches USD spot prices for all tracked assets in a
// single batched request.
package pricefeed

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PriceMap maps lowercased price keys to USD spot prices.
type PriceMap map[string]decimal.Decimal

// Client talks to a cryptocompare-style pricemulti API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new price feed client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Prices fetches USD quotes for every key in one round trip. Keys are
// case-normalized (uppercased, deduplicated) on the request and lowercased
// on the response, so lookups elsewhere always use lowercase.
func (c *Client) Prices(ctx context.Context, keys []string) (PriceMap, error) {
	if len(keys) == 0 {
		return PriceMap{}, nil
	}

	symbols := lo.Uniq(lo.Map(keys, func(k string, _ int) string {
		return strings.ToUpper(k)
	}))
	url := fmt.Sprintf("%s/data/pricemulti?fsyms=%s&tsyms=USD", c.baseURL, strings.Join(symbols, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating price request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading price response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price API HTTP %d: %s", resp.StatusCode, string(body))
	}

	// Quotes are decoded as json.Number and parsed into decimals directly;
	// float64 never enters the money path.
	var raw map[string]struct {
		USD stdjson.Number `json:"USD"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing price response: %w", err)
	}

	prices := make(PriceMap, len(raw))
	for symbol, quote := range raw {
		price, err := decimal.NewFromString(quote.USD.String())
		if err != nil {
			return nil, fmt.Errorf("invalid USD quote %q for %s: %w", quote.USD.String(), symbol, err)
		}
		prices[strings.ToLower(symbol)] = price
	}
	return prices, nil
}
