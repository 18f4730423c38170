// Package explorer fetches token supply and precision from the chain
// explorer's token-info API.
package explorer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenInfo is the on-chain metadata of one token contract.
type TokenInfo struct {
	TotalSupply string
	Decimals    int32
}

// Client talks to an explorer-style API (GET /api/v2/tokens/{address}).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new explorer API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TokenInfo fetches total supply and decimal precision for the token at
// address. Any transport failure, non-200 status or malformed body is
// returned as an error; the caller decides how to degrade.
func (c *Client) TokenInfo(ctx context.Context, address string) (TokenInfo, error) {
	url := fmt.Sprintf("%s/api/v2/tokens/%s", c.baseURL, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("creating explorer request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("reading explorer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return TokenInfo{}, fmt.Errorf("explorer HTTP %d for %s: %s", resp.StatusCode, address, string(body))
	}

	// The explorer serves decimals as a number on some deployments and as a
	// string on others.
	var raw struct {
		TotalSupply string `json:"total_supply"`
		Decimals    any    `json:"decimals"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return TokenInfo{}, fmt.Errorf("parsing explorer response for %s: %w", address, err)
	}
	if raw.TotalSupply == "" {
		return TokenInfo{}, fmt.Errorf("explorer response for %s has no total_supply", address)
	}

	decimals, err := parseDecimals(raw.Decimals)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("explorer response for %s: %w", address, err)
	}

	return TokenInfo{TotalSupply: raw.TotalSupply, Decimals: decimals}, nil
}

func parseDecimals(v any) (int32, error) {
	switch d := v.(type) {
	case float64:
		if d < 0 {
			return 0, fmt.Errorf("negative decimals %v", d)
		}
		return int32(d), nil
	case string:
		n, err := strconv.ParseInt(d, 10, 32)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid decimals %q", d)
		}
		return int32(n), nil
	case nil:
		return 0, fmt.Errorf("missing decimals")
	default:
		return 0, fmt.Errorf("unexpected decimals type %T", v)
	}
}
