// Package registry holds the static set of tracked assets. The default set
// matches the production bridge deployment; a YAML file can override it.
package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/GOATNetwork/tvl-summary/internal/domain"
)

// NativePriceKey is the price-feed symbol for the bridge's native asset.
const NativePriceKey = "btc"

// defaultTokens is unexported to prevent external mutation; Tokens returns
// a copy.
var defaultTokens = []domain.TokenDescriptor{
	{Address: "0xfe41e7e5cB3460c483AB2A38eb605Cda9e2d248E", Symbol: "BTCB", PriceKey: "btc"},
	{Address: "0x1E0d0303a8c4aD428953f5ACB1477dB42bb838cf", Symbol: "DOGEB", PriceKey: "doge"},
	{Address: "0x3a1293Bdb83bBbDd5Ebf4fAc96605aD2021BbC0f", Symbol: "WETH", PriceKey: "weth"},
	{Address: "0x3022b87ac063DE95b1570F46f5e470F8B53112D8", Symbol: "USDC", PriceKey: "usdc"},
	{Address: "0xE1AD845D93853fff44990aE0DcecD8575293681e", Symbol: "USDT", PriceKey: "usdt"},
	{Address: "0xaFB068838136358CFa6B54BEa580B86DF70BBA7f", Symbol: "esBTC", PriceKey: "btc"},
	{Address: "0xB813A2e84Cb44C7657a7898961C78d734d1Fb466", Symbol: "elBTC", PriceKey: "btc"},
}

// Registry is an immutable list of tracked token descriptors.
type Registry struct {
	tokens []domain.TokenDescriptor
}

// Load builds the registry: from the YAML file at path when given, otherwise
// from the built-in defaults. Descriptors are validated either way.
func Load(path string) (*Registry, error) {
	if path == "" {
		return newRegistry(defaultTokens)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tokens file: %w", err)
	}

	var file struct {
		Tokens []domain.TokenDescriptor `yaml:"tokens"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tokens file %s: %w", path, err)
	}
	if len(file.Tokens) == 0 {
		return nil, fmt.Errorf("tokens file %s contains no tokens", path)
	}
	return newRegistry(file.Tokens)
}

func newRegistry(tokens []domain.TokenDescriptor) (*Registry, error) {
	out := make([]domain.TokenDescriptor, 0, len(tokens))
	for _, t := range tokens {
		if err := validate(t); err != nil {
			return nil, err
		}
		// Checksummed address form, lowercased price key: the canonical
		// shapes the explorer and price feed are queried with.
		t.Address = common.HexToAddress(t.Address).Hex()
		t.PriceKey = strings.ToLower(t.PriceKey)
		out = append(out, t)
	}
	return &Registry{tokens: out}, nil
}

func validate(t domain.TokenDescriptor) error {
	if !common.IsHexAddress(t.Address) {
		return fmt.Errorf("token %q: invalid address %q", t.Symbol, t.Address)
	}
	if t.Symbol == "" {
		return fmt.Errorf("token %s: empty symbol", t.Address)
	}
	if t.PriceKey == "" {
		return fmt.Errorf("token %q: empty price key", t.Symbol)
	}
	return nil
}

// Tokens returns the descriptors in registry order. The returned slice is a
// copy; callers cannot mutate the registry through it.
func (r *Registry) Tokens() []domain.TokenDescriptor {
	out := make([]domain.TokenDescriptor, len(r.tokens))
	copy(out, r.tokens)
	return out
}

// PriceKeys returns the price-lookup keys for every tracked asset, native
// included.
func (r *Registry) PriceKeys() []string {
	keys := make([]string, 0, len(r.tokens)+1)
	for _, t := range r.tokens {
		keys = append(keys, t.PriceKey)
	}
	return append(keys, NativePriceKey)
}
