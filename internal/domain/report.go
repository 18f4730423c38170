package domain

import "github.com/shopspring/decimal"

// TokenDescriptor identifies one bridged token. Descriptors are static
// configuration: created once at startup and never mutated.
type TokenDescriptor struct {
	Address  string `json:"address" yaml:"address"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	PriceKey string `json:"coingeckoId" yaml:"priceKey"`
}

// TokenRecord is the fully valued state of one bridged token for a single
// valuation pass. Records are built fresh every pass; nothing here is shared
// between requests.
type TokenRecord struct {
	TokenDescriptor

	TotalSupply      string          `json:"totalSupply,omitempty"`
	Decimals         int32           `json:"decimals"`
	NormalizedSupply decimal.Decimal `json:"totalSupplyDecimals"`
	Price            decimal.Decimal `json:"price"`
	Amount           decimal.Decimal `json:"amount"`

	// Degraded marks a record that was zero-valued because upstream data
	// (metadata or price) was unavailable for this pass.
	Degraded bool `json:"degraded"`
}

// NativeRecord is the valued state of the bridge's native position, tracked
// via ledger counters rather than a token contract.
type NativeRecord struct {
	TotalDepositUser       string `json:"totalDepositUser"`
	TotalBtcDepositTx      string `json:"totalBtcDepositTx"`
	TotalBtcDepositAmount  string `json:"totalBtcDepositAmount"`
	TotalBtcWithdrawAmount string `json:"totalBtcWithdrawAmount"`
	TotalBtcBurnAmount     string `json:"totalBtcBurnAmount"`

	PreDeposit       string          `json:"preDepositDecimals"`
	NormalizedSupply decimal.Decimal `json:"totalSupplyDecimals"`
	Price            decimal.Decimal `json:"price"`
	Amount           decimal.Decimal `json:"amount"`
	Degraded         bool            `json:"degraded"`
}

// TVLReport is the top-level output of one valuation pass.
type TVLReport struct {
	TotalTVL    string        `json:"totalTVL"`
	NativeToken NativeRecord  `json:"nativeToken"`
	Tokens      []TokenRecord `json:"tokens"`
}
