package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GOATNetwork/tvl-summary/internal/domain"
)

type mockTVLService struct {
	report domain.TVLReport
	err    error
}

func (m *mockTVLService) ComputeTVL(_ context.Context) (domain.TVLReport, error) {
	return m.report, m.err
}

func newTestRouter(svc TVLService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(svc))
}

func TestGetTVLSuccess(t *testing.T) {
	svc := &mockTVLService{
		report: domain.TVLReport{
			TotalTVL: "300005",
			NativeToken: domain.NativeRecord{
				TotalDepositUser:       "42",
				TotalBtcDepositTx:      "99",
				TotalBtcDepositAmount:  "2000000000000000000",
				TotalBtcWithdrawAmount: "500000000000000000",
				TotalBtcBurnAmount:     "0",
				PreDeposit:             "1.5",
				NormalizedSupply:       decimal.RequireFromString("3"),
				Price:                  decimal.RequireFromString("60000"),
				Amount:                 decimal.RequireFromString("180000"),
			},
			Tokens: []domain.TokenRecord{
				{
					TokenDescriptor: domain.TokenDescriptor{
						Address:  "0xfe41e7e5cB3460c483AB2A38eb605Cda9e2d248E",
						Symbol:   "BTCB",
						PriceKey: "btc",
					},
					TotalSupply:      "2000000000000000000",
					Decimals:         18,
					NormalizedSupply: decimal.RequireFromString("2"),
					Price:            decimal.RequireFromString("60000"),
					Amount:           decimal.RequireFromString("120000"),
				},
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/tvl", nil)
	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		TotalTVL    string `json:"totalTVL"`
		NativeToken struct {
			TotalSupplyDecimals string `json:"totalSupplyDecimals"`
			PreDeposit          string `json:"preDepositDecimals"`
			Amount              string `json:"amount"`
		} `json:"nativeToken"`
		Tokens []struct {
			Symbol      string `json:"symbol"`
			PriceKey    string `json:"coingeckoId"`
			TotalSupply string `json:"totalSupply"`
			Amount      string `json:"amount"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}

	if body.TotalTVL != "300005" {
		t.Errorf("totalTVL = %q, want 300005", body.TotalTVL)
	}
	if body.NativeToken.TotalSupplyDecimals != "3" {
		t.Errorf("native totalSupplyDecimals = %q, want 3", body.NativeToken.TotalSupplyDecimals)
	}
	if body.NativeToken.PreDeposit != "1.5" {
		t.Errorf("native preDepositDecimals = %q, want 1.5", body.NativeToken.PreDeposit)
	}
	if body.NativeToken.Amount != "180000" {
		t.Errorf("native amount = %q, want 180000", body.NativeToken.Amount)
	}
	if len(body.Tokens) != 1 || body.Tokens[0].Symbol != "BTCB" {
		t.Fatalf("tokens = %+v", body.Tokens)
	}
	if body.Tokens[0].PriceKey != "btc" {
		t.Errorf("coingeckoId = %q, want btc", body.Tokens[0].PriceKey)
	}
	if body.Tokens[0].Amount != "120000" {
		t.Errorf("token amount = %q, want 120000", body.Tokens[0].Amount)
	}
}

func TestGetTVLZeroTotalIsStill200(t *testing.T) {
	// Every upstream down: the engine degrades to a zero pass, not an error.
	svc := &mockTVLService{report: domain.TVLReport{TotalTVL: "0"}}

	req := httptest.NewRequest(http.MethodGet, "/tvl", nil)
	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["totalTVL"] != "0" {
		t.Errorf("totalTVL = %v, want \"0\"", body["totalTVL"])
	}
}

func TestGetTVLInternalError(t *testing.T) {
	svc := &mockTVLService{err: fmt.Errorf("orchestration broke")}

	req := httptest.NewRequest(http.MethodGet, "/tvl", nil)
	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error field in the 500 body")
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	newTestRouter(&mockTVLService{}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
