package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GOATNetwork/tvl-summary/internal/domain"
)

// TVLService runs one valuation pass per call.
type TVLService interface {
	ComputeTVL(ctx context.Context) (domain.TVLReport, error)
}

// Handler provides the HTTP endpoints of the TVL API.
type Handler struct {
	tvl TVLService
}

// NewHandler creates a new API handler.
func NewHandler(tvl TVLService) *Handler {
	return &Handler{tvl: tvl}
}

// GetTVL handles GET /tvl. Upstream failures never surface here: a degraded
// pass still answers 200 with best-effort data. Only an orchestration
// failure (cancelled request) produces a 500.
func (h *Handler) GetTVL(c *gin.Context) {
	report, err := h.tvl.ComputeTVL(c.Request.Context())
	if err != nil {
		slog.Error("valuation pass failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate TVL"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
