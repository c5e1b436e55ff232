package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"robo-advisor/internal/api/models"
	"robo-advisor/internal/catalog"
	"robo-advisor/internal/logging"
	"robo-advisor/internal/model"
	"robo-advisor/internal/scoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PortfolioHandler serves the model portfolios and ETF reference data.
type PortfolioHandler struct {
	catalog *catalog.Catalog
	log     *zap.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(cat *catalog.Catalog, log *zap.Logger) *PortfolioHandler {
	log = logging.OrNop(log)
	return &PortfolioHandler{catalog: cat, log: log.Named("portfolio")}
}

// ListPortfolios handles GET /api/v1/portfolios
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	out := make([]models.PortfolioResponse, 0, model.NumBuckets)
	for _, b := range model.AllBuckets() {
		p, err := h.catalog.Portfolio(b)
		if err != nil {
			respondError(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
			return
		}
		out = append(out, h.portfolioResponse(b, p))
	}
	c.JSON(http.StatusOK, gin.H{"portfolios": out})
}

// GetPortfolio handles GET /api/v1/portfolios/:bucket
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	b, p, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.portfolioResponse(b, p))
}

// ExportPortfolio handles GET /api/v1/portfolios/:bucket/export
func (h *PortfolioHandler) ExportPortfolio(c *gin.Context) {
	b, p, ok := h.lookup(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := catalog.WritePortfolioCSV(&buf, p, h.catalog); err != nil {
		h.log.Error("export failed", zap.Stringer("bucket", b), zap.Error(err))
		respondError(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", catalog.ExportFilename(b)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ListETFs handles GET /api/v1/etfs
func (h *PortfolioHandler) ListETFs(c *gin.Context) {
	c.JSON(http.StatusOK, models.ETFListResponse{ETFs: h.catalog.ETFs()})
}

// GetETF handles GET /api/v1/etfs/:ticker
func (h *PortfolioHandler) GetETF(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	info, err := h.catalog.ETF(ticker)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownTicker) {
			respondError(c, http.StatusNotFound, models.CodeNotFound, err.Error(), nil)
			return
		}
		respondError(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *PortfolioHandler) lookup(c *gin.Context) (model.Bucket, model.Portfolio, bool) {
	b, err := model.ParseBucket(c.Param("bucket"))
	if err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidInput, err.Error(), nil)
		return 0, nil, false
	}
	p, err := h.catalog.Portfolio(b)
	if err != nil {
		respondError(c, http.StatusNotFound, models.CodeNotFound, err.Error(), nil)
		return 0, nil, false
	}
	return b, p, true
}

func (h *PortfolioHandler) portfolioResponse(b model.Bucket, p model.Portfolio) models.PortfolioResponse {
	return models.PortfolioResponse{
		Bucket:      int(b),
		Label:       b.Label(),
		RiskLevel:   b.RiskLevel(),
		Description: scoring.Describe(b),
		Holdings:    holdingInfos(h.catalog, p),
	}
}
