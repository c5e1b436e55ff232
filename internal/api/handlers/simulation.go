package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"robo-advisor/internal/analysis"
	"robo-advisor/internal/api/models"
	"robo-advisor/internal/backtest"
	"robo-advisor/internal/catalog"
	"robo-advisor/internal/config"
	"robo-advisor/internal/data"
	"robo-advisor/internal/logging"
	"robo-advisor/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimulationHandler handles back-test requests
type SimulationHandler struct {
	sim      *backtest.Simulator
	catalog  *catalog.Catalog
	defaults config.SimulationConfig
	store    *ResultStore
	log      *zap.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(sim *backtest.Simulator, cat *catalog.Catalog, defaults config.SimulationConfig, store *ResultStore, log *zap.Logger) *SimulationHandler {
	if store == nil {
		store = NewResultStore(0)
	}
	log = logging.OrNop(log)
	return &SimulationHandler{
		sim:      sim,
		catalog:  cat,
		defaults: defaults,
		store:    store,
		log:      log.Named("simulation"),
	}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidInput, err.Error(), nil)
		return
	}

	weights, err := h.resolveWeights(req)
	if err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidInput, err.Error(), nil)
		return
	}
	settings := config.MergeSimulation(h.defaults, config.SimulationConfig{
		Initial:       req.Initial,
		LookbackYears: req.LookbackYears,
	})

	res, err := h.sim.Simulate(c.Request.Context(), model.SimulationInputs{
		Weights:       weights,
		Initial:       settings.Initial,
		LookbackYears: settings.LookbackYears,
	})
	if err != nil {
		h.respondSimulationError(c, err)
		return
	}

	id := h.store.Put(res)
	resp := models.SimulationResponse{
		ID:     id,
		Status: "complete",
		Inputs: models.SimulationInputs{
			Bucket:        req.Bucket,
			Weights:       weights,
			Initial:       settings.Initial,
			LookbackYears: settings.LookbackYears,
		},
		Summary:  buildSummary(res),
		Yearly:   buildYearly(res.Yearly),
		Holdings: buildHoldings(res),
		Warnings: buildWarnings(res.Warnings),
	}
	if len(res.Warnings) > 0 {
		resp.Status = "partial"
	}
	if req.IncludeSeries {
		resp.Series = buildSeries(res.Ledger)
	}
	c.JSON(http.StatusOK, resp)
}

// GetSeries handles GET /api/v1/simulations/:id/series
func (h *SimulationHandler) GetSeries(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidInput, "invalid simulation id", nil)
		return
	}
	res, ok := h.store.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, models.CodeNotFound, fmt.Sprintf("simulation %s not found", id), nil)
		return
	}
	var buf bytes.Buffer
	if err := backtest.WriteLedger(&buf, res.Ledger); err != nil {
		respondError(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "simulation_"+id+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// CompareSimulations handles POST /api/v1/simulations/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	// An empty body compares with the defaults.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, models.CodeInvalidInput, err.Error(), nil)
		return
	}
	settings := config.MergeSimulation(h.defaults, config.SimulationConfig{
		Initial:       req.Initial,
		LookbackYears: req.LookbackYears,
	})

	buckets := model.AllBuckets()
	weights := make([]map[string]float64, len(buckets))
	for i, b := range buckets {
		p, err := h.catalog.Portfolio(b)
		if err != nil {
			respondError(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
			return
		}
		weights[i] = p.Weights()
	}

	results, err := h.sim.SimulateBatch(c.Request.Context(), weights, settings.Initial, settings.LookbackYears)
	if err != nil {
		h.respondSimulationError(c, err)
		return
	}

	cands := make([]analysis.Candidate, len(buckets))
	resp := models.CompareResponse{}
	seen := map[string]bool{}
	for i, b := range buckets {
		cands[i] = analysis.Candidate{Bucket: b, Result: results[i]}
		if results[i] == nil {
			resp.Skipped = append(resp.Skipped, int(b))
			continue
		}
		for _, w := range results[i].Warnings {
			if !seen[w.Ticker] {
				seen[w.Ticker] = true
				resp.Warnings = append(resp.Warnings, models.WarningInfo{Ticker: w.Ticker, Message: w.String()})
			}
		}
	}
	sort.Slice(resp.Warnings, func(i, j int) bool { return resp.Warnings[i].Ticker < resp.Warnings[j].Ticker })

	for _, r := range analysis.RankBySharpe(cands) {
		resp.Comparison = append(resp.Comparison, models.ComparisonResult{
			Rank:    r.Rank,
			Bucket:  int(r.Bucket),
			Label:   r.Bucket.Label(),
			Summary: buildSummary(results[r.Bucket]),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SimulationHandler) resolveWeights(req models.SimulationRequest) (map[string]float64, error) {
	switch {
	case req.Bucket != nil && len(req.Weights) > 0:
		return nil, errors.New("set either bucket or weights, not both")
	case req.Bucket != nil:
		b := model.Bucket(*req.Bucket)
		if !b.Valid() {
			return nil, fmt.Errorf("bucket %d out of range [0,%d]", *req.Bucket, model.NumBuckets-1)
		}
		p, err := h.catalog.Portfolio(b)
		if err != nil {
			return nil, err
		}
		return p.Weights(), nil
	case len(req.Weights) > 0:
		return req.Weights, nil
	default:
		return nil, errors.New("bucket or weights is required")
	}
}

func (h *SimulationHandler) respondSimulationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, backtest.ErrInvalidSimulation):
		respondError(c, http.StatusBadRequest, models.CodeInvalidInput, err.Error(), nil)
	case errors.Is(err, backtest.ErrDataUnavailable):
		h.log.Warn("simulation without data", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, models.CodeDataUnavailable,
			"Historical data is unavailable for every requested ticker. Try again later.",
			map[string]interface{}{"reason": err.Error()})
	default:
		h.log.Error("simulation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
	}
}

func buildSummary(res *backtest.Result) models.SimulationSummary {
	s := res.Stats
	return models.SimulationSummary{
		Initial:             s.Initial,
		Final:               s.Final,
		Profit:              s.Profit,
		TotalReturnPct:      s.TotalReturnPct,
		AnnualizedReturnPct: s.AnnualizedReturnPct(),
		VolatilityPct:       s.VolatilityPct,
		Sharpe:              s.Sharpe,
		MaxDrawdownPct:      s.MaxDrawdownPct,
		TradingDays:         s.TradingDays,
		Years:               s.Years,
		Window:              models.TimeWindow{Start: res.Start, End: res.End},
	}
}

func buildYearly(yearly []backtest.YearReturn) []models.YearReturn {
	out := make([]models.YearReturn, len(yearly))
	for i, y := range yearly {
		out[i] = models.YearReturn{
			Year:      y.Year,
			ReturnPct: y.ReturnPct,
			Trend:     model.TrendFromReturn(y.ReturnPct),
		}
	}
	return out
}

func buildHoldings(res *backtest.Result) []models.HoldingSummary {
	sums := analysis.SummarizeAll(res.Series)
	out := make([]models.HoldingSummary, len(sums))
	for i, s := range sums {
		out[i] = models.HoldingSummary{
			Ticker:         s.Ticker,
			Weight:         res.Weights[s.Ticker],
			Count:          s.Count,
			MinClose:       s.MinClose,
			MaxClose:       s.MaxClose,
			MeanClose:      s.MeanClose,
			P05ReturnPct:   s.P05ReturnPct,
			P95ReturnPct:   s.P95ReturnPct,
			TotalReturnPct: s.TotalReturnPct,
			Trend:          s.Trend,
		}
	}
	return out
}

func buildWarnings(ws []data.Warning) []models.WarningInfo {
	if len(ws) == 0 {
		return nil
	}
	out := make([]models.WarningInfo, len(ws))
	for i, w := range ws {
		out[i] = models.WarningInfo{Ticker: w.Ticker, Message: w.String()}
	}
	return out
}

func buildSeries(ledger []backtest.LedgerRow) []models.ValuePoint {
	out := make([]models.ValuePoint, len(ledger))
	for i, r := range ledger {
		out[i] = models.ValuePoint{
			Date:   r.Date.Format(time.DateOnly),
			Return: r.Return,
			Value:  r.Value,
		}
	}
	return out
}
