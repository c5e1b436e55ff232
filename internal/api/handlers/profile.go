package handlers

import (
	"errors"
	"net/http"

	"robo-advisor/internal/api/models"
	"robo-advisor/internal/catalog"
	"robo-advisor/internal/logging"
	"robo-advisor/internal/model"
	"robo-advisor/internal/scoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler serves the questionnaire and scores answers.
type ProfileHandler struct {
	catalog *catalog.Catalog
	log     *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(cat *catalog.Catalog, log *zap.Logger) *ProfileHandler {
	log = logging.OrNop(log)
	return &ProfileHandler{catalog: cat, log: log.Named("profile")}
}

// GetQuestionnaire handles GET /api/v1/questionnaire
func (h *ProfileHandler) GetQuestionnaire(c *gin.Context) {
	qs := scoring.Options()
	out := make([]models.QuestionInfo, len(qs))
	for i, q := range qs {
		out[i] = models.QuestionInfo{
			Field:   q.Field,
			Prompt:  q.Prompt,
			Kind:    q.Kind,
			Min:     q.Min,
			Max:     q.Max,
			Default: q.Default,
			Options: q.Options,
		}
	}
	c.JSON(http.StatusOK, models.QuestionnaireResponse{
		Questions:  out,
		MaxScore:   scoring.MaxScore,
		Disclaimer: scoring.Disclaimer,
	})
}

// CreateProfile handles POST /api/v1/profile
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidInput, err.Error(), nil)
		return
	}

	bucket, total, err := scoring.Score(req.Answers())
	if err != nil {
		var fe *scoring.FieldError
		if errors.As(err, &fe) {
			respondError(c, http.StatusBadRequest, models.CodeInvalidInput, err.Error(), map[string]interface{}{
				"field": fe.Field,
				"value": fe.Value,
			})
			return
		}
		respondError(c, http.StatusBadRequest, models.CodeInvalidInput, err.Error(), nil)
		return
	}

	p, err := h.catalog.Portfolio(bucket)
	if err != nil {
		respondError(c, http.StatusInternalServerError, models.CodeInternal, err.Error(), nil)
		return
	}

	h.log.Debug("profile scored", zap.Int("score", total), zap.Stringer("bucket", bucket))
	c.JSON(http.StatusOK, models.ProfileResponse{
		Bucket:      int(bucket),
		Label:       bucket.Label(),
		RiskLevel:   bucket.RiskLevel(),
		Score:       total,
		MaxScore:    scoring.MaxScore,
		Description: scoring.Describe(bucket),
		Portfolio:   holdingInfos(h.catalog, p),
		Disclaimer:  scoring.Disclaimer,
	})
}

// holdingInfos joins holdings with their reference data.
func holdingInfos(cat *catalog.Catalog, p model.Portfolio) []models.HoldingInfo {
	out := make([]models.HoldingInfo, len(p))
	for i, hld := range p {
		out[i] = models.HoldingInfo{
			Ticker:    hld.Ticker,
			Weight:    hld.Weight,
			WeightPct: catalog.WeightPercent(hld.Weight),
		}
		if info, err := cat.ETF(hld.Ticker); err == nil {
			out[i].Name = info.Name
			out[i].AssetType = info.AssetType
			out[i].Risk = info.Risk
			out[i].Color = info.Color
		}
	}
	return out
}
