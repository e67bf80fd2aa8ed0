package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trialfit-scoring-server/internal/domain"
	"github.com/trialfit-scoring-server/internal/engine"
)

// Handlers bundles the scoring engine collaborators behind the HTTP surface.
// The report repository is optional; when nil, audit persistence is skipped.
type Handlers struct {
	orchestrator *engine.GateOrchestrator
	holistic     *engine.HolisticScorer
	batch        *engine.BatchScorer
	reports      domain.ReportRepository
	log          *logrus.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(
	orchestrator *engine.GateOrchestrator,
	holistic *engine.HolisticScorer,
	batch *engine.BatchScorer,
	reports domain.ReportRepository,
	logger *logrus.Logger,
) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		holistic:     holistic,
		batch:        batch,
		reports:      reports,
		log:          logger,
	}
}

// GatesApplyRequest is the wire form of a single gate-adjustment call.
type GatesApplyRequest struct {
	Drug           domain.DrugDescriptor   `json:"drug" binding:"required"`
	Efficacy       float64                 `json:"efficacy"`
	Confidence     float64                 `json:"confidence"`
	GermlineStatus string                  `json:"germline_status"`
	CancerType     string                  `json:"cancer_type"`
	Biomarkers     *domain.BiomarkerRecord `json:"biomarkers,omitempty"`
}

// ScoreTrialRequest is the wire form of a single patient-trial holistic score.
type ScoreTrialRequest struct {
	Patient       domain.PatientProfile  `json:"patient" binding:"required"`
	Trial         domain.TrialDescriptor `json:"trial" binding:"required"`
	Pharmacogenes []domain.PGxVariant    `json:"pharmacogenes,omitempty"`
	Drug          *domain.DrugDescriptor `json:"drug,omitempty"`
}

// ScoreBatchRequest is the wire form of a ranked multi-trial score.
type ScoreBatchRequest struct {
	Patient       domain.PatientProfile    `json:"patient" binding:"required"`
	Trials        []domain.TrialDescriptor `json:"trials" binding:"required"`
	Pharmacogenes []domain.PGxVariant      `json:"pharmacogenes,omitempty"`
}

// RiskBenefitDrugInput is one drug entry of a risk-benefit ranking request.
type RiskBenefitDrugInput struct {
	Name             string   `json:"name" binding:"required"`
	Efficacy         float64  `json:"efficacy"`
	ToxicityTier     *string  `json:"toxicity_tier,omitempty"`
	AdjustmentFactor *float64 `json:"adjustment_factor,omitempty"`
}

// RiskBenefitRequest ranks a set of candidate drugs for one patient.
type RiskBenefitRequest struct {
	Drugs []RiskBenefitDrugInput `json:"drugs" binding:"required"`
}

// RankedDrug is one entry of the risk-benefit ranking response.
type RankedDrug struct {
	Rank   int                      `json:"rank"`
	Name   string                   `json:"name"`
	Result domain.RiskBenefitResult `json:"result"`
}

// ApplyGates handles POST /api/v1/gates/apply.
func (h *Handlers) ApplyGates(c *gin.Context) {
	var req GatesApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid gate adjustment request", err)
		return
	}
	if req.Drug.Name == "" {
		h.badRequest(c, "drug name is required", nil)
		return
	}

	germline := domain.ParseGermlineStatus(req.GermlineStatus)
	result := h.orchestrator.ApplyGates(
		&req.Drug, req.Efficacy, req.Confidence, germline, req.Biomarkers, req.CancerType)

	reportID := h.saveReport(c.Request.Context(), domain.REPORT_GATES, req, result)
	c.JSON(http.StatusOK, gin.H{"result": result, "report_id": reportID})
}

// ScoreTrial handles POST /api/v1/trials/score.
func (h *Handlers) ScoreTrial(c *gin.Context) {
	var req ScoreTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid trial scoring request", err)
		return
	}
	if req.Trial.TrialID == "" {
		h.badRequest(c, "trial_id is required", nil)
		return
	}

	result := h.holistic.ComputeHolisticScore(
		c.Request.Context(), &req.Patient, &req.Trial, req.Pharmacogenes, req.Drug)

	reportID := h.saveReport(c.Request.Context(), domain.REPORT_HOLISTIC, req, result)
	c.JSON(http.StatusOK, gin.H{"result": result, "report_id": reportID})
}

// ScoreBatch handles POST /api/v1/trials/batch.
func (h *Handlers) ScoreBatch(c *gin.Context) {
	var req ScoreBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid batch scoring request", err)
		return
	}
	if len(req.Trials) == 0 {
		h.badRequest(c, "at least one trial is required", nil)
		return
	}

	summaries := h.batch.ComputeBatch(
		c.Request.Context(), &req.Patient, req.Trials, req.Pharmacogenes)

	reportID := h.saveReport(c.Request.Context(), domain.REPORT_BATCH, req, summaries)
	c.JSON(http.StatusOK, gin.H{"ranking": summaries, "report_id": reportID})
}

// RankRiskBenefit handles POST /api/v1/drugs/risk-benefit. Drugs are ranked
// by composite score descending; ties keep request order.
func (h *Handlers) RankRiskBenefit(c *gin.Context) {
	var req RiskBenefitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid risk-benefit request", err)
		return
	}
	if len(req.Drugs) == 0 {
		h.badRequest(c, "at least one drug is required", nil)
		return
	}

	ranked := make([]RankedDrug, 0, len(req.Drugs))
	for _, drug := range req.Drugs {
		var tier *domain.ToxicityTier
		if drug.ToxicityTier != nil {
			t := domain.ToxicityTier(*drug.ToxicityTier)
			if !t.IsValid() {
				h.badRequest(c, "invalid toxicity tier "+*drug.ToxicityTier, nil)
				return
			}
			tier = &t
		}
		result := engine.ComposeRiskBenefit(drug.Efficacy, tier, drug.AdjustmentFactor)
		ranked = append(ranked, RankedDrug{Name: drug.Name, Result: *result})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.CompositeScore > ranked[j].Result.CompositeScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	reportID := h.saveReport(c.Request.Context(), domain.REPORT_RISK_BENEFIT, req, ranked)
	c.JSON(http.StatusOK, gin.H{"ranking": ranked, "report_id": reportID})
}

// GetReport handles GET /api/v1/reports/:id.
func (h *Handlers) GetReport(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": h.serviceError(c, domain.ErrDatabaseError, "report store not configured")})
		return
	}

	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": h.serviceError(c, domain.ErrDatabaseError, "report not found")})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListReports handles GET /api/v1/reports?kind=HOLISTIC&limit=20.
func (h *Handlers) ListReports(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": h.serviceError(c, domain.ErrDatabaseError, "report store not configured")})
		return
	}

	kind := c.DefaultQuery("kind", domain.REPORT_HOLISTIC)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 500 {
		h.badRequest(c, "limit must be a positive integer up to 500", err)
		return
	}

	reports, err := h.reports.ListByKind(c.Request.Context(), kind, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.serviceError(c, domain.ErrDatabaseError, "failed to list reports")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// saveReport persists an audit record best-effort. Persistence failures are
// logged, never surfaced: scoring output is the priority.
func (h *Handlers) saveReport(ctx context.Context, kind string, request, result any) string {
	if h.reports == nil {
		return ""
	}

	reqJSON, err := json.Marshal(request)
	if err != nil {
		return ""
	}
	resJSON, err := json.Marshal(result)
	if err != nil {
		return ""
	}

	report := &domain.ScoreReport{
		ID:        uuid.New().String(),
		Kind:      kind,
		Request:   reqJSON,
		Result:    resJSON,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.reports.Save(ctx, report); err != nil {
		if h.log != nil {
			h.log.WithError(err).WithField("kind", kind).Warn("Failed to persist score report")
		}
		return ""
	}
	return report.ID
}

func (h *Handlers) badRequest(c *gin.Context, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": domain.NewServiceError(domain.ErrInvalidInput, message, details, c.GetString("correlation_id")),
	})
}

func (h *Handlers) serviceError(c *gin.Context, code, message string) *domain.ServiceError {
	return domain.NewServiceError(code, message, "", c.GetString("correlation_id"))
}
