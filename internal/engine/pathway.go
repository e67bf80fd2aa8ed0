package engine

import (
	"math"
	"strings"

	"github.com/trialfit-scoring-server/internal/domain"
)

// Ovarian resistance model pathways.
const (
	PathwayDDR  = "DDR"
	PathwayPI3K = "PI3K"
	PathwayVEGF = "VEGF"
)

// IO response model pathways.
const (
	PathwayIFNGamma       = "IFN_GAMMA"
	PathwayTCellInflamed  = "T_CELL_INFLAMED"
	PathwayAntigenPres    = "ANTIGEN_PRESENTATION"
	PathwayCytotoxic      = "CYTOTOXIC_ACTIVITY"
	PathwayCheckpointExpr = "CHECKPOINT_EXPRESSION"
	PathwayTGFBeta        = "TGF_BETA"
	PathwayAngiogenesis   = "ANGIOGENESIS"
	PathwayMyeloid        = "MYELOID_INFLAMMATION"
)

// ovarianGeneSets are the fixed gene sets backing the ovarian
// platinum/PARP resistance model.
var ovarianGeneSets = map[string][]string{
	PathwayDDR:  {"BRCA1", "BRCA2", "RAD51", "ATM", "ATR", "CHEK1", "CHEK2", "PALB2", "FANCA", "BARD1"},
	PathwayPI3K: {"PIK3CA", "PIK3R1", "AKT1", "AKT2", "MTOR", "PTEN"},
	PathwayVEGF: {"VEGFA", "VEGFB", "KDR", "FLT1", "FLT4", "HIF1A"},
}

// ovarianPathwayWeights are the fixed composite weights; DDR and PI3K
// dominate per the model's empirical validation.
var ovarianPathwayWeights = map[string]float64{
	PathwayDDR:  0.45,
	PathwayPI3K: 0.35,
	PathwayVEGF: 0.20,
}

// ioGeneSets are the fixed gene sets backing the checkpoint-inhibitor
// response model.
var ioGeneSets = map[string][]string{
	PathwayIFNGamma:       {"IFNG", "STAT1", "IDO1", "CXCL9", "CXCL10", "HLA-DRA"},
	PathwayTCellInflamed:  {"CD8A", "CD3E", "GZMK", "CCL5", "NKG7", "CXCR6"},
	PathwayAntigenPres:    {"HLA-A", "HLA-B", "HLA-C", "B2M", "TAP1", "TAP2"},
	PathwayCytotoxic:      {"GZMA", "GZMB", "PRF1", "KLRK1"},
	PathwayCheckpointExpr: {"PDCD1", "CD274", "PDCD1LG2", "CTLA4", "LAG3", "HAVCR2"},
	PathwayTGFBeta:        {"TGFB1", "TGFBR1", "TGFBR2", "SMAD3"},
	PathwayAngiogenesis:   {"VEGFA", "KDR", "ANGPT2", "TEK"},
	PathwayMyeloid:        {"CXCL1", "CXCL8", "IL6", "PTGS2", "CCL2"},
}

// ioLogisticCoefficients are fixed, unstandardized coefficients from the
// validation cohort (n=312). They are not user-tunable.
var ioLogisticCoefficients = map[string]float64{
	PathwayIFNGamma:       1.90,
	PathwayTCellInflamed:  1.60,
	PathwayAntigenPres:    1.10,
	PathwayCytotoxic:      1.40,
	PathwayCheckpointExpr: 0.80,
	PathwayTGFBeta:        -1.20,
	PathwayAngiogenesis:   -0.90,
	PathwayMyeloid:        -0.70,
}

// ioLogisticIntercept is the validated intercept of the IO response model.
const ioLogisticIntercept = -2.10

// expressionLogNorm normalizes mean log2(x+1) pathway aggregates onto [0,1].
// 10.0 corresponds to saturating expression (~1000 TPM) in the model's units.
const expressionLogNorm = 10.0

// minGeneCoverage is the minimum fraction of a model's genes that must be
// present in the expression matrix for its prediction to be trusted.
const minGeneCoverage = 0.5

// ovarianValidatedCancerTypes are the cancer types the ovarian resistance
// model has been validated for.
var ovarianValidatedCancerTypes = []string{"ovarian", "ovary", "fallopian tube", "peritoneal"}

// ioValidatedCancerTypes are the cancer types the IO response model has been
// validated for.
var ioValidatedCancerTypes = []string{
	"melanoma", "lung", "nsclc", "bladder", "urothelial",
	"renal", "kidney", "head and neck", "gastric", "colorectal",
}

// normalizeExpression uppercases gene symbols so gene-set lookups are
// case-insensitive.
func normalizeExpression(expr map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(expr))
	for gene, value := range expr {
		out[strings.ToUpper(strings.TrimSpace(gene))] = value
	}
	return out
}

// geneSetScore computes the mean log2(value+1) over the genes of one set that
// are present in the expression matrix, normalized onto [0,1]. It returns the
// score and the fraction of set genes covered.
func geneSetScore(expr map[string]float64, genes []string) (float64, float64) {
	var sum float64
	var present int
	for _, gene := range genes {
		value, ok := expr[gene]
		if !ok {
			continue
		}
		if value < 0 {
			value = 0
		}
		sum += math.Log2(value + 1)
		present++
	}
	if present == 0 {
		return 0, 0
	}
	mean := sum / float64(present)
	return clamp01(mean / expressionLogNorm), float64(present) / float64(len(genes))
}

// scoreGeneSets computes per-pathway scores and the overall gene coverage for
// one model's gene sets.
func scoreGeneSets(expr map[string]float64, geneSets map[string][]string, pathways []string) (domain.PathwayScores, float64) {
	normalized := normalizeExpression(expr)
	scores := make(domain.PathwayScores, len(pathways))
	var coverageSum float64
	for _, pathway := range pathways {
		score, coverage := geneSetScore(normalized, geneSets[pathway])
		scores[pathway] = score
		coverageSum += coverage
	}
	return scores, coverageSum / float64(len(pathways))
}

// ComputeOvarianPathwayScores computes DDR/PI3K/VEGF scores from expression
// data, returning the per-pathway scores and mean gene coverage.
func ComputeOvarianPathwayScores(expr map[string]float64) (domain.PathwayScores, float64) {
	return scoreGeneSets(expr, ovarianGeneSets, []string{PathwayDDR, PathwayPI3K, PathwayVEGF})
}

// OvarianResistanceComposite combines ovarian pathway scores with the fixed
// empirical weights.
func OvarianResistanceComposite(scores domain.PathwayScores) float64 {
	var composite float64
	for pathway, weight := range ovarianPathwayWeights {
		composite += weight * scores[pathway]
	}
	return clamp01(composite)
}

// ComputeIOPathwayScores computes the eight IO response pathway scores from
// expression data, returning the per-pathway scores and mean gene coverage.
func ComputeIOPathwayScores(expr map[string]float64) (domain.PathwayScores, float64) {
	return scoreGeneSets(expr, ioGeneSets, []string{
		PathwayIFNGamma, PathwayTCellInflamed, PathwayAntigenPres, PathwayCytotoxic,
		PathwayCheckpointExpr, PathwayTGFBeta, PathwayAngiogenesis, PathwayMyeloid,
	})
}

// IOResponseComposite combines IO pathway scores through the fixed-coefficient
// logistic model.
func IOResponseComposite(scores domain.PathwayScores) float64 {
	z := ioLogisticIntercept
	for pathway, coefficient := range ioLogisticCoefficients {
		z += coefficient * scores[pathway]
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// cancerTypeValidated reports whether the supplied cancer type matches one of
// a model's validated types, case-insensitively.
func cancerTypeValidated(cancerType string, validated []string) bool {
	ct := strings.ToLower(strings.TrimSpace(cancerType))
	if ct == "" {
		return false
	}
	for _, v := range validated {
		if strings.Contains(ct, v) {
			return true
		}
	}
	return false
}

// OvarianModelValidatedFor reports whether the ovarian resistance model is
// validated for the cancer type.
func OvarianModelValidatedFor(cancerType string) bool {
	return cancerTypeValidated(cancerType, ovarianValidatedCancerTypes)
}

// IOModelValidatedFor reports whether the IO response model is validated for
// the cancer type.
func IOModelValidatedFor(cancerType string) bool {
	return cancerTypeValidated(cancerType, ioValidatedCancerTypes)
}
