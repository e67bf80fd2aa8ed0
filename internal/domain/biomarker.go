package domain

import (
	"strings"
)

// Mutation represents a single reported mutation in a biomarker record.
type Mutation struct {
	Gene          string `json:"gene"`
	ProteinChange string `json:"protein_change,omitempty"`
	Zygosity      string `json:"zygosity,omitempty"`
}

// BiomarkerRecord represents the tumor/germline biomarker context for a single
// scoring request. Every field is optional: gates must treat "missing" as its
// own branch, never as zero.
type BiomarkerRecord struct {
	HRDScore          *float64           `json:"hrd_score,omitempty"`
	TMB               *float64           `json:"tmb,omitempty"`
	MSIStatus         MSIStatus          `json:"msi_status,omitempty"`
	SomaticMutations  []Mutation         `json:"somatic_mutations,omitempty"`
	GermlineMutations []Mutation         `json:"germline_mutations,omitempty"`
	Expression        map[string]float64 `json:"expression,omitempty"`
	CompletenessScore *float64           `json:"completeness_score,omitempty"`
}

// HasExpression reports whether the record carries gene-expression data.
func (r *BiomarkerRecord) HasExpression() bool {
	return r != nil && len(r.Expression) > 0
}

// HasMeasuredTMB reports whether tumor mutational burden was measured.
func (r *BiomarkerRecord) HasMeasuredTMB() bool {
	return r != nil && r.TMB != nil
}

// NormalizedMSI returns the MSI status with missing data mapped to MSI_UNKNOWN.
func (r *BiomarkerRecord) NormalizedMSI() MSIStatus {
	if r == nil || r.MSIStatus == "" {
		return MSI_UNKNOWN
	}
	if !r.MSIStatus.IsValid() {
		return ParseMSIStatus(string(r.MSIStatus))
	}
	return r.MSIStatus
}

// MutatedGenes returns the union of somatic and germline mutated gene symbols,
// uppercased, preserving first-seen order.
func (r *BiomarkerRecord) MutatedGenes() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool, len(r.SomaticMutations)+len(r.GermlineMutations))
	genes := make([]string, 0, len(r.SomaticMutations)+len(r.GermlineMutations))
	add := func(muts []Mutation) {
		for _, m := range muts {
			g := strings.ToUpper(strings.TrimSpace(m.Gene))
			if g == "" || seen[g] {
				continue
			}
			seen[g] = true
			genes = append(genes, g)
		}
	}
	add(r.SomaticMutations)
	add(r.GermlineMutations)
	return genes
}

// DrugDescriptor identifies a drug and its class/mechanism strings used for
// gate applicability matching.
type DrugDescriptor struct {
	Name      string `json:"name"`
	Class     string `json:"class,omitempty"`
	Mechanism string `json:"mechanism,omitempty"`
}

// matchToken reports whether the drug class or mechanism contains the token,
// case-insensitively.
func (d *DrugDescriptor) matchToken(token string) bool {
	if d == nil {
		return false
	}
	return strings.Contains(strings.ToLower(d.Class), token) ||
		strings.Contains(strings.ToLower(d.Mechanism), token)
}

// IsPARPInhibitor reports whether the drug's class or mechanism matches "PARP".
func (d *DrugDescriptor) IsPARPInhibitor() bool {
	return d.matchToken("parp")
}

// IsPlatinum reports whether the drug is platinum-class chemotherapy.
func (d *DrugDescriptor) IsPlatinum() bool {
	return d.matchToken("platinum")
}

// checkpointTokens are the class/mechanism tokens that identify immune
// checkpoint inhibitors.
var checkpointTokens = []string{"checkpoint", "pd-1", "pd-l1", "ctla-4"}

// IsCheckpointInhibitor reports whether the drug is an immune checkpoint
// inhibitor.
func (d *DrugDescriptor) IsCheckpointInhibitor() bool {
	for _, token := range checkpointTokens {
		if d.matchToken(token) {
			return true
		}
	}
	return false
}
