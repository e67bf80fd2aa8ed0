// Package pgxkb resolves pharmacogenomic toxicity assessments for
// (drug, gene, variant) combinations. It layers an in-memory LRU cache and an
// optional Redis cache over an optional remote CPIC-style guideline service,
// falling back to a built-in curated table when the remote is unavailable.
package pgxkb

import (
	"context"
	"fmt"
	"strings"

	"github.com/trialfit-scoring-server/internal/domain"
)

// BuiltinKB is the curated in-process pharmacogene knowledge base. It covers
// the CPIC level-A oncology drug/gene pairs and is the terminal fallback when
// no remote guideline service is reachable. The table is immutable after
// construction.
type BuiltinKB struct {
	entries map[string]domain.PGxAssessment
}

const builtinSource = "builtin-cpic"

// NewBuiltinKB constructs the curated knowledge base.
func NewBuiltinKB() *BuiltinKB {
	kb := &BuiltinKB{entries: make(map[string]domain.PGxAssessment)}

	// Fluoropyrimidines / DPYD. No-function alleles contraindicate, the
	// decreased-function c.2846A>T variant halves the starting dose.
	for _, drug := range []string{"fluorouracil", "capecitabine", "tegafur"} {
		kb.add(drug, "DPYD", "*2A", domain.PGxAssessment{
			Tier:             domain.TOXICITY_HIGH,
			AdjustmentFactor: 0.0,
			Guidance:         "DPYD no-function allele; avoid fluoropyrimidines, select alternative agent",
			Source:           builtinSource,
		})
		kb.add(drug, "DPYD", "*13", domain.PGxAssessment{
			Tier:             domain.TOXICITY_HIGH,
			AdjustmentFactor: 0.0,
			Guidance:         "DPYD no-function allele; avoid fluoropyrimidines, select alternative agent",
			Source:           builtinSource,
		})
		kb.add(drug, "DPYD", "c.2846A>T", domain.PGxAssessment{
			Tier:             domain.TOXICITY_MODERATE,
			AdjustmentFactor: 0.5,
			Guidance:         "DPYD decreased-function variant; reduce starting dose by 50% and titrate by toxicity",
			Source:           builtinSource,
		})
	}

	// Irinotecan / UGT1A1. Reduced glucuronidation raises SN-38 exposure.
	kb.add("irinotecan", "UGT1A1", "*28", domain.PGxAssessment{
		Tier:             domain.TOXICITY_MODERATE,
		AdjustmentFactor: 0.7,
		Guidance:         "UGT1A1 reduced-function allele; reduce starting dose and monitor for neutropenia",
		Source:           builtinSource,
	})
	kb.add("irinotecan", "UGT1A1", "*6", domain.PGxAssessment{
		Tier:             domain.TOXICITY_MODERATE,
		AdjustmentFactor: 0.7,
		Guidance:         "UGT1A1 reduced-function allele; reduce starting dose and monitor for neutropenia",
		Source:           builtinSource,
	})

	// Thiopurines / TPMT and NUDT15.
	for _, drug := range []string{"mercaptopurine", "azathioprine", "thioguanine"} {
		for _, variant := range []string{"*2", "*3A", "*3C"} {
			kb.add(drug, "TPMT", variant, domain.PGxAssessment{
				Tier:             domain.TOXICITY_MODERATE,
				AdjustmentFactor: 0.3,
				Guidance:         "TPMT no-function allele; start at 30-70% of standard thiopurine dose",
				Source:           builtinSource,
			})
		}
		kb.add(drug, "NUDT15", "*3", domain.PGxAssessment{
			Tier:             domain.TOXICITY_MODERATE,
			AdjustmentFactor: 0.3,
			Guidance:         "NUDT15 no-function allele; start at 30-70% of standard thiopurine dose",
			Source:           builtinSource,
		})
	}

	// Tamoxifen / CYP2D6. Poor metabolizers under-produce endoxifen.
	for _, variant := range []string{"*4", "*5"} {
		kb.add("tamoxifen", "CYP2D6", variant, domain.PGxAssessment{
			Tier:             domain.TOXICITY_MODERATE,
			AdjustmentFactor: 0.6,
			Guidance:         "CYP2D6 poor metabolizer; consider aromatase inhibitor where clinically appropriate",
			Source:           builtinSource,
		})
	}

	return kb
}

func (kb *BuiltinKB) add(drug, gene, variant string, assessment domain.PGxAssessment) {
	kb.entries[lookupKey(drug, gene, variant)] = assessment
}

// Lookup implements domain.PGxLookup. A nil assessment with a nil error means
// the combination is not covered by the table.
func (kb *BuiltinKB) Lookup(ctx context.Context, drugName, gene, variant string) (*domain.PGxAssessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assessment, ok := kb.entries[lookupKey(drugName, gene, variant)]
	if !ok {
		return nil, nil
	}
	return &assessment, nil
}

// lookupKey normalizes the lookup triple: drug names are case-insensitive,
// gene symbols upper-case, variant designations case-sensitive except for
// surrounding whitespace (star alleles and HGVS strings are case-significant).
func lookupKey(drugName, gene, variant string) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToLower(strings.TrimSpace(drugName)),
		strings.ToUpper(strings.TrimSpace(gene)),
		strings.TrimSpace(variant),
	)
}
