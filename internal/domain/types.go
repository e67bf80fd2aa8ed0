// Package domain contains core business entities and types for biomarker-driven
// drug efficacy adjustment and patient-trial feasibility scoring.
//
// All scoring decisions are expressed as typed verdicts so that gate priority
// logic stays exhaustive and auditable across the engine.
package domain

import (
	"strings"
)

// GermlineStatus represents the patient's germline mutation status for the
// drug target pathway (e.g. BRCA1/2 for PARP inhibitors). It is orthogonal to
// the tumor biomarker record.
type GermlineStatus string

const (
	GERMLINE_POSITIVE GermlineStatus = "POSITIVE"
	GERMLINE_NEGATIVE GermlineStatus = "NEGATIVE"
	GERMLINE_UNKNOWN  GermlineStatus = "UNKNOWN"
)

// ParseGermlineStatus normalizes free-form germline status input.
// Anything unrecognized maps to GERMLINE_UNKNOWN; missing data is never an error.
func ParseGermlineStatus(s string) GermlineStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "POSITIVE", "POS", "TRUE":
		return GERMLINE_POSITIVE
	case "NEGATIVE", "NEG", "FALSE":
		return GERMLINE_NEGATIVE
	default:
		return GERMLINE_UNKNOWN
	}
}

// IsValid validates the germline status.
func (g GermlineStatus) IsValid() bool {
	switch g {
	case GERMLINE_POSITIVE, GERMLINE_NEGATIVE, GERMLINE_UNKNOWN:
		return true
	default:
		return false
	}
}

// String returns the string representation of the germline status.
func (g GermlineStatus) String() string {
	return string(g)
}

// MSIStatus represents microsatellite instability status.
type MSIStatus string

const (
	MSI_HIGH    MSIStatus = "MSI-HIGH"
	MSI_STABLE  MSIStatus = "MSI-STABLE"
	MSI_UNKNOWN MSIStatus = "UNKNOWN"
)

// ParseMSIStatus normalizes free-form MSI status input. Unrecognized or empty
// input maps to MSI_UNKNOWN.
func ParseMSIStatus(s string) MSIStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MSI-HIGH", "MSI-H", "HIGH":
		return MSI_HIGH
	case "MSI-STABLE", "MSS", "STABLE", "MSI-LOW", "MSI-L":
		return MSI_STABLE
	default:
		return MSI_UNKNOWN
	}
}

// IsValid validates the MSI status.
func (m MSIStatus) IsValid() bool {
	switch m {
	case MSI_HIGH, MSI_STABLE, MSI_UNKNOWN:
		return true
	default:
		return false
	}
}

// String returns the string representation of the MSI status.
func (m MSIStatus) String() string {
	return string(m)
}

// CompletenessTier represents the discrete data-quality bucket derived from a
// biomarker record's completeness score. The tier gates how much confidence a
// score may claim.
type CompletenessTier string

const (
	TIER_L0 CompletenessTier = "L0"
	TIER_L1 CompletenessTier = "L1"
	TIER_L2 CompletenessTier = "L2"
)

// IsValid validates the completeness tier.
func (t CompletenessTier) IsValid() bool {
	switch t {
	case TIER_L0, TIER_L1, TIER_L2:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier.
func (t CompletenessTier) String() string {
	return string(t)
}

// Verdict represents the outcome category of a single gate evaluation.
// Verdicts are recorded verbatim in the rationale list so that regression
// tooling can diff scoring runs gate by gate.
type Verdict string

const (
	// PARP germline/HRD gate verdicts
	FULL_EFFECT  Verdict = "FULL_EFFECT"
	RESCUED      Verdict = "RESCUED"
	REDUCED      Verdict = "REDUCED"
	CONSERVATIVE Verdict = "CONSERVATIVE"
	NOT_PARP     Verdict = "NOT_PARP"

	// Ovarian pathway resistance gate verdicts
	FALLBACK            Verdict = "FALLBACK"
	NO_EXPRESSION       Verdict = "NO_EXPRESSION"
	RESISTANCE_HIGH     Verdict = "RESISTANCE_HIGH"
	RESISTANCE_MODERATE Verdict = "RESISTANCE_MODERATE"
	RESISTANCE_LOW      Verdict = "RESISTANCE_LOW"
	SENSITIVE           Verdict = "SENSITIVE"

	// IO boost gate verdicts
	BOOSTED                 Verdict = "BOOSTED"
	NO_BOOST                Verdict = "NO_BOOST"
	SUSPECTED_HYPERMUTATION Verdict = "SUSPECTED_HYPERMUTATION"

	// Confidence capper verdicts
	CAPPED Verdict = "CAPPED"
	NO_CAP Verdict = "NO_CAP"

	// Orchestrator summary verdict
	SUMMARY Verdict = "SUMMARY"
)

// IsValid validates the verdict.
func (v Verdict) IsValid() bool {
	switch v {
	case FULL_EFFECT, RESCUED, REDUCED, CONSERVATIVE, NOT_PARP,
		FALLBACK, NO_EXPRESSION, RESISTANCE_HIGH, RESISTANCE_MODERATE,
		RESISTANCE_LOW, SENSITIVE, BOOSTED, NO_BOOST,
		SUSPECTED_HYPERMUTATION, CAPPED, NO_CAP, SUMMARY:
		return true
	default:
		return false
	}
}

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	return string(v)
}

// ToxicityTier represents the pharmacogenomic toxicity tier for a
// drug/gene/variant combination.
type ToxicityTier string

const (
	TOXICITY_LOW      ToxicityTier = "LOW"
	TOXICITY_MODERATE ToxicityTier = "MODERATE"
	TOXICITY_HIGH     ToxicityTier = "HIGH"
)

// IsValid validates the toxicity tier.
func (t ToxicityTier) IsValid() bool {
	switch t {
	case TOXICITY_LOW, TOXICITY_MODERATE, TOXICITY_HIGH:
		return true
	default:
		return false
	}
}

// String returns the string representation of the toxicity tier.
func (t ToxicityTier) String() string {
	return string(t)
}

// PGxStatus represents the screening status of a pharmacogenomic safety check.
// NOT_SCREENED is distinct from "screened and safe".
type PGxStatus string

const (
	PGX_NOT_SCREENED    PGxStatus = "NOT_SCREENED"
	PGX_SCREENED        PGxStatus = "SCREENED"
	PGX_CONTRAINDICATED PGxStatus = "CONTRAINDICATED"
)

// IsValid validates the PGx screening status.
func (s PGxStatus) IsValid() bool {
	switch s {
	case PGX_NOT_SCREENED, PGX_SCREENED, PGX_CONTRAINDICATED:
		return true
	default:
		return false
	}
}

// String returns the string representation of the PGx status.
func (s PGxStatus) String() string {
	return string(s)
}

// Interpretation represents the feasibility band of a holistic score.
type Interpretation string

const (
	INTERPRETATION_CONTRAINDICATED Interpretation = "CONTRAINDICATED"
	INTERPRETATION_INELIGIBLE      Interpretation = "INELIGIBLE"
	INTERPRETATION_HIGH            Interpretation = "HIGH"
	INTERPRETATION_MEDIUM          Interpretation = "MEDIUM"
	INTERPRETATION_LOW             Interpretation = "LOW"
	INTERPRETATION_VERY_LOW        Interpretation = "VERY_LOW"
)

// IsValid validates the interpretation band.
func (i Interpretation) IsValid() bool {
	switch i {
	case INTERPRETATION_CONTRAINDICATED, INTERPRETATION_INELIGIBLE,
		INTERPRETATION_HIGH, INTERPRETATION_MEDIUM,
		INTERPRETATION_LOW, INTERPRETATION_VERY_LOW:
		return true
	default:
		return false
	}
}

// String returns the string representation of the interpretation band.
func (i Interpretation) String() string {
	return string(i)
}

// RiskBenefitAction labels the per-drug risk-benefit ranking outcome.
// The exact strings are part of the display contract with callers.
type RiskBenefitAction string

const (
	ACTION_PREFERRED            RiskBenefitAction = "PREFERRED"
	ACTION_PREFERRED_UNSCREENED RiskBenefitAction = "PREFERRED (PGx UNSCREENED)"
	ACTION_MONITORING           RiskBenefitAction = "CONSIDER WITH MONITORING"
	ACTION_AVOID                RiskBenefitAction = "AVOID / HIGH-RISK"
)

// IsValid validates the risk-benefit action label.
func (a RiskBenefitAction) IsValid() bool {
	switch a {
	case ACTION_PREFERRED, ACTION_PREFERRED_UNSCREENED, ACTION_MONITORING, ACTION_AVOID:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action label.
func (a RiskBenefitAction) String() string {
	return string(a)
}
