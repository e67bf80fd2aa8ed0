package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGermlineStatus(t *testing.T) {
	tests := []struct {
		input string
		want  GermlineStatus
	}{
		{"positive", GERMLINE_POSITIVE},
		{"POSITIVE", GERMLINE_POSITIVE},
		{" Negative ", GERMLINE_NEGATIVE},
		{"unknown", GERMLINE_UNKNOWN},
		{"", GERMLINE_UNKNOWN},
		{"garbage", GERMLINE_UNKNOWN},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGermlineStatus(tt.input))
		})
	}
}

func TestParseMSIStatus(t *testing.T) {
	tests := []struct {
		input string
		want  MSIStatus
	}{
		{"msi-high", MSI_HIGH},
		{"MSI-High", MSI_HIGH},
		{"msi-stable", MSI_STABLE},
		{"mss", MSI_STABLE},
		{"", MSI_UNKNOWN},
		{"indeterminate", MSI_UNKNOWN},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMSIStatus(tt.input))
		})
	}
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, GERMLINE_POSITIVE.IsValid())
	assert.False(t, GermlineStatus("MAYBE").IsValid())

	assert.True(t, TIER_L1.IsValid())
	assert.False(t, CompletenessTier("L3").IsValid())

	assert.True(t, TOXICITY_HIGH.IsValid())
	assert.False(t, ToxicityTier("EXTREME").IsValid())

	assert.True(t, PGX_CONTRAINDICATED.IsValid())
	assert.False(t, PGxStatus("PENDING").IsValid())

	assert.True(t, INTERPRETATION_MEDIUM.IsValid())
	assert.False(t, Interpretation("OK").IsValid())

	assert.True(t, ACTION_MONITORING.IsValid())
	assert.False(t, RiskBenefitAction("MAYBE").IsValid())

	assert.True(t, RESCUED.IsValid())
	assert.True(t, SUSPECTED_HYPERMUTATION.IsValid())
	assert.False(t, Verdict("SHRUG").IsValid())
}
