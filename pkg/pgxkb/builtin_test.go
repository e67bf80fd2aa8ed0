package pgxkb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialfit-scoring-server/internal/domain"
)

func TestBuiltinKB_Lookup(t *testing.T) {
	kb := NewBuiltinKB()
	ctx := context.Background()

	tests := []struct {
		name        string
		drug        string
		gene        string
		variant     string
		wantCovered bool
		wantTier    domain.ToxicityTier
		wantFactor  float64
	}{
		{
			name:        "DPYD no-function allele contraindicates fluorouracil",
			drug:        "Fluorouracil",
			gene:        "DPYD",
			variant:     "*2A",
			wantCovered: true,
			wantTier:    domain.TOXICITY_HIGH,
			wantFactor:  0.0,
		},
		{
			name:        "DPYD decreased-function variant halves capecitabine dose",
			drug:        "Capecitabine",
			gene:        "DPYD",
			variant:     "c.2846A>T",
			wantCovered: true,
			wantTier:    domain.TOXICITY_MODERATE,
			wantFactor:  0.5,
		},
		{
			name:        "UGT1A1*28 moderates irinotecan",
			drug:        "Irinotecan",
			gene:        "UGT1A1",
			variant:     "*28",
			wantCovered: true,
			wantTier:    domain.TOXICITY_MODERATE,
			wantFactor:  0.7,
		},
		{
			name:        "TPMT covered for mercaptopurine",
			drug:        "Mercaptopurine",
			gene:        "TPMT",
			variant:     "*3A",
			wantCovered: true,
			wantTier:    domain.TOXICITY_MODERATE,
			wantFactor:  0.3,
		},
		{
			name:        "CYP2D6 poor metabolizer covered for tamoxifen",
			drug:        "Tamoxifen",
			gene:        "CYP2D6",
			variant:     "*4",
			wantCovered: true,
			wantTier:    domain.TOXICITY_MODERATE,
			wantFactor:  0.6,
		},
		{
			name:        "uncovered drug",
			drug:        "Olaparib",
			gene:        "DPYD",
			variant:     "*2A",
			wantCovered: false,
		},
		{
			name:        "uncovered variant",
			drug:        "Fluorouracil",
			gene:        "DPYD",
			variant:     "*9A",
			wantCovered: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment, err := kb.Lookup(ctx, tt.drug, tt.gene, tt.variant)
			require.NoError(t, err)

			if !tt.wantCovered {
				assert.Nil(t, assessment)
				return
			}

			require.NotNil(t, assessment)
			assert.Equal(t, tt.wantTier, assessment.Tier)
			assert.Equal(t, tt.wantFactor, assessment.AdjustmentFactor)
			assert.NotEmpty(t, assessment.Guidance)
			assert.Equal(t, "builtin-cpic", assessment.Source)
		})
	}
}

func TestBuiltinKB_Lookup_Normalization(t *testing.T) {
	kb := NewBuiltinKB()
	ctx := context.Background()

	// Drug names are case-insensitive, gene symbols upper-cased, and
	// surrounding whitespace ignored.
	assessment, err := kb.Lookup(ctx, "  FLUOROURACIL ", " dpyd ", " *2A ")
	require.NoError(t, err)
	require.NotNil(t, assessment)
	assert.Equal(t, domain.TOXICITY_HIGH, assessment.Tier)
}

func TestBuiltinKB_Lookup_CancelledContext(t *testing.T) {
	kb := NewBuiltinKB()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := kb.Lookup(ctx, "Fluorouracil", "DPYD", "*2A")
	assert.Error(t, err)
}
