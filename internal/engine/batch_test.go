package engine

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialfit-scoring-server/internal/domain"
)

func batchTrials() []domain.TrialDescriptor {
	perfect := *perfectFitTrial()
	perfect.TrialID = "NCT-PERFECT"

	closed := *perfectFitTrial()
	closed.TrialID = "NCT-CLOSED"
	closed.Status = "Completed"

	partial := *perfectFitTrial()
	partial.TrialID = "NCT-PARTIAL"
	partial.Mechanism = vector(0, 1, 0, 0, 0, 0, 0)

	return []domain.TrialDescriptor{closed, partial, perfect}
}

func TestComputeBatch_RanksDescending(t *testing.T) {
	scorer := NewBatchScorer(NewHolisticScorer(&stubPGxLookup{}, testLogger()), testLogger())

	patient := eligiblePatient()
	patient.Mechanism = vector(1, 0, 0, 0, 0, 0, 0)

	summaries := scorer.ComputeBatch(context.Background(), patient, batchTrials(), nil)

	require.Len(t, summaries, 3)
	assert.Equal(t, "NCT-PERFECT", summaries[0].TrialID)
	assert.Equal(t, 1, summaries[0].Rank)
	for i := 1; i < len(summaries); i++ {
		assert.GreaterOrEqual(t, summaries[i-1].HolisticScore, summaries[i].HolisticScore)
		assert.Equal(t, i+1, summaries[i].Rank)
	}
}

func TestComputeBatch_TiesPreserveInputOrder(t *testing.T) {
	scorer := NewBatchScorer(NewHolisticScorer(&stubPGxLookup{}, testLogger()), testLogger())

	patient := eligiblePatient()
	patient.Mechanism = vector(1, 0, 0, 0, 0, 0, 0)

	first := *perfectFitTrial()
	first.TrialID = "NCT-TIE-A"
	second := *perfectFitTrial()
	second.TrialID = "NCT-TIE-B"

	summaries := scorer.ComputeBatch(context.Background(), patient,
		[]domain.TrialDescriptor{first, second}, nil)

	require.Len(t, summaries, 2)
	assert.Equal(t, summaries[0].HolisticScore, summaries[1].HolisticScore)
	assert.Equal(t, "NCT-TIE-A", summaries[0].TrialID)
	assert.Equal(t, "NCT-TIE-B", summaries[1].TrialID)
}

func TestComputeBatch_Deterministic(t *testing.T) {
	scorer := NewBatchScorer(NewHolisticScorer(&stubPGxLookup{}, testLogger()), testLogger())

	patient := eligiblePatient()
	patient.Mechanism = vector(1, 0, 0, 0, 0, 0, 0)
	trials := batchTrials()

	first := scorer.ComputeBatch(context.Background(), patient, trials, nil)
	second := scorer.ComputeBatch(context.Background(), patient, trials, nil)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical batches produced different rankings:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestComputeBatch_Empty(t *testing.T) {
	scorer := NewBatchScorer(NewHolisticScorer(&stubPGxLookup{}, testLogger()), testLogger())

	summaries := scorer.ComputeBatch(context.Background(), eligiblePatient(), nil, nil)

	assert.Empty(t, summaries)
}

func TestComputeBatch_ManyTrialsExceedingWorkerPool(t *testing.T) {
	scorer := NewBatchScorer(NewHolisticScorer(&stubPGxLookup{}, testLogger()), testLogger())

	patient := eligiblePatient()
	patient.Mechanism = vector(1, 0, 0, 0, 0, 0, 0)

	trials := make([]domain.TrialDescriptor, 0, 50)
	for i := 0; i < 50; i++ {
		trial := *perfectFitTrial()
		trial.TrialID = trial.TrialID + "-" + string(rune('A'+i%26))
		trials = append(trials, trial)
	}

	summaries := scorer.ComputeBatch(context.Background(), patient, trials, nil)

	require.Len(t, summaries, 50)
	seen := make(map[int]bool, 50)
	for _, s := range summaries {
		assert.False(t, seen[s.Rank], "duplicate rank %d", s.Rank)
		seen[s.Rank] = true
	}
}
