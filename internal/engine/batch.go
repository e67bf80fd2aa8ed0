package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/trialfit-scoring-server/internal/domain"
)

// defaultBatchWorkers bounds the scoring fan-out.
const defaultBatchWorkers = 8

// BatchScorer ranks many trials for one patient. Each trial is scored
// independently (parallelizable fan-out); the ranking is a stable sort by
// holistic score descending, so ties preserve input order and re-running the
// same batch yields an identical ranking.
type BatchScorer struct {
	holistic *HolisticScorer
	workers  int
	log      *logrus.Logger
}

// NewBatchScorer creates a new batch scorer over the given holistic scorer.
func NewBatchScorer(holistic *HolisticScorer, logger *logrus.Logger) *BatchScorer {
	return &BatchScorer{
		holistic: holistic,
		workers:  defaultBatchWorkers,
		log:      logger,
	}
}

// ComputeBatch scores every trial and returns summaries sorted descending by
// holistic score. Workers write results by input index, so no two goroutines
// share writable memory.
func (b *BatchScorer) ComputeBatch(
	ctx context.Context,
	patient *domain.PatientProfile,
	trials []domain.TrialDescriptor,
	pharmacogenes []domain.PGxVariant,
) []domain.TrialScoreSummary {
	results := make([]*domain.HolisticScoreResult, len(trials))

	workers := b.workers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	if workers > len(trials) {
		workers = len(trials)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				trial := trials[i]
				results[i] = b.holistic.ComputeHolisticScore(ctx, patient, &trial, pharmacogenes, nil)
			}
		}()
	}
	for i := range trials {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	summaries := make([]domain.TrialScoreSummary, len(trials))
	for i, result := range results {
		summaries[i] = domain.TrialScoreSummary{
			TrialID:        result.TrialID,
			Title:          trials[i].Title,
			HolisticScore:  result.HolisticScore,
			Interpretation: result.Interpretation,
			Recommendation: result.Recommendation,
			Caveats:        result.Caveats,
		}
	}

	// Stable sort keeps input order for equal scores.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].HolisticScore > summaries[j].HolisticScore
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}

	if b.log != nil && len(summaries) > 0 {
		b.log.WithFields(logrus.Fields{
			"trials":    len(summaries),
			"top_trial": summaries[0].TrialID,
			"top_score": summaries[0].HolisticScore,
		}).Debug("Completed batch trial ranking")
	}

	return summaries
}
