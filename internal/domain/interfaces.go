package domain

import (
	"context"
)

// PGxLookup resolves the toxicity tier and adjustment factor for one
// (drug, gene, variant) combination. Implementations must be idempotent and
// side-effect-free per call; lookup tables are read-only for the process
// lifetime. A nil assessment with a nil error means the combination is not
// covered by the knowledge base.
type PGxLookup interface {
	Lookup(ctx context.Context, drugName, gene, variant string) (*PGxAssessment, error)
}

// ReportRepository persists immutable scoring audit records.
type ReportRepository interface {
	Save(ctx context.Context, report *ScoreReport) error
	Get(ctx context.Context, id string) (*ScoreReport, error)
	ListByKind(ctx context.Context, kind string, limit int) ([]*ScoreReport, error)
}
