package domain

// GateOutcome represents the result of a single safety-gate evaluation.
// Outcomes are immutable once produced and are appended to an ordered
// rationale list, never mutated after creation.
type GateOutcome struct {
	GateID     string         `json:"gate_id"`
	Verdict    Verdict        `json:"verdict"`
	Multiplier float64        `json:"multiplier"`
	Rationale  string         `json:"rationale"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Applied reports whether the gate changed the running efficacy value.
func (o GateOutcome) Applied() bool {
	return o.Multiplier != 1.0
}

// AdjustedScore represents the final output of the gate orchestrator for one
// (drug, biomarker record) pair.
type AdjustedScore struct {
	Efficacy           float64       `json:"efficacy"`
	Confidence         float64       `json:"confidence"`
	OriginalEfficacy   float64       `json:"original_efficacy"`
	OriginalConfidence float64       `json:"original_confidence"`
	FiredGates         []string      `json:"fired_gates"`
	Rationale          []GateOutcome `json:"rationale"`
}

// PathwayScores maps pathway names to numeric activity/deficiency scores.
// A score vector is produced once per expression input and consumed by exactly
// one gate per invocation.
type PathwayScores map[string]float64
