// Package engine implements the deterministic decision-rule pipeline that
// turns a patient's tumor/germline biomarker record into an adjusted drug
// efficacy and confidence score, a unified patient-trial-drug feasibility
// score, and a safety-gated risk-benefit ranking.
//
// Every component is a pure function over its explicit inputs: no shared
// mutable state, no internal caches, no blocking I/O. All components are safe
// to invoke concurrently. Results are bit-for-bit reproducible so regression
// tooling can diff stored runs.
package engine

// clamp01 clamps a score to [0,1]. Reapplying the clamp is a no-op.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
