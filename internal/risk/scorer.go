// Package risk computes rule-based health-risk assessments from the three
// questionnaire metrics, optionally blended with an external model prediction.
// Everything in here is pure: no I/O, no clock, no shared state, safe for
// concurrent use.
package risk

import (
	"math"

	"github.com/anmolairi03/diabetes/internal/models"
)

// Keys used in RiskResult.Factors.
const (
	FactorBMI = "bmi"
	FactorS5  = "s5"
	FactorBP  = "bp"
)

const (
	// A raw prediction nominally lies in [0, predictionCeiling]. Dividing by
	// predictionScale maps it onto the factor score scale [0, rescaledMax].
	predictionScale   = 50.0
	rescaledMax       = 4.0
	predictionCeiling = 200.0
)

// Score maps the questionnaire metrics, plus an optional external model
// prediction, to a full risk assessment. It is total over any finite input:
// out-of-range values are scored by the same tables, never rejected.
// Identical inputs always yield identical results.
func Score(input models.RiskInput, prediction *float64) models.RiskResult {
	bmi := lookup(bmiBrackets, input.BMI)
	s5 := lookup(s5Brackets, math.Abs(input.S5))
	bp := lookup(bpBrackets, input.BP)

	total := bmi.Score + s5.Score + bp.Score

	score := total
	if prediction != nil {
		// Rescale onto [0, 4]; the clamp happens after the division.
		rescaled := clamp(*prediction/predictionScale, 0, rescaledMax)
		score = (total + rescaled) / 2
	}

	level := classify(score)

	return models.RiskResult{
		Score:           score,
		RiskLevel:       level,
		Percentage:      percentage(total, prediction),
		ModelPrediction: prediction,
		Recommendations: recommend(bmi.Score, s5.Score, bp.Score, total, level, prediction),
		Factors: map[string]models.FactorAssessment{
			FactorBMI: bmi,
			FactorS5:  s5,
			FactorBP:  bp,
		},
	}
}

// classify is a step function of the (possibly blended) score.
func classify(score float64) models.RiskLevel {
	switch {
	case score <= 3:
		return models.RiskLow
	case score <= 6:
		return models.RiskModerate
	default:
		return models.RiskHigh
	}
}

// percentage derives the 0-100 figure. With a prediction it comes from the
// raw model output, not from the blended score; without one it is stretched
// from the rule-based total. The two formulas are intentionally separate.
func percentage(total float64, prediction *float64) int {
	if prediction != nil {
		return int(math.Round(clamp(*prediction/predictionCeiling*100, 5, 100)))
	}
	return int(math.Round(math.Min(100, total/10*85+5)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
