package risk

import "github.com/anmolairi03/diabetes/internal/models"

// bracket is one row of a factor threshold table. Rows are evaluated in
// order and a value belongs to the first row whose bound admits it; the last
// row of every table is a catch-all.
type bracket struct {
	limit     float64
	exclusive bool // value < limit instead of value <= limit
	catchAll  bool
	score     float64
	status    models.FactorStatus
}

// The sub-normal bmi and bp rows carry a penalty score but keep status
// "normal": the status rule only looks at the upper thresholds. Preserved
// for compatibility with the original scoring behavior.
var bmiBrackets = []bracket{
	{limit: 18.5, exclusive: true, score: 1.0, status: models.StatusNormal},
	{limit: 24.9, score: 0.5, status: models.StatusNormal},
	{limit: 29.9, score: 2.0, status: models.StatusElevated},
	{limit: 34.9, score: 3.0, status: models.StatusHigh},
	{catchAll: true, score: 4.0, status: models.StatusHigh},
}

// s5Brackets apply to the absolute value of the serum measurement. Bounds
// are inclusive: |s5| = 0.05 still scores as normal.
var s5Brackets = []bracket{
	{limit: 0.05, score: 0.5, status: models.StatusNormal},
	{limit: 0.10, score: 1.5, status: models.StatusElevated},
	{limit: 0.15, score: 2.5, status: models.StatusHigh},
	{catchAll: true, score: 3.0, status: models.StatusHigh},
}

var bpBrackets = []bracket{
	{limit: 90, exclusive: true, score: 1.0, status: models.StatusNormal},
	{limit: 120, score: 0.5, status: models.StatusNormal},
	{limit: 139, score: 1.5, status: models.StatusElevated},
	{limit: 159, score: 2.5, status: models.StatusHigh},
	{catchAll: true, score: 3.0, status: models.StatusHigh},
}

func lookup(table []bracket, value float64) models.FactorAssessment {
	for _, b := range table {
		if b.catchAll || (b.exclusive && value < b.limit) || (!b.exclusive && value <= b.limit) {
			return models.FactorAssessment{Score: b.score, Status: b.status}
		}
	}
	// Unreachable: every table ends with a catch-all row.
	return models.FactorAssessment{}
}
