package models

// RiskInput holds the three health metrics collected from the questionnaire.
// Domain bounds (bmi 10-50, s5 -0.2-0.2, bp 60-200) are enforced at the API
// boundary, not here.
type RiskInput struct {
	BMI float64 `json:"bmi"`
	S5  float64 `json:"s5"`
	BP  float64 `json:"bp"`
}

// FactorStatus classifies a single metric relative to its normal range.
type FactorStatus string

const (
	StatusNormal   FactorStatus = "normal"
	StatusElevated FactorStatus = "elevated"
	StatusHigh     FactorStatus = "high"
)

// RiskLevel is the coarse three-tier classification of the aggregate score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// FactorAssessment is the per-metric scoring result.
type FactorAssessment struct {
	Score  float64      `json:"score"`
	Status FactorStatus `json:"status"`
}

// RiskResult is the full assessment returned for one scoring invocation.
// It is built fresh on every call and never mutated afterwards.
type RiskResult struct {
	Score           float64                     `json:"score"`
	RiskLevel       RiskLevel                   `json:"riskLevel"`
	Percentage      int                         `json:"percentage"`
	ModelPrediction *float64                    `json:"modelPrediction,omitempty"`
	Recommendations []string                    `json:"recommendations"`
	Factors         map[string]FactorAssessment `json:"factors"`
}

// AssessmentResponse wraps a RiskResult for the HTTP API.
type AssessmentResponse struct {
	RequestID string     `json:"requestId"`
	ModelUsed bool       `json:"modelUsed"`
	Result    RiskResult `json:"result"`
}
