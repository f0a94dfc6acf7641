package models

// PredictRequest is the body sent to the upstream model service.
type PredictRequest struct {
	BMI float64 `json:"bmi"`
	S5  float64 `json:"s5"`
	BP  float64 `json:"bp"`
}

// PredictResponse mirrors the upstream model service wire format.
// Failures arrive as {success:false, error:..., prediction:0}.
type PredictResponse struct {
	Success    bool      `json:"success"`
	Prediction float64   `json:"prediction"`
	Error      string    `json:"error,omitempty"`
	Inputs     RiskInput `json:"inputs,omitempty"`
}
