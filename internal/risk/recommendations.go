package risk

import "github.com/anmolairi03/diabetes/internal/models"

// Advice texts, most specific first, general advice last.
const (
	adviceWeight      = "Work toward a healthy weight: combine portion control with regular activity to bring your BMI down."
	adviceGlucose     = "Monitor your blood glucose regularly and limit refined sugars; discuss the readings with your doctor."
	adviceBP          = "Keep an eye on your blood pressure: reduce sodium intake and check readings at home."
	adviceProgression = "Your predicted progression score is elevated; consult a healthcare provider soon."
	adviceCheckup     = "Schedule a comprehensive health checkup within the next few months."
	adviceDiet        = "Maintain a balanced diet rich in vegetables, whole grains and lean protein."
	adviceExercise    = "Aim for at least 150 minutes of moderate physical activity per week."
	adviceMaintain    = "Your metrics look good overall; keep up your current lifestyle."
)

// recommend builds the advice list in a fixed order. Entries are appended
// conditionally and never de-duplicated; the diet and exercise items are
// unconditional, so the list is never empty.
func recommend(bmiScore, s5Score, bpScore, total float64, level models.RiskLevel, prediction *float64) []string {
	recs := make([]string, 0, 8)

	if bmiScore >= 2 {
		recs = append(recs, adviceWeight)
	}
	if s5Score >= 2 {
		recs = append(recs, adviceGlucose)
	}
	if bpScore >= 2 {
		recs = append(recs, adviceBP)
	}
	if prediction != nil && *prediction > 100 {
		recs = append(recs, adviceProgression)
	}
	if total >= 5 || (prediction != nil && *prediction > 75) {
		recs = append(recs, adviceCheckup)
	}

	recs = append(recs, adviceDiet, adviceExercise)

	if level == models.RiskLow && (prediction == nil || *prediction < 50) {
		recs = append(recs, adviceMaintain)
	}
	return recs
}
