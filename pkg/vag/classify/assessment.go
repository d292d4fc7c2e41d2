package classify

import "github.com/kneescan/vag-analyzer/pkg/vag"

// JointAssessment is the dual-sensor summary for one session. The mic
// responds to cartilage surface friction while the piezo picks up
// structural (bone) vibration, so the combination separates early OA
// from subchondral changes.
type JointAssessment struct {
	Diagnosis     string       `json:"diagnosis"`
	MicSeverity   vag.Severity `json:"mic_severity"`
	PiezoSeverity vag.Severity `json:"piezo_severity"`
	Notes         []string     `json:"notes"`
}

var researchBasis = []string{
	"Tamura et al., 2013 - mic dominant frequency >400 Hz correlates with KL grade 3-4",
	"Chandran et al., 2021 - piezo dominant frequency >120 Hz indicates subchondral sclerosis",
	"OARSI - dual-sensor VAG improves OA detection over single-sensor setups",
}

// Assess combines the per-channel severity grades into a joint
// diagnosis
func Assess(mic, piezo vag.Severity) JointAssessment {
	assessment := JointAssessment{
		MicSeverity:   mic,
		PiezoSeverity: piezo,
	}

	switch {
	case mic >= vag.SeverityMild && piezo == vag.SeverityNormal:
		assessment.Diagnosis = "Early Osteoarthritis (KL Grade 1-2)"
		assessment.Notes = []string{
			"Mic shows elevated frequency, consistent with cartilage roughening.",
			"Piezo normal, joint mechanics preserved.",
			"MRI suggested for confirmation.",
		}
	case piezo >= vag.SeverityMild && mic == vag.SeverityNormal:
		assessment.Diagnosis = "Subchondral Bone Changes (Pre-OA)"
		assessment.Notes = []string{
			"Piezo frequency elevated, consistent with bone remodeling.",
			"Mic normal, cartilage intact.",
			"X-ray recommended.",
		}
	case mic == piezo && mic == vag.SeveritySevere:
		assessment.Diagnosis = "Severe Osteoarthritis (KL Grade 3-4)"
		assessment.Notes = []string{"Both sensors show pathological vibration."}
	case mic == piezo && mic == vag.SeverityMild:
		assessment.Diagnosis = "Moderate Osteoarthritis (KL Grade 2-3)"
		assessment.Notes = []string{"Degeneration in progress."}
	case mic == piezo:
		assessment.Diagnosis = "Healthy Knee (KL Grade 0)"
		assessment.Notes = []string{"No abnormal vibro-acoustic activity detected."}
	default:
		assessment.Diagnosis = "Inconclusive"
		assessment.Notes = []string{
			"Sensor disagreement detected.",
			"Repeat test or use imaging methods.",
		}
	}

	assessment.Notes = append(assessment.Notes, researchBasis...)
	return assessment
}
