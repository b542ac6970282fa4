package maturity

import "math"

// Stage is one of the four maturity bands. Ranges are closed and
// non-overlapping over integer percentages.
type Stage struct {
	Name            string   `json:"name"`
	Min             int      `json:"min"`
	Max             int      `json:"max"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
}

var Stages = []Stage{
	{
		Name:        "Foundational",
		Min:         0,
		Max:         25,
		Description: "Most work is manual and knowledge lives with individuals. The biggest gains come from documenting processes and consolidating data.",
		Recommendations: []string{
			"Document your five most time-consuming processes before choosing any tools.",
			"Move critical business data out of spreadsheets into a shared system of record.",
			"Appoint a digital champion with time set aside to drive quick wins.",
		},
	},
	{
		Name:        "Emerging",
		Min:         26,
		Max:         50,
		Description: "Some digital tools are in place but they work in silos. Connecting them removes re-keying and exposes quick automation wins.",
		Recommendations: []string{
			"Integrate your core systems so data is entered once and shared everywhere.",
			"Automate one high-frequency task end to end to prove the value to the team.",
			"Define three KPIs for digital initiatives and review them monthly.",
		},
	},
	{
		Name:        "Established",
		Min:         51,
		Max:         75,
		Description: "Core processes are digital and partly automated. The next step is scaling automation and using data to steer decisions.",
		Recommendations: []string{
			"Build an automation roadmap ranked by hours saved and implementation effort.",
			"Roll out self-service dashboards so teams act on data without waiting for reports.",
			"Introduce workflow automation across departments, not just within them.",
		},
	},
	{
		Name:        "Advanced",
		Min:         76,
		Max:         100,
		Description: "Automation and data are part of how the business runs. Focus shifts to optimization, AI-assisted work and continuous improvement.",
		Recommendations: []string{
			"Pilot AI-assisted workflows on your highest-volume customer and back-office tasks.",
			"Set up continuous process mining to find the next automation candidates.",
			"Share your operating model internally so new teams adopt it from day one.",
		},
	},
}

// StageFor classifies a percentage. The percentage is rounded to the nearest
// integer first; the first matching range wins and anything unmatched falls
// back to the first stage.
func StageFor(percentage float64) Stage {
	p := int(math.Round(percentage))
	for _, s := range Stages {
		if p >= s.Min && p <= s.Max {
			return s
		}
	}
	return Stages[0]
}
