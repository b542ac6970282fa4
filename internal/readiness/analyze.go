package readiness

import (
	"math"
	"sort"
)

// BlendedHourlyRateUSD prices manual hours in the annual cost estimate.
const BlendedHourlyRateUSD = 35

const topCandidateCount = 3

// Level buckets the readiness score.
type Level string

const (
	LevelLow        Level = "Low"
	LevelMedium     Level = "Medium"
	LevelMediumHigh Level = "Medium-High"
	LevelHigh       Level = "High"
)

// Result is an immutable snapshot produced by one analysis.
type Result struct {
	Tasks                  []Task  `json:"tasks"`
	TotalTasks             int     `json:"totalTasks"`
	TotalAnnualHours       float64 `json:"totalAnnualHours"`
	HighPriorityTaskCount  int     `json:"highPriorityTasks"`
	ReadinessScore         int     `json:"readinessScore"`
	ReadinessLevel         Level   `json:"readinessLevel"`
	TopCandidates          []Task  `json:"topCandidates"`
	EstimatedAnnualCostUSD int     `json:"estimatedAnnualCost"`
}

// Analyze aggregates the complete tasks. It reports false when none of the
// tasks is complete, in which case there is nothing to show.
func Analyze(tasks []Task) (Result, bool) {
	ranked := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Complete() {
			ranked = append(ranked, t.Rescore())
		}
	}
	if len(ranked) == 0 {
		return Result{}, false
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	var hours float64
	high := 0
	for _, t := range ranked {
		hours += t.AnnualHours()
		if t.Priority() == PriorityHigh {
			high++
		}
	}

	score := readinessScore(len(ranked), high, hours, ranked[0].Score)
	top := ranked
	if len(top) > topCandidateCount {
		top = top[:topCandidateCount]
	}
	return Result{
		Tasks:                  ranked,
		TotalTasks:             len(ranked),
		TotalAnnualHours:       hours,
		HighPriorityTaskCount:  high,
		ReadinessScore:         score,
		ReadinessLevel:         LevelFor(score),
		TopCandidates:          append([]Task(nil), top...),
		EstimatedAnnualCostUSD: int(math.Round(hours * BlendedHourlyRateUSD)),
	}, true
}

func readinessScore(totalTasks, highPriority int, annualHours float64, topScore int) int {
	score := 0
	if totalTasks >= 3 {
		score += 20
	}
	if highPriority >= 2 {
		score += 30
	}
	if annualHours >= 100 {
		score += 25
	}
	if topScore >= 500 {
		score += 25
	}
	if score > 100 {
		score = 100
	}
	return score
}

func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return LevelHigh
	case score >= 60:
		return LevelMediumHigh
	case score >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}
