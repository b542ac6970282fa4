package readiness

import (
	"encoding/json"
	"strings"
)

// Frequency is how often a manual task is performed.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyAdhoc   Frequency = "adhoc"
)

// Priority is the qualitative automation bucket derived from frequency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Frequencies lists the known cadences from most to least frequent.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyAdhoc}

func ParseFrequency(raw string) (Frequency, bool) {
	f := Frequency(strings.ToLower(strings.TrimSpace(raw)))
	return f, f.Valid()
}

// UnmarshalJSON normalizes case and whitespace. Unknown values are kept as
// sent, which leaves the task incomplete.
func (f *Frequency) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if parsed, ok := ParseFrequency(s); ok {
		*f = parsed
		return nil
	}
	*f = Frequency(s)
	return nil
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyAdhoc:
		return true
	default:
		return false
	}
}

// Multiplier is the number of occurrences per year.
func (f Frequency) Multiplier() float64 {
	switch f {
	case FrequencyDaily:
		return 365
	case FrequencyWeekly:
		return 52
	case FrequencyMonthly:
		return 12
	case FrequencyAdhoc:
		return 4
	default:
		return 0
	}
}

func (f Frequency) Priority() Priority {
	switch f {
	case FrequencyDaily, FrequencyWeekly:
		return PriorityHigh
	case FrequencyMonthly:
		return PriorityMedium
	case FrequencyAdhoc:
		return PriorityLow
	default:
		return ""
	}
}

func (f Frequency) Label() string {
	switch f {
	case FrequencyDaily:
		return "Daily"
	case FrequencyWeekly:
		return "Weekly"
	case FrequencyMonthly:
		return "Monthly"
	case FrequencyAdhoc:
		return "Ad-hoc"
	default:
		return ""
	}
}
