package readiness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinutesInput is the raw "time spent" form value. The worksheet sends it
// either as a JSON number or as the text typed into the field.
type MinutesInput string

func (m *MinutesInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = MinutesInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("timeSpentMinutes: %w", err)
	}
	*m = MinutesInput(n.String())
	return nil
}

// Present reports whether the field has been filled in at all.
func (m MinutesInput) Present() bool {
	return strings.TrimSpace(string(m)) != ""
}

// Minutes parses the input as a non-negative number; anything unparseable is 0.
func (m MinutesInput) Minutes() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(m)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Task is one row of the automation readiness worksheet.
type Task struct {
	ID               string       `json:"id"`
	TaskName         string       `json:"taskName"`
	WhoHandles       string       `json:"whoHandles"`
	Frequency        Frequency    `json:"frequency"`
	ToolsUsed        string       `json:"toolsUsed"`
	TimeSpentMinutes MinutesInput `json:"timeSpentMinutes"`
	Score            int          `json:"score"`
}

// Complete reports whether the task may contribute to aggregate results.
func (t Task) Complete() bool {
	return strings.TrimSpace(t.TaskName) != "" && t.Frequency.Valid() && t.TimeSpentMinutes.Present()
}

func (t Task) AnnualHours() float64 {
	return t.Frequency.Multiplier() * t.TimeSpentMinutes.Minutes() / 60
}

func (t Task) Priority() Priority {
	return t.Frequency.Priority()
}

// ScoreTask computes the automation opportunity score. Bonuses are additive
// and deliberately compound: a daily task earns both frequency bonuses and a
// task of an hour or more earns both duration bonuses.
func ScoreTask(t Task) int {
	if !t.Frequency.Valid() {
		return 0
	}
	multiplier := t.Frequency.Multiplier()
	minutes := t.TimeSpentMinutes.Minutes()

	bonus := 1.0
	if multiplier >= 365 {
		bonus += 0.5
	}
	if multiplier >= 52 {
		bonus += 0.3
	}
	if minutes >= 60 {
		bonus += 0.4
	}
	if minutes >= 30 {
		bonus += 0.2
	}
	return int(math.Round(multiplier * minutes * bonus))
}

// Rescore returns a copy of t with Score recomputed from its inputs.
func (t Task) Rescore() Task {
	t.Score = ScoreTask(t)
	return t
}
