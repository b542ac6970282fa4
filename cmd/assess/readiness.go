package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ailutions/ailutions-site/internal/readiness"
	"github.com/spf13/cobra"
)

// worksheetFile accepts either a bare task array or {"tasks": [...]}.
type worksheetFile struct {
	CompanyName string           `json:"companyName"`
	Tasks       []readiness.Task `json:"tasks"`
}

func (w *worksheetFile) UnmarshalJSON(b []byte) error {
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] == '[' {
		return json.Unmarshal(t, &w.Tasks)
	}
	type plain worksheetFile
	return json.Unmarshal(b, (*plain)(w))
}

func (a *app) loadWorksheet(path string) (worksheetFile, error) {
	var ws worksheetFile
	if err := a.readJSON(path, &ws); err != nil {
		return ws, err
	}
	if len(ws.Tasks) > readiness.MaxTasks {
		return ws, readiness.ErrTooManyTasks
	}
	return ws, nil
}

func newReadinessCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "readiness <worksheet.json>",
		Short: "Analyze an automation readiness worksheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorksheet(args[0])
			if err != nil {
				return err
			}
			res, ok := readiness.Analyze(ws.Tasks)
			if !ok {
				return fmt.Errorf("no complete tasks in %s: each needs a name, a frequency and a time", args[0])
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newScoreTaskCmd() *cobra.Command {
	var (
		name      string
		frequency string
		minutes   string
	)
	cmd := &cobra.Command{
		Use:   "score-task",
		Short: "Score a single task",
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, ok := readiness.ParseFrequency(frequency)
			if !ok {
				return fmt.Errorf("unknown frequency %q", frequency)
			}
			t := readiness.Task{
				TaskName:         name,
				Frequency:        freq,
				TimeSpentMinutes: readiness.MinutesInput(minutes),
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"score":       readiness.ScoreTask(t),
				"annualHours": t.AnnualHours(),
				"priority":    t.Priority(),
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "task name")
	cmd.Flags().StringVar(&frequency, "frequency", "", "daily, weekly, monthly or adhoc")
	cmd.Flags().StringVar(&minutes, "minutes", "", "minutes spent per occurrence")
	_ = cmd.MarkFlagRequired("frequency")
	_ = cmd.MarkFlagRequired("minutes")
	return cmd
}
