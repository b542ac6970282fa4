package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ailutions/ailutions-site/internal/maturity"
	"github.com/spf13/cobra"
)

// surveyFile accepts either a bare answers object or
// {"companyName": ..., "answers": {...}}.
type surveyFile struct {
	CompanyName string           `json:"companyName"`
	Answers     maturity.Answers `json:"answers"`
}

func (s *surveyFile) UnmarshalJSON(b []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if _, wrapped := probe["answers"]; !wrapped {
		return json.Unmarshal(b, &s.Answers)
	}
	type plain surveyFile
	return json.Unmarshal(b, (*plain)(s))
}

func (a *app) loadSurvey(path string) (surveyFile, maturity.Result, error) {
	var sf surveyFile
	if err := a.readJSON(path, &sf); err != nil {
		return sf, maturity.Result{}, err
	}
	res, err := maturity.Score(sf.Answers, maturity.DefaultSurvey())
	return sf, res, err
}

func newMaturityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "maturity <answers.json>",
		Short: "Score a completed digital maturity survey",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := a.loadSurvey(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newSurveyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "survey",
		Short: "Take the maturity survey interactively",
		Long: `Walks through the survey one question at a time. Answer with a number
on the scale, "b" to go back or "q" to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runSurvey(cmd.InOrStdin(), cmd.OutOrStdout(), maturity.DefaultSurvey())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

var errSurveyAborted = errors.New("survey aborted")

func runSurvey(in io.Reader, out io.Writer, survey maturity.Survey) (maturity.Result, error) {
	session := maturity.NewSession(survey)
	scanner := bufio.NewScanner(in)
	for {
		sec, question := session.Question()
		fmt.Fprintf(out, "\n[%3.0f%%] %s\n%s\n", 100*session.Progress(), sec.Name, question)
		for _, opt := range survey.Scale {
			fmt.Fprintf(out, "  %d) %s\n", opt.Value, opt.Label)
		}
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return maturity.Result{}, err
			}
			return maturity.Result{}, errSurveyAborted
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "q", "quit":
			return maturity.Result{}, errSurveyAborted
		case "b", "back":
			if !session.Back() {
				fmt.Fprintln(out, "already at the first question")
			}
			continue
		}

		value, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(out, "%q is not a number\n", line)
			continue
		}
		if err := session.Answer(value); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		err = session.Next()
		if errors.Is(err, maturity.ErrNoMoreQuestions) && session.Complete() {
			return session.Result()
		}
		if err != nil {
			return maturity.Result{}, err
		}
	}
}
