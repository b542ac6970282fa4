package main

import (
	"github.com/ailutions/ailutions-site/internal/roi"
	"github.com/spf13/cobra"
)

func bindROIFlags(cmd *cobra.Command, in *roi.Inputs, industry *string) {
	cmd.Flags().IntVar(&in.Employees, "employees", 0, "employees affected")
	cmd.Flags().Float64Var(&in.AvgAnnualSalary, "salary", 0, "average annual salary")
	cmd.Flags().Float64Var(&in.ManualHoursPerDay, "hours", 0, "manual hours per employee per day")
	cmd.Flags().Float64Var(&in.AutomationPercentage, "automation", 0, "share of manual work automated, in percent")
	cmd.Flags().Float64Var(&in.ImplementationCost, "cost", 0, "one-time implementation cost")
	cmd.Flags().StringVar(industry, "industry", string(roi.Other), "industry (manufacturing, healthcare, finance, retail, technology, professional-services, other)")
}

func newROICmd() *cobra.Command {
	var (
		in       roi.Inputs
		industry string
	)
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Project the return on an automation investment",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := projectFromFlags(&in, industry)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"result":  res,
				"display": res.Display(),
			})
		},
	}
	bindROIFlags(cmd, &in, &industry)
	return cmd
}

func projectFromFlags(in *roi.Inputs, industry string) (roi.Result, error) {
	ind, err := roi.ParseIndustry(industry)
	if err != nil {
		return roi.Result{}, err
	}
	in.Industry = ind
	return roi.Project(*in)
}
