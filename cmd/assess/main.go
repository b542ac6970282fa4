// Command assess runs the assessment calculators offline: it scores
// readiness worksheets, maturity surveys and ROI inputs from files or flags
// and renders the matching PDF reports.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ailutions/ailutions-site/internal/logging"
	"github.com/ailutions/ailutions-site/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app carries what the subcommands share. Tests swap fs and newRenderer.
type app struct {
	fs          afero.Fs
	newRenderer func(chromePath string) pdfRenderer

	logLevel string
}

func defaultRenderer(chromePath string) pdfRenderer {
	c := report.NewChromium(chromePath, 0)
	return report.NewRenderer(c, c)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "assess",
		Short:         "Score automation assessments and render reports offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(a.logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newReadinessCmd(a),
		newScoreTaskCmd(),
		newMaturityCmd(a),
		newSurveyCmd(),
		newROICmd(),
		newRenderCmd(a),
	)
	return root
}

func (a *app) readJSON(path string, v any) error {
	b, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	a := &app{fs: afero.NewOsFs(), newRenderer: defaultRenderer}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
