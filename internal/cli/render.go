package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/dezero/internal/pipeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
)

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"})
)

// derivatives documents each operation for the ops listing.
var derivatives = map[string][2]string{
	"square":  {"x^2", "2x"},
	"exp":     {"e^x", "e^x"},
	"log":     {"ln x", "1/x"},
	"sin":     {"sin x", "cos x"},
	"cos":     {"cos x", "-sin x"},
	"tanh":    {"tanh x", "1 - tanh^2 x"},
	"sigmoid": {"1/(1+e^-x)", "s(x)(1-s(x))"},
	"sqrt":    {"sqrt x", "1/(2 sqrt x)"},
	"relu":    {"max(0, x)", "1 if x > 0 else 0"},
}

func renderRun(w io.Writer, format string, res *pipeline.Result) error {
	if format == "json" {
		return writeJSON(w, res)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Stage", "Data", "Grad"})
	for i, s := range res.Stages {
		t.AppendRow(table.Row{i, s.Name, formatValues(s.Data), formatValues(s.Grad)})
	}
	t.Render()
	return nil
}

func renderCheck(w io.Writer, format string, res *pipeline.CheckResult) error {
	if format == "json" {
		return writeJSON(w, res)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Input", "Analytic", "Numeric", "|Diff|"})
	for i := range res.Input {
		diff := res.Analytic[i] - res.Numeric[i]
		if diff < 0 {
			diff = -diff
		}
		t.AppendRow(table.Row{i, formatValue(res.Input[i]), formatValue(res.Analytic[i]), formatValue(res.Numeric[i]), formatValue(diff)})
	}
	t.Render()

	status := passStyle.Render("PASS")
	if !res.Passed {
		status = failStyle.Render("FAIL")
	}
	_, err := fmt.Fprintf(w, "%s max |diff| %s (epsilon %g, tolerance %g)\n",
		status, formatValue(res.MaxAbsDiff), res.Epsilon, res.Tolerance)
	return errors.WithStack(err)
}

// maxTraceRows bounds the steps shown by the minimize table.
const maxTraceRows = 20

func renderMinimize(w io.Writer, format string, res *pipeline.MinimizeResult) error {
	if format == "json" {
		return writeJSON(w, res)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Step", "Loss"})
	stride := max(1, (len(res.Steps)+maxTraceRows-1)/maxTraceRows)
	for i, s := range res.Steps {
		if i%stride == 0 || i == len(res.Steps)-1 {
			t.AppendRow(table.Row{s.Step, formatValue(s.Loss)})
		}
	}
	t.AppendFooter(table.Row{"final", formatValue(res.FinalLoss)})
	t.Render()

	_, err := fmt.Fprintf(w, "%s: %s -> %s\n", res.Optimizer, formatValues(res.Start), formatValues(res.Final))
	return errors.WithStack(err)
}

func renderOps(w io.Writer, names []string) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Operation", "f(x)", "f'(x)"})
	for _, name := range names {
		d := derivatives[name]
		t.AppendRow(table.Row{name, d[0], d[1]})
	}
	t.Render()
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 7, 64)
}

func formatValues(vs []float64) string {
	if vs == nil {
		return "-"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatValue(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
