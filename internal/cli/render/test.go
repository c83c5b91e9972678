package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/harness"
)

// TestRenderer prints a suite report grouped by case group
type TestRenderer struct {
	out io.Writer
}

// NewTestRenderer creates a new test report renderer
func NewTestRenderer(out io.Writer) *TestRenderer {
	return &TestRenderer{out: out}
}

// Render prints one line per case, the failure details and the totals
func (r *TestRenderer) Render(report *harness.Report) error {
	headerStyle.Fprintf(r.out, "\n  FundMe %s tests on %s\n", report.Mode, report.Network)
	if len(report.Results) == 0 {
		fmt.Fprintln(r.out, FormatWarning("No tests matched"))
		return nil
	}

	group := ""
	var total time.Duration
	var failures []harness.Result
	for _, res := range report.Results {
		total += res.Duration
		if res.Case.Group != group {
			group = res.Case.Group
			fmt.Fprintf(r.out, "\n    %s\n", group)
		}
		if res.Passed() {
			fmt.Fprintf(r.out, "      %s %s %s\n", successStyle.Sprint("✔"), res.Case.Name, faintStyle.Sprintf("(%s)", res.Duration.Round(time.Millisecond)))
			continue
		}
		failures = append(failures, res)
		fmt.Fprintf(r.out, "      %s\n", errorStyle.Sprintf("%d) %s", len(failures), res.Case.Name))
	}

	passed := len(report.Results) - len(failures)
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  %s %s\n", successStyle.Sprintf("%d passing", passed), faintStyle.Sprintf("(%s)", total.Round(time.Millisecond)))
	if len(failures) > 0 {
		fmt.Fprintf(r.out, "  %s\n", errorStyle.Sprintf("%d failing", len(failures)))
	}

	for i, res := range failures {
		fmt.Fprintf(r.out, "\n  %d) %s\n", i+1, res.Case.Title())
		for _, line := range strings.Split(res.Err.Error(), "\n") {
			fmt.Fprintf(r.out, "     %s\n", errorStyle.Sprint(line))
		}
	}
	return nil
}

var _ Renderer[*harness.Report] = (*TestRenderer)(nil)
