package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/gatehouse/pkg/ui"
)

const bannerRule = "========================================"

// RenderParams describes the failure being rendered.
type RenderParams struct {
	// Hook is the lifecycle stage that failed, e.g. "pre-push".
	Hook string

	// Policy is the name of the policy whose command failed.
	Policy string

	// ExitCode is the external command's exit code.
	ExitCode int

	// EnableColor renders the banner with terminal styles.
	EnableColor bool
}

// Render prints the delimited failure banner followed by one line per failed
// test, names verbatim, and a notice for each unparseable artifact.
func Render(w io.Writer, params RenderParams, rep Report) {
	headline := fmt.Sprintf("gate rejected: %s / %s (exit code %d)",
		params.Hook, params.Policy, params.ExitCode)

	if params.EnableColor {
		bannerStyle, itemStyle := ui.GetBannerStyles()
		_, _ = fmt.Fprintln(w, bannerRule)
		_, _ = fmt.Fprintln(w, bannerStyle.Render(headline))
		_, _ = fmt.Fprintln(w, bannerRule)
		writeFailures(w, rep, func(name string) string {
			return itemStyle.Render(name)
		})
		return
	}

	_, _ = fmt.Fprintln(w, bannerRule)
	_, _ = fmt.Fprintln(w, " "+strings.ToUpper(headline))
	_, _ = fmt.Fprintln(w, bannerRule)
	writeFailures(w, rep, func(name string) string {
		return "  " + name
	})
}

func writeFailures(w io.Writer, rep Report, style func(string) string) {
	if len(rep.Failed) > 0 {
		_, _ = fmt.Fprintln(w, "Failing tests:")
		for _, outcome := range rep.Failed {
			_, _ = fmt.Fprintln(w, style(outcome.Name))
		}
	}
	for _, parseErr := range rep.ParseErrors {
		_, _ = fmt.Fprintf(w, "unable to parse results: %s\n", parseErr.Path)
	}
}
