// Package report renders the aggregate report of a run to its configured
// sinks: console summary, SARIF document, and inline annotations.
package report

import (
	"fmt"
	"io"

	"github.com/sprite-ai/lintmux/internal/model"
)

// Sink renders an aggregate report to one destination. Every sink receives
// the same immutable report, so all destinations present a consistent view.
type Sink interface {
	Name() string
	Emit(*model.AggregateReport) error
}

// Emit renders the report through every sink. A failing sink never prevents
// the others from being attempted and never alters the verdict; its error is
// logged to errw and collected for the caller.
func Emit(report *model.AggregateReport, sinks []Sink, errw io.Writer) []error {
	var errs []error
	for _, s := range sinks {
		if err := s.Emit(report); err != nil {
			fmt.Fprintf(errw, "lintmux: %s sink failed: %v\n", s.Name(), err)
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name(), err))
		}
	}
	return errs
}
