package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sprite-ai/lintmux/internal/model"
)

// AnnotationSink emits one inline annotation per in-scope diagnostic, as
// workflow command lines the hosting CI turns into review annotations.
// Draft changes receive no annotations at all; the console and SARIF sinks
// still run for them.
type AnnotationSink struct {
	Out   io.Writer
	Draft bool
}

func (s *AnnotationSink) Name() string { return "annotations" }

func (s *AnnotationSink) Emit(r *model.AggregateReport) error {
	if s.Draft {
		return nil
	}

	for _, d := range r.Diagnostics {
		props := fmt.Sprintf("file=%s", d.File)
		if d.Line > 0 {
			props += fmt.Sprintf(",line=%d", d.Line)
			if d.Column > 0 {
				props += fmt.Sprintf(",col=%d", d.Column)
			}
		}
		msg := fmt.Sprintf("[%s/%s] %s", d.CheckerID, d.RuleID, escapeAnnotation(d.Message))
		fmt.Fprintf(s.Out, "::%s %s::%s\n", annotationLevel(d.Severity), props, msg)
	}
	return nil
}

func annotationLevel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "error"
	case model.SeverityWarning:
		return "warning"
	default:
		return "notice"
	}
}

// Workflow command data must escape %, CR, and LF.
func escapeAnnotation(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
