package api

import (
	"net/http"

	"github.com/sprite-ai/lintmux/internal/aggregate"
	"github.com/sprite-ai/lintmux/internal/checker"
	"github.com/sprite-ai/lintmux/internal/model"
	"github.com/sprite-ai/lintmux/internal/scope"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Shared JSON shapes ---

type diagnosticJSON struct {
	CheckerID string `json:"checker_id"`
	File      string `json:"file"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	Severity  string `json:"severity"`
	RuleID    string `json:"rule_id"`
	Message   string `json:"message"`
}

func toDiagnosticJSON(d model.Diagnostic) diagnosticJSON {
	return diagnosticJSON{
		CheckerID: d.CheckerID,
		File:      d.File,
		Line:      d.Line,
		Column:    d.Column,
		Severity:  d.Severity.String(),
		RuleID:    d.RuleID,
		Message:   d.Message,
	}
}

func fromDiagnosticJSON(j diagnosticJSON) (model.Diagnostic, error) {
	sev, err := model.ParseSeverity(j.Severity)
	if err != nil {
		return model.Diagnostic{}, err
	}
	return model.Diagnostic{
		CheckerID: j.CheckerID,
		File:      j.File,
		Line:      j.Line,
		Column:    j.Column,
		Severity:  sev,
		RuleID:    j.RuleID,
		Message:   j.Message,
	}, nil
}

// --- Parse ---

type parseRequest struct {
	CheckerID       string `json:"checker_id"`
	Parser          string `json:"parser"`
	Output          string `json:"output"`
	DefaultSeverity string `json:"default_severity,omitempty"`
}

type parseResponse struct {
	Total       int              `json:"total"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.CheckerID == "" {
		writeError(w, http.StatusBadRequest, "checker_id is required")
		return
	}

	parser, err := checker.LookupParser(req.Parser)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sev := model.SeverityWarning
	if req.DefaultSeverity != "" {
		sev, err = model.ParseSeverity(req.DefaultSeverity)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	diags, err := parser.Parse(req.CheckerID, []byte(req.Output), sev)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "parse failure: "+err.Error())
		return
	}

	resp := parseResponse{Total: len(diags)}
	for _, d := range diags {
		resp.Diagnostics = append(resp.Diagnostics, toDiagnosticJSON(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Report ---
//
// Aggregates run results collected elsewhere (for example CI shards) against
// a diff scope, without running any checker on the server.

type reportRequest struct {
	Diff          string          `json:"diff,omitempty"`
	ScopeMode     string          `json:"scope_mode,omitempty"` // all, changed, added
	SeverityFloor string          `json:"severity_floor,omitempty"`
	Results       []runResultJSON `json:"results"`
}

type runResultJSON struct {
	CheckerID         string           `json:"checker_id"`
	ExitCode          int              `json:"exit_code"`
	Crashed           bool             `json:"crashed"`
	TimedOut          bool             `json:"timed_out"`
	ContinueOnFailure bool             `json:"continue_on_failure"`
	Diagnostics       []diagnosticJSON `json:"diagnostics"`
}

type reportResponse struct {
	Verdict     string            `json:"verdict"`
	Summary     string            `json:"summary"`
	PerChecker  map[string]string `json:"per_checker"`
	Total       int               `json:"total"`
	Diagnostics []diagnosticJSON  `json:"diagnostics"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if len(req.Results) == 0 {
		writeError(w, http.StatusBadRequest, "results are required")
		return
	}

	modeName := req.ScopeMode
	if modeName == "" {
		modeName = "all"
	}
	mode, err := scope.ParseMode(modeName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mask, err := scope.Compute(req.Diff, mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "computing scope: "+err.Error())
		return
	}

	floorName := req.SeverityFloor
	if floorName == "" {
		floorName = "info"
	}
	floor, err := model.ParseSeverity(floorName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var results []model.RunResult
	var specs []checker.Spec
	for _, rr := range req.Results {
		res := model.RunResult{
			CheckerID: rr.CheckerID,
			ExitCode:  rr.ExitCode,
			Crashed:   rr.Crashed,
			TimedOut:  rr.TimedOut,
		}
		for _, j := range rr.Diagnostics {
			d, err := fromDiagnosticJSON(j)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			res.Diagnostics = append(res.Diagnostics, d)
		}
		results = append(results, res)
		specs = append(specs, checker.Spec{
			ID:                rr.CheckerID,
			ContinueOnFailure: rr.ContinueOnFailure,
		})
	}

	rep := aggregate.Aggregate(results, mask, floor, specs)

	resp := reportResponse{
		Verdict:    rep.Verdict.String(),
		Summary:    rep.Summary(),
		PerChecker: make(map[string]string, len(rep.PerChecker)),
		Total:      len(rep.Diagnostics),
	}
	for id, status := range rep.PerChecker {
		resp.PerChecker[id] = status.String()
	}
	for _, d := range rep.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, toDiagnosticJSON(d))
	}
	writeJSON(w, http.StatusOK, resp)
}
