package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *httptest.Server {
	return httptest.NewServer(New("127.0.0.1:0").Handler())
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestParseEndpoint(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/parse", map[string]any{
		"checker_id": "ruff",
		"parser":     "ruff",
		"output":     "src/app.py:10:5: E501 Line too long\n",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Total       int `json:"total"`
		Diagnostics []struct {
			File   string `json:"file"`
			Line   int    `json:"line"`
			RuleID string `json:"rule_id"`
		} `json:"diagnostics"`
	}
	decode(t, resp, &body)

	if body.Total != 1 {
		t.Fatalf("total = %d", body.Total)
	}
	d := body.Diagnostics[0]
	if d.File != "src/app.py" || d.Line != 10 || d.RuleID != "E501" {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
}

func TestParseEndpointErrors(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	cases := []struct {
		name string
		req  map[string]any
		want int
	}{
		{
			"missing checker id",
			map[string]any{"parser": "gcc", "output": ""},
			http.StatusBadRequest,
		},
		{
			"unknown parser",
			map[string]any{"checker_id": "x", "parser": "pylint", "output": ""},
			http.StatusBadRequest,
		},
		{
			"unparseable output",
			map[string]any{"checker_id": "x", "parser": "gcc", "output": "garbage with no location"},
			http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range cases {
		resp := postJSON(t, ts.URL+"/api/parse", tc.req)
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.want)
		}
	}
}

const apiDiff = `diff --git a/other.py b/other.py
index abc1234..def5678 100644
--- a/other.py
+++ b/other.py
@@ -1,2 +1,3 @@
 import os
+import sys
 print("hi")
`

func reportRequestBody() map[string]any {
	return map[string]any{
		"results": []map[string]any{
			{
				"checker_id":          "a",
				"exit_code":           1,
				"continue_on_failure": true,
				"diagnostics": []map[string]any{{
					"checker_id": "a",
					"file":       "file.py",
					"line":       10,
					"severity":   "error",
					"rule_id":    "E1",
					"message":    "boom",
				}},
			},
			{"checker_id": "b", "continue_on_failure": true},
		},
	}
}

func TestReportEndpointAllScope(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/report", reportRequestBody())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Verdict    string            `json:"verdict"`
		Total      int               `json:"total"`
		PerChecker map[string]string `json:"per_checker"`
	}
	decode(t, resp, &body)

	if body.Verdict != "fail" {
		t.Errorf("verdict = %q", body.Verdict)
	}
	if body.Total != 1 {
		t.Errorf("total = %d", body.Total)
	}
	if body.PerChecker["a"] != "ok" || body.PerChecker["b"] != "ok" {
		t.Errorf("per_checker = %v", body.PerChecker)
	}
}

func TestReportEndpointChangedScope(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	req := reportRequestBody()
	req["diff"] = apiDiff
	req["scope_mode"] = "changed"

	resp := postJSON(t, ts.URL+"/api/report", req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Verdict    string            `json:"verdict"`
		Total      int               `json:"total"`
		PerChecker map[string]string `json:"per_checker"`
	}
	decode(t, resp, &body)

	// The diff never touches file.py, so the error is filtered out.
	if body.Verdict != "pass" {
		t.Errorf("verdict = %q", body.Verdict)
	}
	if body.Total != 0 {
		t.Errorf("total = %d", body.Total)
	}
	if body.PerChecker["a"] != "ok" {
		t.Errorf("execution status must survive filtering: %v", body.PerChecker)
	}
}

func TestReportEndpointErrors(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	// No results at all.
	resp := postJSON(t, ts.URL+"/api/report", map[string]any{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty request: status = %d", resp.StatusCode)
	}

	// Malformed diff is a scope computation failure.
	req := reportRequestBody()
	req["diff"] = "diff --git a/x.py b/x.py\n--- a/x.py\n+++ b/x.py\n@@ -1,5 +1,5 @@\n only one line\n"
	req["scope_mode"] = "changed"
	resp = postJSON(t, ts.URL+"/api/report", req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed diff: status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if !strings.Contains(body["error"], "scope") {
			t.Errorf("error should mention scope: %v", body)
		}
	}
}
