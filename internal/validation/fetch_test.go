package validation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleReport = `{
  "status": "FAIL",
  "summary": {"total_files": 12, "total_errors": 4, "total_warnings": 1, "files_with_issues": 2},
  "metadata": {
    "timestamp": "2026-02-18T10:00:00Z",
    "trigger": "push",
    "branch": "main",
    "schema_commit": "0123456789abcdef",
    "schema_commit_short": "0123456",
    "run_id": 987654321
  },
  "studies_with_issues": [
    {"name": "HMP_2012", "file": "HMP_2012_sample.tsv", "rows": 10, "cols": 4, "errors": ["Missing required fields: age, sex"], "warnings": []},
    {"name": "YuJ_2015", "file": "YuJ_2015_sample.tsv", "errors": ["a", "b", "c"], "warnings": ["w"]}
  ],
  "stats": {
    "total_studies": 90,
    "total_samples": 22000,
    "distributions": {
      "published_year": {"total_distinct": 2, "total_count": 30, "top": [{"name": 2015, "count": 20}, {"name": "2016", "count": 10}]},
      "sex": {"total_distinct": 0, "total_count": 0},
      "country": null
    }
  }
}`

func TestDecodeReport(t *testing.T) {
	report, err := Decode([]byte(sampleReport))
	if err != nil {
		t.Fatal(err)
	}
	if report.NormalizedStatus() != StatusFail {
		t.Fatalf("unexpected status %q", report.Status)
	}
	if report.Summary.FilesWithIssues != 2 {
		t.Fatalf("unexpected files_with_issues %d", report.Summary.FilesWithIssues)
	}
	if report.Metadata.RunID != "987654321" {
		t.Fatalf("numeric run_id not preserved: %q", report.Metadata.RunID)
	}
	if len(report.StudiesWithIssues) != 2 {
		t.Fatalf("expected 2 studies, got %d", len(report.StudiesWithIssues))
	}
	first := report.StudiesWithIssues[0]
	if first.Rows == nil || *first.Rows != 10 || first.Cols == nil || *first.Cols != 4 {
		t.Fatalf("dimensions not decoded: %+v", first)
	}
	if report.StudiesWithIssues[1].Rows != nil {
		t.Fatalf("absent rows must decode to nil")
	}

	years := report.Distribution("published_year")
	if years == nil || len(years.Top) != 2 {
		t.Fatalf("published_year distribution missing: %+v", years)
	}
	if years.Top[0].Name != "2015" || years.Top[1].Name != "2016" {
		t.Fatalf("numeric and string names not normalized: %+v", years.Top)
	}
	if sex := report.Distribution("sex"); sex == nil || sex.Top != nil {
		t.Fatalf("absent top must stay nil: %+v", sex)
	}
	if report.Distribution("country") != nil {
		t.Fatalf("null distribution must decode to nil")
	}
	if report.Distribution("disease") != nil {
		t.Fatalf("missing distribution must be nil")
	}
}

func TestDecodeMissingOptionalFieldsDefaultToZero(t *testing.T) {
	report, err := Decode([]byte(`{"status":"PASS"}`))
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalFiles != 0 || report.Metadata.RunID != "" || report.Stats != nil {
		t.Fatalf("unexpected defaults: %+v", report)
	}
	if report.HasIssues() {
		t.Fatalf("report without studies must not have issues")
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	for _, payload := range []string{"", "   ", "{not json", `{"status": 1}`} {
		if _, err := Decode([]byte(payload)); err == nil {
			t.Fatalf("expected parse error for %q", payload)
		} else if !strings.Contains(err.Error(), "parse validation results") {
			t.Fatalf("unexpected error for %q: %v", payload, err)
		}
	}
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/validation_results.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleReport))
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	doc, err := f.Fetch(context.Background(), srv.URL+"/validation_results.json")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Report.Summary.TotalFiles != 12 {
		t.Fatalf("unexpected total_files %d", doc.Report.Summary.TotalFiles)
	}
	if len(doc.SHA256) != 64 || doc.Size != len(sampleReport) {
		t.Fatalf("unexpected provenance: sha=%q size=%d", doc.SHA256, doc.Size)
	}
}

func TestFetchHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(0).Fetch(context.Background(), srv.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status code %d", statusErr.Code)
	}
	if err.Error() != "failed to fetch validation results: 404" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFetchHTTPInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewFetcher(0).Fetch(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "parse validation results") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestFetchHonorsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewFetcher(50 * time.Millisecond).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation_results.json")
	if err := os.WriteFile(path, []byte(sampleReport), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := NewFetcher(0).Fetch(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Source != path || doc.Report.NormalizedStatus() != StatusFail {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if string(doc.Raw) != sampleReport || doc.Size != len(sampleReport) {
		t.Fatalf("raw bytes not kept: %d bytes", len(doc.Raw))
	}

	_, err = NewFetcher(0).Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDecodeNumericStudyName(t *testing.T) {
	rep, err := Decode([]byte(`{"status":"FAIL","studies_with_issues":[{"name":123,"file":"123.tsv","errors":["x"],"warnings":[]}]}`))
	if err != nil {
		t.Fatalf("numeric study name should decode: %v", err)
	}
	if len(rep.StudiesWithIssues) != 1 || rep.StudiesWithIssues[0].Name.String() != "123" {
		t.Fatalf("unexpected studies %+v", rep.StudiesWithIssues)
	}
}
