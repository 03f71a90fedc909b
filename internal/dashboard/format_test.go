package dashboard

import (
	"testing"
	"time"

	"github.com/waldronlab/curation-dashboard/internal/validation"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2026-02-18T10:00:00Z", "Feb 18, 2026, 10:00 AM UTC"},
		{"2026-02-18T10:00:00.123456", "Feb 18, 2026, 10:00 AM UTC"},
		{"2026-02-18T22:05:00+02:00", "Feb 18, 2026, 08:05 PM UTC"},
		{"2026-02-18T10:00Z", "Feb 18, 2026, 10:00 AM UTC"},
		{"2026-02-18T10:00", "Feb 18, 2026, 10:00 AM UTC"},
		{"2026-02-18", "Feb 18, 2026, 12:00 AM UTC"},
		{"", "N/A"},
		{"yesterday", "yesterday"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.raw, time.UTC); got != tc.want {
			t.Fatalf("FormatTimestamp(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCommitRef(t *testing.T) {
	short, full, ok := CommitRef(validation.Metadata{SchemaCommit: "abcdef0123456789"})
	if !ok || short != "abcdef0" || full != "abcdef0123456789" {
		t.Fatalf("unexpected ref: %q %q %v", short, full, ok)
	}
	short, full, ok = CommitRef(validation.Metadata{SchemaCommitShort: "abc1234"})
	if !ok || short != "abc1234" || full != "abc1234" {
		t.Fatalf("unexpected ref from short only: %q %q %v", short, full, ok)
	}
	if _, _, ok := CommitRef(validation.Metadata{}); ok {
		t.Fatalf("expected no commit ref")
	}
}

func TestWorkflowURL(t *testing.T) {
	if got := WorkflowURL("o", "r", ""); got != "" {
		t.Fatalf("expected empty URL, got %q", got)
	}
	if got := WorkflowURL("o", "r", "42"); got != "https://github.com/o/r/actions/runs/42" {
		t.Fatalf("unexpected URL %q", got)
	}
}

func TestPluralAndTitles(t *testing.T) {
	if plural(1, "error") != "1 error" || plural(0, "warning") != "0 warnings" {
		t.Fatalf("plural mismatch")
	}
	if elementPrefix("body_site") != "body-site" {
		t.Fatalf("prefix mismatch")
	}
	if fieldTitle("age_group") != "Age Group" || fieldTitle("country") != "Country" {
		t.Fatalf("title mismatch")
	}
}
