package dashboard

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/waldronlab/curation-dashboard/internal/validation"
)

const notAvailable = "N/A"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatTimestamp renders an ISO-8601 timestamp as "Feb 18, 2026, 10:00 AM UTC"
// in loc. Timestamps without an offset are read as UTC. Empty input gives
// "N/A"; input that does not parse is returned unchanged.
func FormatTimestamp(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return notAvailable
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.In(loc).Format("Jan 2, 2006, 03:04 PM MST")
		}
	}
	return raw
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// CommitRef returns the short and full schema commit. ok is false when the
// report names no commit.
func CommitRef(meta validation.Metadata) (short, full string, ok bool) {
	full = strings.TrimSpace(meta.SchemaCommit)
	short = strings.TrimSpace(meta.SchemaCommitShort)
	if full == "" && short == "" {
		return "", "", false
	}
	if full == "" {
		full = short
	}
	if short == "" {
		short = full
		if len(short) > 7 {
			short = short[:7]
		}
	}
	return short, full, true
}

func CommitURL(owner, repo, hash string) string {
	return fmt.Sprintf("https://github.com/%s/%s/commit/%s", owner, repo, url.PathEscape(hash))
}

// WorkflowURL returns the Actions run link, or "" when runID is empty.
func WorkflowURL(owner, repo string, runID validation.FlexString) string {
	id := strings.TrimSpace(runID.String())
	if id == "" {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s/actions/runs/%s", owner, repo, url.PathEscape(id))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// elementPrefix maps a distribution field to its element ID prefix
// ("age_group" -> "age-group").
func elementPrefix(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func fieldTitle(field string) string {
	switch field {
	case "age_group":
		return "Age Group"
	case "body_site":
		return "Body Site"
	case "published_year":
		return "Published Year"
	}
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
