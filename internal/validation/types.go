package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// DistributionFields lists the harmonized metadata fields in display order.
var DistributionFields = []string{
	"species",
	"age_group",
	"body_site",
	"published_year",
	"country",
	"ancestry",
	"disease",
	"sex",
}

type ValidationReport struct {
	Status            Status        `json:"status"`
	Summary           Summary       `json:"summary"`
	Metadata          Metadata      `json:"metadata"`
	StudiesWithIssues []StudyResult `json:"studies_with_issues"`
	Stats             *Stats        `json:"stats,omitempty"`
}

type Summary struct {
	TotalFiles      int `json:"total_files"`
	TotalErrors     int `json:"total_errors"`
	TotalWarnings   int `json:"total_warnings"`
	FilesWithIssues int `json:"files_with_issues"`
}

type Metadata struct {
	Timestamp         string     `json:"timestamp"`
	Trigger           string     `json:"trigger"`
	Branch            string     `json:"branch"`
	SchemaCommit      string     `json:"schema_commit"`
	SchemaCommitShort string     `json:"schema_commit_short"`
	RunID             FlexString `json:"run_id"`
}

type StudyResult struct {
	Name     FlexString `json:"name"`
	File     string     `json:"file"`
	Rows     *int       `json:"rows,omitempty"`
	Cols     *int       `json:"cols,omitempty"`
	Errors   []string   `json:"errors"`
	Warnings []string   `json:"warnings"`
}

func (s StudyResult) ErrorCount() int   { return len(s.Errors) }
func (s StudyResult) WarningCount() int { return len(s.Warnings) }

type Stats struct {
	TotalStudies  int                      `json:"total_studies"`
	TotalSamples  int                      `json:"total_samples"`
	Distributions map[string]*Distribution `json:"distributions"`
}

// Distribution is a truncated frequency table. A nil Top means the field had
// no data at all, while an empty Top is a field with zero listed values.
type Distribution struct {
	TotalDistinct int                `json:"total_distinct"`
	TotalCount    int                `json:"total_count"`
	Top           []DistributionItem `json:"top"`
}

type DistributionItem struct {
	Name  FlexString `json:"name"`
	Count int        `json:"count"`
}

// FlexString accepts a JSON string, number or boolean. Upstream writers emit
// run IDs, study names and publication years as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = FlexString(strconv.FormatBool(v))
		return nil
	}
	return fmt.Errorf("unsupported value %s", string(b))
}

func (f FlexString) String() string { return string(f) }

// Distribution returns the named distribution, or nil when stats or the field
// are absent.
func (r ValidationReport) Distribution(field string) *Distribution {
	if r.Stats == nil || r.Stats.Distributions == nil {
		return nil
	}
	return r.Stats.Distributions[field]
}

func (r ValidationReport) HasIssues() bool {
	return len(r.StudiesWithIssues) > 0
}

func (r ValidationReport) NormalizedStatus() Status {
	return Status(strings.ToUpper(strings.TrimSpace(string(r.Status))))
}
