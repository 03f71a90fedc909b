package classify

import (
	"regexp"
	"sort"
	"strings"
)

const (
	CategoryMissingRequired = "Missing required"
	CategoryValidationError = "Validation error"
	CategoryTypeMismatch    = "Type mismatch"
	CategoryInvalidValues   = "Invalid values"
	CategoryPatternMismatch = "Pattern violation"
	CategoryMissingPaired   = "Missing paired field"
	CategoryCountMismatch   = "Count mismatch"
	CategoryOther           = "Other"
)

// Rule maps one message shape to a category. Fields extracts affected
// column names from the submatches of Pattern.
type Rule struct {
	RuleID   string
	Category string
	Pattern  *regexp.Regexp
	Fields   func(m []string) []string
}

// Rules are tried in order and the first match wins. Messages that match
// nothing fall into CategoryOther; upstream wording changes degrade to that
// bucket instead of failing.
var Rules = []Rule{
	{
		RuleID:   "missing_required",
		Category: CategoryMissingRequired,
		Pattern:  regexp.MustCompile(`Missing required fields?:\s*(.*)$`),
		Fields:   func(m []string) []string { return splitFieldList(m[1]) },
	},
	{
		RuleID:   "validation_error",
		Category: CategoryValidationError,
		Pattern:  regexp.MustCompile(`^\s*VALIDATION ERROR:`),
	},
	{
		RuleID:   "field_type",
		Category: CategoryTypeMismatch,
		Pattern:  regexp.MustCompile(`Field '([^']+)'.*expected type`),
		Fields:   first,
	},
	{
		RuleID:   "field_invalid_values",
		Category: CategoryInvalidValues,
		Pattern:  regexp.MustCompile(`Field '([^']+)'.*invalid values?:`),
		Fields:   first,
	},
	{
		RuleID:   "field_pattern",
		Category: CategoryPatternMismatch,
		Pattern:  regexp.MustCompile(`Field '([^']+)'.*not matching pattern`),
		Fields:   first,
	},
	{
		RuleID:   "row_missing_paired",
		Category: CategoryMissingPaired,
		Pattern:  regexp.MustCompile(`Row \d+: '([^']+)' has a value but '([^']+)' is missing`),
		Fields:   pair,
	},
	{
		RuleID:   "row_count_mismatch",
		Category: CategoryCountMismatch,
		Pattern:  regexp.MustCompile(`Row \d+: '([^']+)' has \d+ values? but '([^']+)'`),
		Fields:   pair,
	},
	{
		RuleID:   "row_invalid_values",
		Category: CategoryInvalidValues,
		Pattern:  regexp.MustCompile(`Row \d+: '([^']+)' has invalid values?:`),
		Fields:   first,
	},
	{
		RuleID:   "row_pattern",
		Category: CategoryPatternMismatch,
		Pattern:  regexp.MustCompile(`Row \d+: '([^']+)' value.*does not match pattern`),
		Fields:   first,
	},
}

var fieldMention = regexp.MustCompile(`Field '([^']+)'`)

// Match is the outcome for a single message. RuleID is "other" for the
// fallback.
type Match struct {
	RuleID   string
	Category string
	Fields   []string
}

func ClassifyMessage(msg string) Match {
	for _, r := range Rules {
		m := r.Pattern.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		var fields []string
		if r.Fields != nil {
			fields = r.Fields(m)
		}
		return Match{RuleID: r.RuleID, Category: r.Category, Fields: fields}
	}
	if m := fieldMention.FindStringSubmatch(msg); m != nil {
		return Match{RuleID: "other", Category: CategoryOther, Fields: first(m)}
	}
	return Match{RuleID: "other", Category: CategoryOther}
}

// Classification holds the category and field sets for a group of messages.
type Classification struct {
	categories map[string]bool
	fields     map[string]bool
}

func Classify(messages ...[]string) Classification {
	c := Classification{categories: map[string]bool{}, fields: map[string]bool{}}
	for _, group := range messages {
		for _, msg := range group {
			c.Add(ClassifyMessage(msg))
		}
	}
	return c
}

func (c *Classification) Add(m Match) {
	if c.categories == nil {
		c.categories = map[string]bool{}
	}
	if c.fields == nil {
		c.fields = map[string]bool{}
	}
	c.categories[m.Category] = true
	for _, f := range m.Fields {
		c.fields[f] = true
	}
}

func (c Classification) Categories() []string { return sortedKeys(c.categories) }
func (c Classification) Fields() []string     { return sortedKeys(c.fields) }

func (c Classification) Empty() bool {
	return len(c.categories) == 0 && len(c.fields) == 0
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func splitFieldList(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func first(m []string) []string { return []string{m[1]} }

func pair(m []string) []string { return []string{m[1], m[2]} }
