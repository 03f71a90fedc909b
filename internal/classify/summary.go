package classify

import "github.com/waldronlab/curation-dashboard/internal/validation"

// Row is one line of the issue summary table.
type Row struct {
	Study      string   `json:"study"`
	File       string   `json:"file"`
	Errors     int      `json:"errors"`
	Warnings   int      `json:"warnings"`
	Categories []string `json:"categories"`
	Fields     []string `json:"fields"`
}

// Summarize classifies each study's errors and warnings together. Rows follow
// display order: most errors first, document order on ties.
func Summarize(studies []validation.StudyResult) []Row {
	ordered := validation.ByErrorCount(studies)
	rows := make([]Row, 0, len(ordered))
	for _, s := range ordered {
		c := Classify(s.Errors, s.Warnings)
		rows = append(rows, Row{
			Study:      s.Name.String(),
			File:       s.File,
			Errors:     s.ErrorCount(),
			Warnings:   s.WarningCount(),
			Categories: c.Categories(),
			Fields:     c.Fields(),
		})
	}
	return rows
}

// CategoryTotals counts messages per category across all studies.
func CategoryTotals(studies []validation.StudyResult) map[string]int {
	totals := map[string]int{}
	for _, s := range studies {
		for _, group := range [][]string{s.Errors, s.Warnings} {
			for _, msg := range group {
				totals[ClassifyMessage(msg).Category]++
			}
		}
	}
	return totals
}
