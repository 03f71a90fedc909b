package validation

import "sort"

// ByErrorCount returns a copy of studies ordered by error count, most errors
// first. Studies with equal counts keep their document order.
func ByErrorCount(studies []StudyResult) []StudyResult {
	out := append([]StudyResult(nil), studies...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ErrorCount() > out[j].ErrorCount()
	})
	return out
}
