package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/waldronlab/curation-dashboard/internal/validation"
)

type Tab string

const (
	TabValidation Tab = "validation"
	TabStats      Tab = "stats"
)

var Tabs = []Tab{TabValidation, TabStats}

func (t Tab) Label() string {
	switch t {
	case TabStats:
		return "Metadata Statistics"
	default:
		return "Validation"
	}
}

type SortBy string

const (
	SortByCount SortBy = "count"
	SortByName  SortBy = "name"
)

func (s SortBy) Next() SortBy {
	if s == SortByName {
		return SortByCount
	}
	return SortByName
}

// View is the interaction state of one dashboard: the active tab and the
// sort basis of each distribution. It keeps its own copy of every
// distribution's top-N list; sorting only changes what Items returns.
type View struct {
	active Tab
	sortBy map[string]SortBy
	stored map[string][]validation.DistributionItem
}

func NewView(rep validation.ValidationReport) *View {
	v := &View{
		active: TabValidation,
		sortBy: map[string]SortBy{},
		stored: map[string][]validation.DistributionItem{},
	}
	for _, field := range validation.DistributionFields {
		d := rep.Distribution(field)
		if d == nil || d.Top == nil {
			continue
		}
		v.stored[field] = append([]validation.DistributionItem{}, d.Top...)
		v.sortBy[field] = SortByCount
	}
	return v
}

func (v *View) ActiveTab() Tab { return v.active }

// SelectTab activates the named tab. Unknown names leave the current tab
// active.
func (v *View) SelectTab(name string) error {
	t, ok := ParseTab(name)
	if !ok {
		return fmt.Errorf("unknown tab %q", name)
	}
	v.active = t
	return nil
}

// NextTab cycles through Tabs.
func (v *View) NextTab() Tab {
	for i, t := range Tabs {
		if t == v.active {
			v.active = Tabs[(i+1)%len(Tabs)]
			return v.active
		}
	}
	v.active = TabValidation
	return v.active
}

func ParseTab(name string) (Tab, bool) {
	switch Tab(strings.ToLower(strings.TrimSpace(name))) {
	case TabValidation:
		return TabValidation, true
	case TabStats:
		return TabStats, true
	}
	return "", false
}

// Fields lists the distributions that have data, in display order.
func (v *View) Fields() []string {
	out := make([]string, 0, len(v.stored))
	for _, field := range validation.DistributionFields {
		if _, ok := v.stored[field]; ok {
			out = append(out, field)
		}
	}
	return out
}

func (v *View) HasData(field string) bool {
	_, ok := v.stored[field]
	return ok
}

func (v *View) SortOf(field string) SortBy {
	if s, ok := v.sortBy[field]; ok {
		return s
	}
	return SortByCount
}

func (v *View) SortDistribution(field string, by SortBy) error {
	if _, ok := v.stored[field]; !ok {
		return fmt.Errorf("no distribution data for %q", field)
	}
	switch by {
	case SortByCount, SortByName:
	default:
		return fmt.Errorf("unknown sort %q", by)
	}
	v.sortBy[field] = by
	return nil
}

// ToggleSort flips the field between count and name order and returns the
// new basis.
func (v *View) ToggleSort(field string) SortBy {
	next := v.SortOf(field).Next()
	if err := v.SortDistribution(field, next); err != nil {
		return v.SortOf(field)
	}
	return next
}

// Items returns the field's list in its current sort order as a new slice.
func (v *View) Items(field string) []validation.DistributionItem {
	return SortItems(v.stored[field], v.SortOf(field))
}

// IndexedItem pairs a distribution value with its position in the document.
type IndexedItem struct {
	Index int
	validation.DistributionItem
}

// IndexedItems is Items with each value's document position attached.
func (v *View) IndexedItems(field string) []IndexedItem {
	stored := v.stored[field]
	out := make([]IndexedItem, len(stored))
	for i, it := range stored {
		out[i] = IndexedItem{Index: i, DistributionItem: it}
	}
	by := v.SortOf(field)
	sort.SliceStable(out, func(i, j int) bool {
		return itemLess(by, out[i].DistributionItem, out[j].DistributionItem)
	})
	return out
}

// Stored returns a copy of the field's list in document order.
func (v *View) Stored(field string) []validation.DistributionItem {
	return append([]validation.DistributionItem(nil), v.stored[field]...)
}

// SortItems returns a sorted copy: by count descending, or by name ascending
// ignoring case. Both sorts are stable.
func SortItems(items []validation.DistributionItem, by SortBy) []validation.DistributionItem {
	out := append([]validation.DistributionItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return itemLess(by, out[i], out[j])
	})
	return out
}

func itemLess(by SortBy, a, b validation.DistributionItem) bool {
	if by == SortByName {
		x, y := strings.ToLower(string(a.Name)), strings.ToLower(string(b.Name))
		if x != y {
			return x < y
		}
		return a.Name < b.Name
	}
	return a.Count > b.Count
}

// ApplySorts parses "field:basis" pairs such as "country:name".
func (v *View) ApplySorts(pairs ...string) error {
	for _, pair := range pairs {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		field, by, err := ParseSort(pair)
		if err != nil {
			return err
		}
		if err := v.SortDistribution(field, by); err != nil {
			return err
		}
	}
	return nil
}

// ParseSort splits one "field:basis" pair. The field must be a known
// distribution and the basis count or name; whether the report carries data
// for the field is checked when the sort is applied.
func ParseSort(pair string) (string, SortBy, error) {
	field, basis, ok := strings.Cut(strings.TrimSpace(pair), ":")
	if !ok {
		return "", "", fmt.Errorf("invalid sort %q: want field:count or field:name", pair)
	}
	field = strings.TrimSpace(field)
	if !knownField(field) {
		return "", "", fmt.Errorf("invalid sort %q: unknown field %q", pair, field)
	}
	by := SortBy(strings.ToLower(strings.TrimSpace(basis)))
	switch by {
	case SortByCount, SortByName:
	default:
		return "", "", fmt.Errorf("unknown sort %q", by)
	}
	return field, by, nil
}

// CheckRequest validates a tab name and sort pairs without a report.
func CheckRequest(tab string, sorts []string) error {
	if strings.TrimSpace(tab) != "" {
		if _, ok := ParseTab(tab); !ok {
			return fmt.Errorf("unknown tab %q", tab)
		}
	}
	for _, pair := range sorts {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		if _, _, err := ParseSort(pair); err != nil {
			return err
		}
	}
	return nil
}

func knownField(field string) bool {
	for _, f := range validation.DistributionFields {
		if f == field {
			return true
		}
	}
	return false
}
