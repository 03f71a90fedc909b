package dashboard

import (
	"reflect"
	"testing"

	"github.com/waldronlab/curation-dashboard/internal/validation"
)

func names(items []validation.DistributionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name.String()
	}
	return out
}

func viewReport() validation.ValidationReport {
	return validation.ValidationReport{
		Stats: &validation.Stats{Distributions: map[string]*validation.Distribution{
			"disease": {TotalDistinct: 4, TotalCount: 40, Top: []validation.DistributionItem{
				{Name: "healthy", Count: 10},
				{Name: "CRC", Count: 25},
				{Name: "IBD", Count: 10},
				{Name: "adenoma", Count: 5},
			}},
		}},
	}
}

func TestViewStartsOnValidationTab(t *testing.T) {
	v := NewView(viewReport())
	if v.ActiveTab() != TabValidation {
		t.Fatalf("expected validation tab, got %s", v.ActiveTab())
	}
	if err := v.SelectTab("Stats"); err != nil {
		t.Fatal(err)
	}
	if v.ActiveTab() != TabStats {
		t.Fatalf("expected stats tab, got %s", v.ActiveTab())
	}
	if err := v.SelectTab("history"); err == nil {
		t.Fatalf("expected error for unknown tab")
	}
	if v.ActiveTab() != TabStats {
		t.Fatalf("unknown tab must keep the current tab")
	}
	if v.NextTab() != TabValidation {
		t.Fatalf("NextTab should wrap to validation")
	}
}

func TestViewSortByCountIsStableOnTies(t *testing.T) {
	v := NewView(viewReport())
	got := names(v.Items("disease"))
	want := []string{"CRC", "healthy", "IBD", "adenoma"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("count order mismatch: got %v want %v", got, want)
	}
}

func TestViewSortByNameIgnoresCase(t *testing.T) {
	v := NewView(viewReport())
	if err := v.SortDistribution("disease", SortByName); err != nil {
		t.Fatal(err)
	}
	got := names(v.Items("disease"))
	want := []string{"adenoma", "CRC", "healthy", "IBD"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("name order mismatch: got %v want %v", got, want)
	}
}

func TestViewSortIsIdempotentAndKeepsStoredList(t *testing.T) {
	rep := viewReport()
	v := NewView(rep)
	before := names(v.Stored("disease"))

	if err := v.SortDistribution("disease", SortByName); err != nil {
		t.Fatal(err)
	}
	once := names(v.Items("disease"))
	if err := v.SortDistribution("disease", SortByName); err != nil {
		t.Fatal(err)
	}
	twice := names(v.Items("disease"))
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("sorting twice changed the order: %v vs %v", once, twice)
	}
	if !reflect.DeepEqual(before, names(v.Stored("disease"))) {
		t.Fatalf("stored list was reordered")
	}
	if names(rep.Stats.Distributions["disease"].Top)[0] != "healthy" {
		t.Fatalf("report list was reordered")
	}
}

func TestViewToggleSort(t *testing.T) {
	v := NewView(viewReport())
	if got := v.ToggleSort("disease"); got != SortByName {
		t.Fatalf("first toggle should sort by name, got %s", got)
	}
	if got := v.ToggleSort("disease"); got != SortByCount {
		t.Fatalf("second toggle should sort by count, got %s", got)
	}
	if got := v.ToggleSort("country"); got != SortByCount {
		t.Fatalf("toggling a field without data should be a no-op, got %s", got)
	}
}

func TestViewIndexedItemsCarryDocumentPosition(t *testing.T) {
	v := NewView(viewReport())
	items := v.IndexedItems("disease")
	if items[0].Name != "CRC" || items[0].Index != 1 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[3].Name != "adenoma" || items[3].Index != 3 {
		t.Fatalf("unexpected last item: %+v", items[3])
	}
}

func TestViewFieldsAndHasData(t *testing.T) {
	v := NewView(viewReport())
	if !reflect.DeepEqual(v.Fields(), []string{"disease"}) {
		t.Fatalf("unexpected fields: %v", v.Fields())
	}
	if v.HasData("country") {
		t.Fatalf("country has no data")
	}
	if err := v.SortDistribution("country", SortByName); err == nil {
		t.Fatalf("expected error sorting a field without data")
	}
	if err := v.SortDistribution("disease", SortBy("size")); err == nil {
		t.Fatalf("expected error for unknown sort basis")
	}
}

func TestViewApplySorts(t *testing.T) {
	v := NewView(viewReport())
	if err := v.ApplySorts("", " disease : NAME "); err != nil {
		t.Fatal(err)
	}
	if v.SortOf("disease") != SortByName {
		t.Fatalf("expected name sort, got %s", v.SortOf("disease"))
	}
	if err := v.ApplySorts("disease"); err == nil {
		t.Fatalf("expected error for a pair without basis")
	}
}
