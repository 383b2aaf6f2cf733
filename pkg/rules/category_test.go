package rules

import "testing"

func TestCategorySet_Sorted(t *testing.T) {
	s := make(CategorySet)
	s.Add(CategoryTemp)
	s.Add(CategoryBackup)
	s.Add(CategoryApplication)
	s.Add(CategoryLog)

	got := s.Sorted()
	want := []Category{CategoryApplication, CategoryBackup, CategoryLog, CategoryTemp}
	if len(got) != len(want) {
		t.Fatalf("Sorted() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("render_artifact"); err != nil {
		t.Errorf("ParseCategory(render_artifact) failed: %v", err)
	}
	if _, err := ParseCategory("scratch"); err == nil {
		t.Error("ParseCategory(scratch) accepted an unknown category")
	}
}
