package application

import (
	"testing"
	"time"
)

func sampleRows() []Application {
	mk := func(name, position string, appliedAt time.Time) Application {
		return Application{FullName: name, AppliedAt: appliedAt, Job: JobInfo{Position: position}}
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Application{
		mk("Zoya", "Analyst", base.AddDate(0, 0, 3)),
		mk("asha", "Program Manager", base.AddDate(0, 0, 1)),
		mk("Ravi", "Coordinator", base.AddDate(0, 0, 2)),
	}
}

func TestSortByName(t *testing.T) {
	rows := sampleRows()
	Sort(rows, SortKeyName, SortAscending)
	want := []string{"asha", "Ravi", "Zoya"}
	for i, name := range want {
		if rows[i].FullName != name {
			t.Errorf("rows[%d] = %q, want %q", i, rows[i].FullName, name)
		}
	}
}

func TestSortByDate(t *testing.T) {
	rows := sampleRows()
	Sort(rows, SortKeyDate, SortAscending)
	for i := 1; i < len(rows); i++ {
		if rows[i].AppliedAt.Before(rows[i-1].AppliedAt) {
			t.Errorf("rows not in ascending applied_at order at %d", i)
		}
	}
}

func TestSortDescendingReverses(t *testing.T) {
	asc := sampleRows()
	desc := sampleRows()
	Sort(asc, SortKeyPosition, SortAscending)
	Sort(desc, SortKeyPosition, SortDescending)
	for i := range asc {
		if asc[i].FullName != desc[len(desc)-1-i].FullName {
			t.Errorf("descending order is not the reverse of ascending at %d", i)
		}
	}
}

func TestComparatorTotalOrder(t *testing.T) {
	cmp := NewComparator(SortKeyName, SortAscending)
	rows := sampleRows()
	for _, a := range rows {
		if cmp(a, a) != 0 {
			t.Errorf("compare(%q, %q) != 0", a.FullName, a.FullName)
		}
		for _, b := range rows {
			if cmp(a, b) != -cmp(b, a) {
				t.Errorf("compare(%q, %q) is not antisymmetric", a.FullName, b.FullName)
			}
		}
	}
}
