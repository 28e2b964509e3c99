package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareSemesters(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int // sign only
	}{
		{name: "higher year first", a: "Fall 2024", b: "Spring 2023", want: -1},
		{name: "higher year first reversed", a: "Spring 2023", b: "Fall 2024", want: 1},
		{name: "same year, fall precedes spring", a: "Fall 2024", b: "Spring 2024", want: -1},
		{name: "same year, spring after fall", a: "Spring 2024", b: "Fall 2024", want: 1},
		{name: "equal", a: "Fall 2024", b: "Fall 2024", want: 0},
		{name: "malformed sorts last", a: "Fall 2024", b: "whatever", want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareSemesters(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Less(t, got, 0, "CompareSemesters(%q, %q)", tt.a, tt.b)
			case tt.want > 0:
				assert.Greater(t, got, 0, "CompareSemesters(%q, %q)", tt.a, tt.b)
			default:
				assert.Equal(t, 0, got, "CompareSemesters(%q, %q)", tt.a, tt.b)
			}
		})
	}
}

func TestCurrentTerm(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{date: "2024-01-15", want: "Spring 2024"},
		{date: "2024-06-30", want: "Spring 2024"},
		{date: "2024-07-01", want: "Fall 2024"},
		{date: "2024-12-31", want: "Fall 2024"},
	}
	for _, tt := range tests {
		now, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", tt.date, err)
		}
		assert.Equal(t, tt.want, CurrentTerm(now), "CurrentTerm(%s)", tt.date)
	}
}

func TestSplit(t *testing.T) {
	courses := []Course{
		{ID: 1, Name: "Algorithms", Term: "Fall 2024"},
		{ID: 2, Name: "Compilers", Term: "Spring 2024"},
		{ID: 3, Name: "Databases", Term: "Fall 2024"},
		{ID: 4, Name: "Networks", Term: "Spring 2023"},
	}

	current, past := Split(courses, "Fall 2024")
	assert.Equal(t, []int{1, 3}, courseIDs(current))
	assert.Equal(t, []int{2, 4}, courseIDs(past))
}

func TestFilterByName(t *testing.T) {
	courses := []Course{
		{ID: 1, Name: "Intro to Compilers"},
		{ID: 2, Name: "Databases"},
		{ID: 3, Name: "Advanced Compilers"},
	}

	assert.Equal(t, []int{1, 3}, courseIDs(FilterByName(courses, "compiler")))
	assert.Equal(t, []int{1, 2, 3}, courseIDs(FilterByName(courses, "")))
	assert.Empty(t, FilterByName(courses, "zzz"))
}

func TestSortCourses(t *testing.T) {
	mk := func() []Course {
		return []Course{
			{ID: 1, Name: "databases", Term: "Spring 2023"},
			{ID: 2, Name: "Algorithms", Term: "Fall 2024"},
			{ID: 3, Name: "Compilers", Term: "Spring 2024"},
		}
	}

	byName := mk()
	SortCourses(byName, SortByName)
	assert.Equal(t, []int{2, 3, 1}, courseIDs(byName))

	bySemester := mk()
	SortCourses(bySemester, SortBySemester)
	assert.Equal(t, []int{2, 3, 1}, courseIDs(bySemester))

	untouched := mk()
	SortCourses(untouched, "bogus")
	assert.Equal(t, []int{1, 2, 3}, courseIDs(untouched))
}

func courseIDs(courses []Course) []int {
	ids := make([]int, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}
