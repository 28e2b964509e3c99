package course

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	termFall   = "Fall"
	termSpring = "Spring"
)

// splitSemester parses "Fall 2024" into its term and year. A malformed
// semester yields year 0 and sorts last.
func splitSemester(s string) (term string, year int) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return "", 0
	}
	term = parts[0]
	if len(parts) > 1 {
		year, _ = strconv.Atoi(parts[1])
	}
	return term, year
}

// CompareSemesters orders semesters most recent first: higher year wins, and
// within the same year Fall precedes Spring. The return value is negative
// when a sorts before b.
func CompareSemesters(a, b string) int {
	termA, yearA := splitSemester(a)
	termB, yearB := splitSemester(b)

	if yearA != yearB {
		return yearB - yearA
	}
	if termA == termB {
		return 0
	}
	if termA == termFall {
		return -1
	}
	return 1
}

// CurrentTerm names the semester containing the given time: January through
// June is Spring, the rest of the year Fall.
func CurrentTerm(now time.Time) string {
	term := termSpring
	if now.Month() >= time.July {
		term = termFall
	}
	return term + " " + strconv.Itoa(now.Year())
}

// Sort options for the past-courses list.
const (
	SortByName     = "name"
	SortBySemester = "semester"
)

// Split partitions courses into the current term's offerings and everything
// else, preserving input order.
func Split(courses []Course, currentTerm string) (current, past []Course) {
	for _, c := range courses {
		if c.Term == currentTerm {
			current = append(current, c)
		} else {
			past = append(past, c)
		}
	}
	return current, past
}

// FilterByName keeps courses whose name contains the search term,
// case-insensitively. An empty search returns the input as-is.
func FilterByName(courses []Course, search string) []Course {
	if search == "" {
		return courses
	}
	search = strings.ToLower(search)
	filtered := make([]Course, 0, len(courses))
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Name), search) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// SortCourses orders courses by the given option; unknown options leave the
// order untouched.
func SortCourses(courses []Course, option string) {
	switch option {
	case SortByName:
		sort.SliceStable(courses, func(i, j int) bool {
			return strings.ToLower(courses[i].Name) < strings.ToLower(courses[j].Name)
		})
	case SortBySemester:
		sort.SliceStable(courses, func(i, j int) bool {
			return CompareSemesters(courses[i].Term, courses[j].Term) < 0
		})
	}
}
