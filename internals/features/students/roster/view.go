package roster

import (
	"sort"
	"strconv"
	"strings"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Named (non-subject) sort keys.
const (
	KeyRollNumber = "rollNumber"
	KeyName       = "name"
	KeyCourse     = "course"
	KeyPercentage = "percentage"
	KeyGrade      = "grade"
)

type Query struct {
	Search       string
	SortKey      string
	Direction    string // asc|desc, anything else is asc
	IsSubjectKey bool
}

// View filters then stably sorts the roster. No sort key keeps input order.
func View(records []Record, q Query) []Row {
	return ViewRows(Resolve(records), q)
}

func ViewRows(rows []Row, q Query) []Row {
	out := Filter(rows, q.Search)
	Sort(out, q.SortKey, q.Direction, q.IsSubjectKey)
	return out
}

// Filter keeps rows whose name, course, roll number or grade contains term,
// ignoring case. A blank term keeps everything.
func Filter(rows []Row, term string) []Row {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if term == "" || matches(row, term) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row Row, term string) bool {
	fields := [...]string{
		row.Name,
		row.Course,
		strconv.Itoa(row.RollNumber),
		row.Stats.Grade,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Sort orders rows in place. Ties keep their relative order in both directions.
func Sort(rows []Row, key, direction string, isSubject bool) {
	less := lessFor(key, isSubject)
	if less == nil {
		return
	}
	desc := strings.EqualFold(direction, SortDesc)
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func lessFor(key string, isSubject bool) func(a, b Row) bool {
	if key == "" {
		return nil
	}
	if isSubject {
		return func(a, b Row) bool { return a.Score(key) < b.Score(key) }
	}
	switch key {
	case KeyPercentage:
		return func(a, b Row) bool { return a.Stats.Percentage < b.Stats.Percentage }
	case KeyRollNumber:
		return func(a, b Row) bool { return a.RollNumber < b.RollNumber }
	case KeyName:
		return func(a, b Row) bool { return foldLess(a.Name, b.Name) }
	case KeyCourse:
		return func(a, b Row) bool { return foldLess(a.Course, b.Course) }
	case KeyGrade:
		return func(a, b Row) bool { return foldLess(a.Stats.Grade, b.Stats.Grade) }
	default:
		return nil
	}
}

func foldLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// IsNamedKey reports whether key is one of the built-in sort keys.
func IsNamedKey(key string) bool {
	switch key {
	case KeyRollNumber, KeyName, KeyCourse, KeyPercentage, KeyGrade:
		return true
	}
	return false
}
