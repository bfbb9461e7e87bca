package roster

import "sort"

// SubjectColumns is the alphabetically ordered union of every subject on the roster.
func SubjectColumns(records []Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for subject := range rec.Marks {
			seen[subject] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for subject := range seen {
		out = append(out, subject)
	}
	sort.Strings(out)
	return out
}
