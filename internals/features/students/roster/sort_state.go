package roster

// SortState is the caller-held toggle for column headers.
type SortState struct {
	Key          string `json:"key"`
	Direction    string `json:"direction"`
	IsSubjectKey bool   `json:"is_subject_key"`
}

// Request returns the state after the user picks key: the same key while
// ascending flips to descending, anything else sorts ascending.
func (s SortState) Request(key string, isSubject bool) SortState {
	dir := SortAsc
	if s.Key == key && s.IsSubjectKey == isSubject && s.Direction == SortAsc {
		dir = SortDesc
	}
	return SortState{Key: key, Direction: dir, IsSubjectKey: isSubject}
}

// Query turns the state into a view query for the given search term.
func (s SortState) Query(search string) Query {
	return Query{Search: search, SortKey: s.Key, Direction: s.Direction, IsSubjectKey: s.IsSubjectKey}
}
