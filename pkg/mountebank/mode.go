package mountebank

// MatchMode selects how Mountebank compares a predicate with a request.
type MatchMode int

// Match modes.
const (
	Equals  MatchMode = iota // literal comparison
	Matches                  // regular expression comparison
)

// ModeFor returns Matches for regex-typed values and Equals otherwise.
func ModeFor(regex bool) MatchMode {
	if regex {
		return Matches
	}
	return Equals
}

// Key returns the predicate operator key for the mode.
func (m MatchMode) Key() string {
	if m == Matches {
		return KeyMatches
	}
	return KeyEquals
}

// String returns the string representation of the mode.
func (m MatchMode) String() string {
	return m.Key()
}
