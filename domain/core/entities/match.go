package entities

import "time"

// Generation identifies one discrete matching round. Identifiers are
// strictly increasing, starting at 1; zero means no round has run yet.
type Generation struct {
	ID   uint64
	Time time.Time
}

// Match is one recorded outcome within a generation: a pair of
// participants, or a lone participant when the round had odd parity.
// Partner is nil for the singleton row.
type Match struct {
	Generation uint64
	Person     uint64
	Partner    *uint64
}

// IsSingleton reports whether this row records an unpaired participant.
func (m Match) IsSingleton() bool {
	return m.Partner == nil
}
