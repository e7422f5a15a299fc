package matcher

import (
	"fmt"
)

// Status classifies how well an input matched the reference data.
// Statuses are totally ordered: Exact > AutoCorrected > NeedsReview > NoMatch.
type Status int

// Match statuses, declared from worst to best so that Rank follows the
// declaration order.
const (
	NoMatch Status = iota
	NeedsReview
	AutoCorrected
	Exact
)

var statusNames = map[Status]string{
	NoMatch:       "no_match",
	NeedsReview:   "needs_review",
	AutoCorrected: "auto_corrected",
	Exact:         "exact",
}

// Rank returns the position of s in the total order; higher is better.
func (s Status) Rank() int {
	return int(s)
}

// Accepted reports whether a value with this status may be used without
// human review.
func (s Status) Accepted() bool {
	return s == Exact || s == AutoCorrected
}

// String returns the snake_case name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown match status %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus parses the snake_case name of a status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return NoMatch, fmt.Errorf("unknown match status %q", name)
}

// Statuses returns all statuses from best to worst.
func Statuses() []Status {
	return []Status{Exact, AutoCorrected, NeedsReview, NoMatch}
}

// Worst returns the lowest-ranked status. With no arguments it returns Exact.
func Worst(statuses ...Status) Status {
	worst := Exact
	for _, s := range statuses {
		if s.Rank() < worst.Rank() {
			worst = s
		}
	}
	return worst
}
