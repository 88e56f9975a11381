package coursestatus

import "strings"

// Status is the server-authoritative lifecycle state of one course on a
// ticket. The lifecycle is strictly forward: pending -> away -> sent ->
// cleared. No state is re-entered once passed.
type Status string

const (
	Pending Status = "pending"
	Away    Status = "away"
	Sent    Status = "sent"
	Cleared Status = "cleared"
)

var ranks = map[Status]int{
	Pending: 0,
	Away:    1,
	Sent:    2,
	Cleared: 3,
}

// Parse maps a wire value to a Status. Unknown or empty values come back as
// Pending so a forward-incompatible POS payload degrades to "not started"
// rather than breaking the board.
func Parse(s string) Status {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ranks[st]; ok {
		return st
	}
	return Pending
}

func (s Status) Valid() bool {
	_, ok := ranks[s]
	return ok
}

// Served reports whether the course has reached the table (sent or cleared).
func (s Status) Served() bool {
	return s == Sent || s == Cleared
}

// AtLeast reports whether s has progressed as far as other in the lifecycle.
func (s Status) AtLeast(other Status) bool {
	return ranks[s] >= ranks[other]
}

func (s Status) Code() string {
	return string(s)
}

func (s Status) Label() string {
	code := s.Code()
	if code == "" {
		return ""
	}
	return strings.ToUpper(code[:1]) + code[1:]
}
