package kds

import (
	"strings"
	"time"
)

const (
	defaultPollSeconds          = 10
	minPollSeconds              = 1
	defaultVoidHighlightSeconds = 300
	defaultVoidHideSeconds      = 600
)

// Thresholds are ascending elapsed-second boundaries for the urgency tiers.
// Green is the anchor: elapsed below amber is green, at or beyond amber is
// amber, at or beyond red is red.
type Thresholds struct {
	Green int `json:"green"`
	Amber int `json:"amber"`
	Red   int `json:"red"`
}

// Clamped forces the triplet non-decreasing. A malformed backend entry is
// repaired rather than rejected so Tier can never invert.
func (t Thresholds) Clamped() Thresholds {
	if t.Amber < t.Green {
		t.Amber = t.Green
	}
	if t.Red < t.Amber {
		t.Red = t.Amber
	}
	return t
}

// CourseConfig holds the timer thresholds for one named course: Prep runs
// from called_away_at, Table from sent_at.
type CourseConfig struct {
	Course string     `json:"course"`
	Prep   Thresholds `json:"prep"`
	Table  Thresholds `json:"table"`
}

func (c CourseConfig) Clamped() CourseConfig {
	c.Prep = c.Prep.Clamped()
	c.Table = c.Table.Clamped()
	return c
}

// Settings is the process-wide configuration fetched once per session from
// the POS. It is treated as an immutable value and passed explicitly into
// the pure policy functions.
type Settings struct {
	PollIntervalSeconds  int            `json:"poll_interval_seconds"`
	DefaultPrep          Thresholds     `json:"default_prep"`
	DefaultTable         Thresholds     `json:"default_table"`
	Courses              []CourseConfig `json:"courses"`
	VoidHighlightSeconds int            `json:"void_highlight_seconds"`
	VoidHideSeconds      int            `json:"void_hide_seconds"`
}

// DefaultSettings is the fallback used when the POS settings endpoint is
// unreachable at startup. A stale-but-sane board beats a blank screen.
func DefaultSettings() Settings {
	return Settings{
		PollIntervalSeconds:  defaultPollSeconds,
		DefaultPrep:          Thresholds{Green: 0, Amber: 600, Red: 900},
		DefaultTable:         Thresholds{Green: 0, Amber: 900, Red: 1500},
		VoidHighlightSeconds: defaultVoidHighlightSeconds,
		VoidHideSeconds:      defaultVoidHideSeconds,
	}
}

// Normalized repairs whatever the backend sent: threshold triplets are
// clamped, the poll interval is floored so a bad value cannot hot-loop, and
// absent void windows fall back to the documented decay defaults.
func (s Settings) Normalized() Settings {
	if s.PollIntervalSeconds < minPollSeconds {
		s.PollIntervalSeconds = defaultPollSeconds
	}
	s.DefaultPrep = s.DefaultPrep.Clamped()
	s.DefaultTable = s.DefaultTable.Clamped()
	courses := make([]CourseConfig, len(s.Courses))
	for i, c := range s.Courses {
		courses[i] = c.Clamped()
	}
	s.Courses = courses
	if s.VoidHighlightSeconds <= 0 {
		s.VoidHighlightSeconds = defaultVoidHighlightSeconds
	}
	if s.VoidHideSeconds < s.VoidHighlightSeconds {
		s.VoidHideSeconds = defaultVoidHideSeconds
		if s.VoidHideSeconds < s.VoidHighlightSeconds {
			s.VoidHideSeconds = s.VoidHighlightSeconds
		}
	}
	return s
}

// CourseConfig resolves the timer config for a course: the explicit entry
// when one exists, otherwise one synthesized from the global defaults. Never
// fails; an unrecognized course always gets the defaults.
func (s Settings) CourseConfig(course string) CourseConfig {
	for _, c := range s.Courses {
		if strings.EqualFold(c.Course, course) {
			return c.Clamped()
		}
	}
	return CourseConfig{
		Course: course,
		Prep:   s.DefaultPrep.Clamped(),
		Table:  s.DefaultTable.Clamped(),
	}
}

// CourseOrder returns the configured course sequence.
func (s Settings) CourseOrder() []string {
	order := make([]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		order = append(order, c.Course)
	}
	return order
}

func (s Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalSeconds) * time.Second
}

func (s Settings) VoidHighlightWindow() time.Duration {
	return time.Duration(s.VoidHighlightSeconds) * time.Second
}

func (s Settings) VoidHideWindow() time.Duration {
	return time.Duration(s.VoidHideSeconds) * time.Second
}
