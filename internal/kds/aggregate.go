package kds

import "sort"

// PendingLine is one outstanding dish within a course, summed across all
// tickets.
type PendingLine struct {
	Name     string `json:"name"`
	Portion  string `json:"portion,omitempty"`
	Quantity int    `json:"quantity"`
}

// CoursePending groups the outstanding lines of one course.
type CoursePending struct {
	Course string        `json:"course"`
	Lines  []PendingLine `json:"lines"`
}

// PendingAggregate is the expediting rollup: what is still owed to every
// table, grouped by course and dish.
type PendingAggregate []CoursePending

// BuildPendingAggregate folds every ticket course that has not yet been
// served into (course -> dish+portion -> quantity). Voided lines are
// excluded. Courses follow the configured order, with courses unknown to the
// configuration appended in first-seen order. The rollup is recomputed in
// full on every call; it carries no incremental state to drift.
func BuildPendingAggregate(tickets []Ticket, courseOrder []string) PendingAggregate {
	type lineKey struct {
		name    string
		portion string
	}

	totals := make(map[string]map[lineKey]int)
	var extraCourses []string
	known := make(map[string]bool, len(courseOrder))
	for _, c := range courseOrder {
		known[c] = true
	}

	for i := range tickets {
		t := &tickets[i]
		for _, course := range t.Courses {
			if t.State(course).Status.Served() {
				continue
			}
			for _, o := range t.CourseOrders(course) {
				if totals[course] == nil {
					totals[course] = make(map[lineKey]int)
					if !known[course] {
						known[course] = true
						extraCourses = append(extraCourses, course)
					}
				}
				totals[course][lineKey{o.Name, o.Portion}] += o.Quantity
			}
		}
	}

	ordered := append(append([]string{}, courseOrder...), extraCourses...)

	var agg PendingAggregate
	for _, course := range ordered {
		byLine := totals[course]
		if len(byLine) == 0 {
			continue
		}
		lines := make([]PendingLine, 0, len(byLine))
		for key, qty := range byLine {
			lines = append(lines, PendingLine{Name: key.name, Portion: key.portion, Quantity: qty})
		}
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].Name != lines[j].Name {
				return lines[i].Name < lines[j].Name
			}
			return lines[i].Portion < lines[j].Portion
		})
		agg = append(agg, CoursePending{Course: course, Lines: lines})
	}
	return agg
}
