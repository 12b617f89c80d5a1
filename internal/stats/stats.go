// Package stats derives aggregate counts from a loaded page of
// notifications. The computation is a pure fold, redone from scratch on
// every call so the result always agrees with whatever page is
// currently held; it never spans the full server-side collection.
package stats

import "github.com/hosteldesk/hosteldesk/internal/model"

// Overview is the read/unread breakdown of the loaded page.
type Overview struct {
	Total  int
	Read   int
	Unread int
}

// PriorityBuckets counts notifications per known priority. A priority
// value outside the four known levels is excluded from the buckets but
// still counted in Overview.Total.
type PriorityBuckets struct {
	Urgent int
	High   int
	Medium int
	Low    int
}

// TypeCount is one entry of the per-type distribution.
type TypeCount struct {
	Type  string
	Count int
}

// Stats is the full derived view over one page of notifications.
type Stats struct {
	Overview Overview
	Priority PriorityBuckets

	// ByType lists type counts in first-seen order.
	ByType []TypeCount
}

// Compute folds the given notifications into a Stats value.
func Compute(notifications []model.Notification) Stats {
	var s Stats
	typeIndex := make(map[string]int)

	for _, n := range notifications {
		s.Overview.Total++
		if n.IsRead {
			s.Overview.Read++
		}

		switch n.Priority {
		case model.PriorityUrgent:
			s.Priority.Urgent++
		case model.PriorityHigh:
			s.Priority.High++
		case model.PriorityMedium:
			s.Priority.Medium++
		case model.PriorityLow:
			s.Priority.Low++
		}

		if i, ok := typeIndex[n.Type]; ok {
			s.ByType[i].Count++
		} else {
			typeIndex[n.Type] = len(s.ByType)
			s.ByType = append(s.ByType, TypeCount{Type: n.Type, Count: 1})
		}
	}

	s.Overview.Unread = s.Overview.Total - s.Overview.Read
	return s
}
