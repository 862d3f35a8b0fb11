package scheduler

import (
	"fmt"
	"sort"
	"time"
)

// WarningKind classifies a conflict warning.
type WarningKind string

const (
	// KindSameDay flags other assignments due on the candidate's due day.
	KindSameDay WarningKind = "sameDay"
	// KindDueWindow flags a cluster of assignments due near the candidate's due day.
	KindDueWindow WarningKind = "dueWindow"
)

var kindPriority = map[WarningKind]int{
	KindSameDay:   0,
	KindDueWindow: 1,
}

// ConflictWarning is an advisory notice about a candidate's due date. It never
// blocks a save.
type ConflictWarning struct {
	Kind          WarningKind
	Message       string
	AffectedDates []string
}

// DueWindow configures the optional nearby-deadline rule. A zero Days value
// disables it.
type DueWindow struct {
	Days      int
	Threshold int
}

// Enabled reports whether the rule should run.
func (w DueWindow) Enabled() bool {
	return w.Days > 0
}

// Detector evaluates a candidate against existing assignments. The zero value
// runs only the same-day rule.
type Detector struct {
	DueWindow DueWindow
}

// DetectConflicts runs the default detector.
func DetectConflicts(candidate Draft, existing []Assignment, excludeID string) ([]ConflictWarning, error) {
	return Detector{}.Detect(candidate, existing, excludeID)
}

// Detect returns the warnings raised by candidate, ordered by kind. The
// assignment whose ID equals excludeID is ignored; an empty excludeID matches
// nothing. The result is never nil.
func (d Detector) Detect(candidate Draft, existing []Assignment, excludeID string) ([]ConflictWarning, error) {
	due, err := ParseDate(candidate.DueDate)
	if err != nil {
		return nil, fmt.Errorf("dueDate: %w", err)
	}
	day := StartOfDay(due)

	others := make([]Assignment, 0, len(existing))
	for _, a := range existing {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		others = append(others, a)
	}

	warnings := make([]ConflictWarning, 0, 2)
	if w, ok := sameDayRule(day, candidate.DueDate, others); ok {
		warnings = append(warnings, w)
	}
	if d.DueWindow.Enabled() {
		if w, ok := d.DueWindow.evaluate(day, others); ok {
			warnings = append(warnings, w)
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		return kindPriority[warnings[i].Kind] < kindPriority[warnings[j].Kind]
	})
	return warnings, nil
}

func sameDayRule(day time.Time, rawDue string, others []Assignment) (ConflictWarning, bool) {
	count := 0
	for _, a := range others {
		if StartOfDay(a.DueDate).Equal(day) {
			count++
		}
	}
	if count == 0 {
		return ConflictWarning{}, false
	}
	return ConflictWarning{
		Kind:          KindSameDay,
		Message:       fmt.Sprintf("%d other homework assignment(s) due on the same day", count),
		AffectedDates: []string{rawDue},
	}, true
}

func (w DueWindow) evaluate(day time.Time, others []Assignment) (ConflictWarning, bool) {
	threshold := w.Threshold
	if threshold <= 0 {
		threshold = 1
	}
	lower := day.AddDate(0, 0, -w.Days)
	upper := day.AddDate(0, 0, w.Days)

	count := 0
	days := make(map[string]struct{})
	for _, a := range others {
		other := StartOfDay(a.DueDate)
		if other.Equal(day) || other.Before(lower) || other.After(upper) {
			continue
		}
		count++
		days[other.Format(DayLayout)] = struct{}{}
	}
	if count < threshold {
		return ConflictWarning{}, false
	}

	affected := make([]string, 0, len(days))
	for d := range days {
		affected = append(affected, d)
	}
	sort.Strings(affected)

	return ConflictWarning{
		Kind:          KindDueWindow,
		Message:       fmt.Sprintf("%d other homework assignment(s) due within %d day(s)", count, w.Days),
		AffectedDates: affected,
	}, true
}
