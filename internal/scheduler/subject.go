package scheduler

import (
	"fmt"
	"strings"
)

// Subject identifies the course area a homework assignment belongs to.
type Subject string

const (
	SubjectWeb        Subject = "Web"
	SubjectJava       Subject = "Java"
	SubjectSpring     Subject = "Spring"
	SubjectDatabase   Subject = "Database"
	SubjectGit        Subject = "Git"
	SubjectUXUI       Subject = "UX/UI"
	SubjectDeployment Subject = "Deployment"
)

// Subjects returns every supported subject in display order.
func Subjects() []Subject {
	return []Subject{
		SubjectWeb,
		SubjectJava,
		SubjectSpring,
		SubjectDatabase,
		SubjectGit,
		SubjectUXUI,
		SubjectDeployment,
	}
}

// ParseSubject converts raw input into a Subject. Matching is exact after
// surrounding whitespace is removed.
func ParseSubject(value string) (Subject, error) {
	switch s := Subject(strings.TrimSpace(value)); s {
	case SubjectWeb, SubjectJava, SubjectSpring, SubjectDatabase, SubjectGit, SubjectUXUI, SubjectDeployment:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSubject, value)
	}
}

// Valid reports whether s is one of the supported subjects.
func (s Subject) Valid() bool {
	switch s {
	case SubjectWeb, SubjectJava, SubjectSpring, SubjectDatabase, SubjectGit, SubjectUXUI, SubjectDeployment:
		return true
	}
	return false
}

func (s Subject) String() string {
	return string(s)
}

// SubjectSet restricts range queries to a subset of subjects. A nil set
// applies no restriction; an empty non-nil set matches nothing.
type SubjectSet map[Subject]struct{}

// NewSubjectSet builds a set from the supplied subjects.
func NewSubjectSet(subjects ...Subject) SubjectSet {
	set := make(SubjectSet, len(subjects))
	for _, s := range subjects {
		set[s] = struct{}{}
	}
	return set
}

// ParseSubjectSet parses a comma separated subject list. Blank input yields a
// nil set.
func ParseSubjectSet(raw string) (SubjectSet, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	set := make(SubjectSet)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		subject, err := ParseSubject(part)
		if err != nil {
			return nil, err
		}
		set[subject] = struct{}{}
	}
	return set, nil
}

// Contains reports whether the set admits s.
func (set SubjectSet) Contains(s Subject) bool {
	if set == nil {
		return true
	}
	_, ok := set[s]
	return ok
}
