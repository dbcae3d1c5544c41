package descriptor

import "strings"

// State is a name/value pair that gates a condition list.
type State struct {
	Name  string
	Value string
}

// ConditionList is a variant group of an event keyed by a filename prefix.
// Files is populated only by the matcher.
type ConditionList struct {
	Prefix string
	States []State
	Files  []string
}

// HasFiles reports whether the matcher assigned any file to the list.
func (l *ConditionList) HasFiles() bool {
	return l != nil && len(l.Files) > 0
}

// Event is a named audio trigger with its condition lists.
type Event struct {
	Name string
	// ExternalID is empty and HasExternalID false when no e-line followed
	// the event declaration.
	ExternalID    string
	HasExternalID bool
	Lists         []*ConditionList
}

// Empty reports whether none of the event's lists carries files.
func (e *Event) Empty() bool {
	for _, list := range e.Lists {
		if list.HasFiles() {
			return false
		}
	}
	return true
}

// Tree is the ordered set of events declared by a descriptor.
type Tree struct {
	Events []*Event
}

// Relevant reports whether any condition list prefix occurs anywhere in name.
// It is a plain substring test, used to decide whether a source file belongs
// to the mod at all; assignment to a specific list is the matcher's job.
func (t *Tree) Relevant(name string) bool {
	if t == nil {
		return false
	}
	for _, event := range t.Events {
		for _, list := range event.Lists {
			if strings.Contains(name, list.Prefix) {
				return true
			}
		}
	}
	return false
}

// Reset clears every matched file so the tree can be matched again.
func (t *Tree) Reset() {
	if t == nil {
		return
	}
	for _, event := range t.Events {
		for _, list := range event.Lists {
			list.Files = nil
		}
	}
}

// Stats summarizes the shape of a tree and its match state.
type Stats struct {
	Events        int
	Lists         int
	States        int
	Files         int
	MatchedEvents int
	MatchedLists  int
}

// Stats counts events, lists, states and matched files.
func (t *Tree) Stats() Stats {
	var s Stats
	if t == nil {
		return s
	}
	s.Events = len(t.Events)
	for _, event := range t.Events {
		if !event.Empty() {
			s.MatchedEvents++
		}
		for _, list := range event.Lists {
			s.Lists++
			s.States += len(list.States)
			s.Files += len(list.Files)
			if list.HasFiles() {
				s.MatchedLists++
			}
		}
	}
	return s
}
