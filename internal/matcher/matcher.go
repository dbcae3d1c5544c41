// Package matcher associates converted audio files with the condition lists
// of a descriptor tree.
//
// Association is many-to-many: one file can satisfy several lists and is
// appended to each of them. A candidate counts as used when at least one
// list claimed it; everything else is reported as unused.
package matcher

import (
	"strings"

	"soundmod/internal/descriptor"
)

const (
	extensionLength = 4
	effectToken     = "fx"
)

// Candidate is a filename under consideration with its derived used flag.
type Candidate struct {
	Name string
	Used bool
}

// ListRef identifies one condition list inside a tree.
type ListRef struct {
	Event     int
	List      int
	EventName string
	Prefix    string
}

// Association records every list a file was assigned to, in tree order.
type Association struct {
	File  string
	Lists []ListRef
}

// Result is the outcome of a matching pass.
type Result struct {
	Candidates   []Candidate
	Associations []Association

	index map[string]int
}

// MatchName reports whether filename belongs to the list keyed by listPrefix.
//
// The mod prefix and then the list prefix must lead the name. After both are
// removed, the four-byte extension is dropped and any run of leading
// underscores and ASCII digits is skipped; the remainder must be empty or the
// effect token "fx".
func MatchName(modPrefix, listPrefix, filename string) bool {
	rest, ok := strings.CutPrefix(filename, modPrefix)
	if !ok {
		return false
	}
	rest, ok = strings.CutPrefix(rest, listPrefix)
	if !ok {
		return false
	}
	if len(rest) < extensionLength {
		return false
	}
	rest = rest[:len(rest)-extensionLength]
	rest = strings.TrimLeftFunc(rest, func(r rune) bool {
		return r == '_' || (r >= '0' && r <= '9')
	})
	return rest == "" || rest == effectToken
}

// Match assigns names to the lists of tree. Lists are visited in tree order and
// names in input order; every hit appends the original name to the list's
// Files. Files already present in a list from an earlier pass are kept.
func Match(modPrefix string, names []string, tree *descriptor.Tree) *Result {
	result := &Result{
		Candidates: make([]Candidate, 0, len(names)),
		index:      make(map[string]int, len(names)),
	}
	for _, name := range names {
		result.Candidates = append(result.Candidates, Candidate{Name: name})
	}
	if tree == nil {
		return result
	}

	for ei, event := range tree.Events {
		for li, list := range event.Lists {
			ref := ListRef{Event: ei, List: li, EventName: event.Name, Prefix: list.Prefix}
			for ci := range result.Candidates {
				name := result.Candidates[ci].Name
				if !MatchName(modPrefix, list.Prefix, name) {
					continue
				}
				list.Files = append(list.Files, name)
				result.associate(name, ref)
			}
		}
	}

	for ci := range result.Candidates {
		result.Candidates[ci].Used = result.Used(result.Candidates[ci].Name)
	}
	return result
}

func (r *Result) associate(name string, ref ListRef) {
	if i, ok := r.index[name]; ok {
		r.Associations[i].Lists = append(r.Associations[i].Lists, ref)
		return
	}
	r.index[name] = len(r.Associations)
	r.Associations = append(r.Associations, Association{File: name, Lists: []ListRef{ref}})
}

// Used reports whether any list claimed name.
func (r *Result) Used(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[name]
	return ok
}

// ListsFor returns the lists name was assigned to.
func (r *Result) ListsFor(name string) []ListRef {
	if r == nil {
		return nil
	}
	if i, ok := r.index[name]; ok {
		return r.Associations[i].Lists
	}
	return nil
}

// Unused returns candidates no list claimed, in input order and without
// duplicates.
func (r *Result) Unused() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(r.Candidates))
	var unused []string
	for _, c := range r.Candidates {
		if r.Used(c.Name) {
			continue
		}
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		unused = append(unused, c.Name)
	}
	return unused
}
