package annotation

import "github.com/google/uuid"

// List is the ordered set of annotations on a canvas. Order is creation order
// and doubles as paint order.
type List struct {
	items []Annotation
}

// Len returns the number of annotations.
func (l *List) Len() int { return len(l.items) }

// Items returns the annotations in paint order. The slice aliases the list and
// must not be retained across mutations.
func (l *List) Items() []Annotation { return l.items }

// Snapshot returns a copy of the annotations safe to hand to another goroutine.
func (l *List) Snapshot() []Annotation {
	out := make([]Annotation, len(l.items))
	copy(out, l.items)
	return out
}

// Append adds a to the end of the list and makes it the active annotation.
func (l *List) Append(a Annotation) {
	for i := range l.items {
		l.items[i].Active = false
	}
	a.Active = true
	l.items = append(l.items, a)
}

// ActiveIndex returns the index of the annotation being edited: the one
// flagged active, or the most recently created one. It returns -1 for an
// empty list.
func (l *List) ActiveIndex() int {
	return ActiveIndex(l.items)
}

// Active returns a pointer to the annotation being edited, or nil.
func (l *List) Active() *Annotation {
	i := l.ActiveIndex()
	if i < 0 {
		return nil
	}
	return &l.items[i]
}

// Select marks the annotation with id active and clears the flag elsewhere.
// It reports whether id was found.
func (l *List) Select(id uuid.UUID) bool {
	found := -1
	for i := range l.items {
		if l.items[i].ID == id {
			found = i
		}
	}
	if found < 0 {
		return false
	}
	for i := range l.items {
		l.items[i].Active = i == found
	}
	return true
}

// Find returns the index of the annotation with id, or -1.
func (l *List) Find(id uuid.UUID) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveIndex applies the active-selection rule to a plain slice.
func ActiveIndex(items []Annotation) int {
	for i := range items {
		if items[i].Active {
			return i
		}
	}
	return len(items) - 1
}

// Passive returns the annotations drawn without edit decorations, i.e. all but
// the active one, in paint order.
func Passive(items []Annotation) []Annotation {
	ai := ActiveIndex(items)
	out := make([]Annotation, 0, len(items))
	for i := range items {
		if i != ai {
			out = append(out, items[i])
		}
	}
	return out
}
