package addr

// List is an ordered collection of unique specs. Insertion order is
// preserved and the first occurrence of a spec wins; order only affects
// how rules are laid out in the rendered configuration.
type List []Spec

// Contains reports whether s is already in the list.
func (l List) Contains(s Spec) bool {
	return l.Index(s) >= 0
}

// Index returns the position of s in the list, or -1 when absent.
func (l List) Index(s Spec) int {
	for i, entry := range l {
		if entry == s {
			return i
		}
	}
	return -1
}

// Add returns the list with s appended, or the list unchanged when s is
// already present.
func (l List) Add(s Spec) List {
	if l.Contains(s) {
		return l
	}
	return append(l, s)
}

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Strings returns the entries as plain strings, in list order.
func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, entry := range l {
		out[i] = string(entry)
	}
	return out
}
