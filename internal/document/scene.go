package document

// Scene is the ordered object sequence of one note. Later entries draw on top.
// Every method returns a new sequence and never writes into the receiver's
// backing array, so a Scene held by the history stays unchanged.
type Scene []Object

// Append returns the scene with obj added on top.
func (s Scene) Append(objs ...Object) Scene {
	next := make(Scene, len(s), len(s)+len(objs))
	copy(next, s)
	return append(next, objs...)
}

// Replace swaps the object with obj's id for obj, keeping its position.
// An unknown id leaves the scene as is.
func (s Scene) Replace(obj Object) Scene {
	i := s.Index(obj.ObjectID())
	if i < 0 {
		return s
	}
	next := make(Scene, len(s))
	copy(next, s)
	next[i] = obj
	return next
}

// Remove drops the object with the given id. An unknown id is a no-op.
func (s Scene) Remove(id string) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	next := make(Scene, 0, len(s)-1)
	next = append(next, s[:i]...)
	return append(next, s[i+1:]...)
}

// Filter keeps the objects for which keep returns true.
func (s Scene) Filter(keep func(Object) bool) Scene {
	next := make(Scene, 0, len(s))
	for _, o := range s {
		if keep(o) {
			next = append(next, o)
		}
	}
	return next
}

// Map applies fn to every object.
func (s Scene) Map(fn func(Object) Object) Scene {
	next := make(Scene, len(s))
	for i, o := range s {
		next[i] = fn(o)
	}
	return next
}

// Find returns the object with the given id.
func (s Scene) Find(id string) (Object, bool) {
	if i := s.Index(id); i >= 0 {
		return s[i], true
	}
	return nil, false
}

// Index returns the position of id, or -1.
func (s Scene) Index(id string) int {
	for i, o := range s {
		if o.ObjectID() == id {
			return i
		}
	}
	return -1
}

// IDs lists the object ids in render order.
func (s Scene) IDs() []string {
	ids := make([]string, len(s))
	for i, o := range s {
		ids[i] = o.ObjectID()
	}
	return ids
}

// DuplicateIDs returns ids that occur more than once.
func (s Scene) DuplicateIDs() []string {
	seen := make(map[string]bool, len(s))
	var dups []string
	for _, o := range s {
		id := o.ObjectID()
		if seen[id] {
			dups = append(dups, id)
		}
		seen[id] = true
	}
	return dups
}
