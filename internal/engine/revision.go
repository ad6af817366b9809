package engine

// Revision is a monotonic logical counter stamped on every applied plan.
//
// Collaborators (the journal, the stream watcher, session export) use the
// revision to tell whether the identity world changed under them without
// comparing whole structures. There is no wall clock involved: the model
// runs on one control thread and the revision only moves inside Apply.
type Revision struct {
	n int64
}

// NewRevision creates a revision counter starting at 0.
func NewRevision() *Revision {
	return &Revision{}
}

// NewRevisionAt creates a revision counter resuming from a known value.
// Used when replaying a journal.
func NewRevisionAt(start int64) *Revision {
	return &Revision{n: start}
}

// Next increments and returns the new revision.
func (r *Revision) Next() int64 {
	r.n++
	return r.n
}

// Current returns the revision without incrementing.
func (r *Revision) Current() int64 {
	return r.n
}
