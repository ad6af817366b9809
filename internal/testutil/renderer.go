// Package testutil provides deterministic collaborator doubles shared by
// the package tests.
package testutil

import "github.com/plotdeck/plotdeck/internal/model"

// RecordingRenderer captures renderer notifications so tests can assert
// on exactly what the model announced, and in what quantity.
type RecordingRenderer struct {
	// SubplotChanges holds one [tab, subplot] entry per
	// OnAssignmentsChanged call, in order.
	SubplotChanges [][2]int

	// FullRebuilds counts OnFullRebuildRequired calls.
	FullRebuilds int
}

// NewRecordingRenderer creates an empty recorder.
func NewRecordingRenderer() *RecordingRenderer {
	return &RecordingRenderer{}
}

// OnAssignmentsChanged records the notification.
func (r *RecordingRenderer) OnAssignmentsChanged(tab, subplot int) {
	r.SubplotChanges = append(r.SubplotChanges, [2]int{tab, subplot})
}

// OnFullRebuildRequired records the notification.
func (r *RecordingRenderer) OnFullRebuildRequired() {
	r.FullRebuilds++
}

// Reset clears everything recorded so far.
func (r *RecordingRenderer) Reset() {
	r.SubplotChanges = nil
	r.FullRebuilds = 0
}

// FakeStreamController records the removal fencing calls the application
// root makes around an integrity pass.
type FakeStreamController struct {
	Suspended [][]int
	Remaps    int
	Resumes   int
}

// Suspend records the suspended source ids.
func (f *FakeStreamController) Suspend(ids []int) {
	f.Suspended = append(f.Suspended, ids)
}

// Remap records a watcher retarget.
func (f *FakeStreamController) Remap(model.Plan) {
	f.Remaps++
}

// Resume records a resume.
func (f *FakeStreamController) Resume() {
	f.Resumes++
}
