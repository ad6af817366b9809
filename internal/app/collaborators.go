package app

import (
	"github.com/plotdeck/plotdeck/internal/model"
)

// Samples is one fetched time series.
type Samples struct {
	Time  []float64
	Value []float64
}

// DataSource is the dataset collaborator. The core never reads file
// formats; it holds identity and lets the renderer pull samples.
type DataSource interface {
	// FetchSamples returns the series for a signal of a loaded source.
	FetchSamples(sourceID int, name string) (Samples, error)
}

// DerivedProvider supplies computed signals under the sentinel source id.
// The renderer cannot distinguish a derived signal from a loaded one
// except by its source id; the provider's internal dependency graph is
// invisible to the core.
type DerivedProvider interface {
	// Has reports whether a derived signal with this name exists.
	Has(name string) bool

	// FetchSamples returns the computed series.
	FetchSamples(name string) (Samples, error)
}

// Renderer receives change notifications and pulls current assignments
// back through the App's read accessors.
type Renderer interface {
	// OnAssignmentsChanged signals that one subplot's assignments moved.
	OnAssignmentsChanged(tab, subplot int)

	// OnFullRebuildRequired signals that identity changed underneath
	// everything and all plots must be rebuilt.
	OnFullRebuildRequired()
}

// StreamController is the fence between the background polling loop and
// identity mutations. Suspend stops ticks for the given sources before a
// removal pass; Remap retargets the surviving watchers to their new ids
// and drops the removed ones.
type StreamController interface {
	Suspend(ids []int)
	Remap(p model.Plan)
	Resume()
}
