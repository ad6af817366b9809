// Package sigkey defines the canonical identity of a signal.
//
// A signal is one named time series. It belongs either to a loaded dataset
// source (addressed by a dense, reindexable source id) or to the derived
// provider (addressed by the fixed Sentinel id, which is never reindexed).
// Every structure in the model that refers to a signal does so through a
// Key, or through the Key's canonical string form when a flat map is needed.
//
// The canonical string form is produced and parsed by exactly one
// encode/decode pair (Key.Canonical and Parse). Nothing else in the
// repository is allowed to build these strings by concatenation; treating
// the encoding as a value type with a real parser is what keeps the flat
// attribute maps and the structured assignment tree referring to the same
// identity.
package sigkey
