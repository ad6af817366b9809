// Package model holds the identity side of the signal-reference core: the
// ordered registry of loaded dataset sources and the named link groups that
// tie sources together.
//
// Source ids are dense: at any moment the live sources occupy [0, Len).
// Removing sources renumbers the survivors, and that renumbering is the
// single most dangerous operation in the system: every assignment,
// attribute entry and link group carries source ids by value. The registry
// therefore never mutates itself on removal. It computes a Plan (a frozen
// old-to-new remap plus the removed set) and hands it to the integrity
// engine, which rewrites every dependent structure against that one plan
// before the registry commits the new ordering.
package model
