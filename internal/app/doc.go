// Package app is the application root: the single owner of the source
// registry, the assignment grid, the attribute store, the link registry
// and the integrity engine.
//
// UI collaborators call the App's public operations. Additive operations
// (load a dataset, assign a signal, set a scale) hit the stores directly;
// removal of a source always routes through the integrity engine, which
// rewrites every dependent structure against one frozen plan before the
// renderer is told to rebuild. When a journal is attached, every mutation
// is appended to it, and ApplyOp replays a journal record back through
// the same public operations.
//
// Everything here runs on the one control thread. The only concession to
// the background world is the stream controller fence: polling ticks for
// sources being removed are suspended before the engine mutates identity.
package app
