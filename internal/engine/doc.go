// Package engine implements the integrity pass: the one algorithm that
// keeps every signal-referencing structure consistent when sources are
// removed or reordered.
//
// The pass takes a single frozen model.Plan and visits the assignment
// tree, the attribute maps, the link registry and finally the source
// registry itself, all against that one plan. Computing remaps lazily
// per-structure is exactly the bug class this package exists to prevent:
// a signal surviving in one map while vanishing from another. After the
// rewrite the engine re-walks the reachable keys and aborts if anything
// stale is still visible; a dangling reference after a pass is a broken
// traversal, not a user error.
//
// The model is single-threaded and event-driven. The engine's only
// scheduling concern is reentrancy: the rebuild notification fired at the
// end of a pass must not recurse into another pass from inside a rebuild
// handler, so notifications flow through a coalescing notifier that folds
// nested requests into one trailing rebuild.
package engine
