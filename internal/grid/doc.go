// Package grid is the tab/subplot assignment tree: which signal is plotted
// in which cell.
//
// Each subplot is a tagged union. In regular mode it holds an ordered,
// duplicate-free list of signal keys drawn against time; in tuple mode it
// holds an ordered list of X-Y pairs. The mode tag is explicit and only
// SetMode mutates it; whether a cell is in tuple mode is never inferred
// from the shape of its data. A subplot also carries an optional X-axis
// override, orthogonal to the mode tag: it is stored in either mode but
// only consulted by the renderer in regular mode, since each tuple pair
// supplies its own X.
//
// Every mutating operation either completes or leaves the store byte-for-
// byte unchanged. Errors are returned, never thrown mid-mutation.
package grid
