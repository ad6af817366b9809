package engine

// Notifier receives the end-of-pass rebuild signal. The renderer and the
// signal tree register here; the engine guarantees exactly one call per
// applied plan no matter how many structures the pass rewrote.
type Notifier interface {
	OnFullRebuildRequired()
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func()

// OnFullRebuildRequired implements Notifier.
func (f NotifierFunc) OnFullRebuildRequired() { f() }

// CoalescingNotifier suppresses reentrant rebuild requests.
//
// A rebuild handler can itself trigger mutations that request another
// rebuild. Running that request inline would recurse; dropping it would
// lose the repaint. The coalescer marks the request pending and replays
// it once, after the outer rebuild returns. The model is single-threaded,
// so there is no locking here.
type CoalescingNotifier struct {
	target     Notifier
	rebuilding bool
	pending    bool
}

// NewCoalescingNotifier wraps target with reentrancy suppression.
func NewCoalescingNotifier(target Notifier) *CoalescingNotifier {
	return &CoalescingNotifier{target: target}
}

// OnFullRebuildRequired implements Notifier.
func (c *CoalescingNotifier) OnFullRebuildRequired() {
	if c.target == nil {
		return
	}
	if c.rebuilding {
		c.pending = true
		return
	}
	c.rebuilding = true
	c.target.OnFullRebuildRequired()
	for c.pending {
		c.pending = false
		c.target.OnFullRebuildRequired()
	}
	c.rebuilding = false
}
