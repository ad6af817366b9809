package sigkey

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Sentinel is the reserved source id for derived (computed) signals.
//
// Dataset sources occupy the dense range [0, registry length); the sentinel
// sits outside that range and is never subject to reindexing, so a derived
// signal's identity survives every dataset removal.
const Sentinel = -1

// Key identifies one signal: a (source id, name) pair.
//
// Key is a comparable value type and is used directly as a map key.
// Two keys are equal iff both fields are equal.
type Key struct {
	Source int
	Name   string
}

// New creates a dataset-signal key. The name is NFC-normalized so that two
// visually identical names cannot produce distinct identities.
func New(source int, name string) Key {
	return Key{Source: source, Name: norm.NFC.String(name)}
}

// Derived creates a key under the sentinel source id.
func Derived(name string) Key {
	return Key{Source: Sentinel, Name: norm.NFC.String(name)}
}

// IsDerived reports whether the key addresses a computed signal.
func (k Key) IsDerived() bool {
	return k.Source == Sentinel
}

// String returns the canonical form. Implements fmt.Stringer for logs.
func (k Key) String() string {
	return k.Canonical()
}

// ValidName checks whether a signal name may be used in a key.
//
// Empty names are rejected. Names beginning with an ASCII digit are rejected
// because the canonical grammar "SRC<id>_<name>" parses a maximal digit run
// as the source id: Encode(1, "2_x") and Encode(12, "x") would otherwise
// collide. See Parse.
func ValidName(name string) error {
	if name == "" {
		return fmt.Errorf("signal name must be non-empty")
	}
	if name[0] >= '0' && name[0] <= '9' {
		return fmt.Errorf("signal name %q must not begin with a digit", name)
	}
	return nil
}
