package sigkey

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical grammar prefixes. The flat attribute maps and the session
// journal store keys in this form.
const (
	srcPrefix     = "SRC"
	derivedPrefix = "DERIVED_"
)

// Canonical produces the flat-map form of the key:
//
//	"SRC<id>_<name>"   for dataset signals
//	"DERIVED_<name>"   for derived signals
//
// The name component is NFC-normalized at the boundary, so a key built from
// an unnormalized name still encodes identically to its normalized twin.
func (k Key) Canonical() string {
	name := norm.NFC.String(k.Name)
	if k.Source == Sentinel {
		return derivedPrefix + name
	}
	return srcPrefix + strconv.Itoa(k.Source) + "_" + name
}

// Parse decodes a canonical string back into a Key.
//
// The source id is the maximal run of digits after "SRC"; the first byte
// after that run must be '_', and everything past it is the name. Names
// that begin with a digit cannot round-trip through this grammar and are
// rejected by ValidName before a key is ever built, so Parse(k.Canonical())
// == k for every key the model constructs.
func Parse(s string) (Key, error) {
	if rest, ok := strings.CutPrefix(s, derivedPrefix); ok {
		if rest == "" {
			return Key{}, fmt.Errorf("parse signal key %q: empty derived name", s)
		}
		return Key{Source: Sentinel, Name: rest}, nil
	}

	rest, ok := strings.CutPrefix(s, srcPrefix)
	if !ok {
		return Key{}, fmt.Errorf("parse signal key %q: unknown prefix", s)
	}
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return Key{}, fmt.Errorf("parse signal key %q: missing source id", s)
	}
	if i >= len(rest) || rest[i] != '_' {
		return Key{}, fmt.Errorf("parse signal key %q: missing name separator", s)
	}
	id, err := strconv.Atoi(rest[:i])
	if err != nil {
		return Key{}, fmt.Errorf("parse signal key %q: %w", s, err)
	}
	name := rest[i+1:]
	if name == "" {
		return Key{}, fmt.Errorf("parse signal key %q: empty name", s)
	}
	return Key{Source: id, Name: name}, nil
}
