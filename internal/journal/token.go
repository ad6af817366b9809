package journal

import "github.com/google/uuid"

// TokenGenerator produces run tokens: one token per application session,
// stamped on every record that session writes so interleaved runs in a
// shared journal can be told apart.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens. UUIDv7 embeds
// a timestamp in the most significant bits, so sorting tokens sorts runs
// by start time.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens for deterministic tests.
type FixedGenerator struct {
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order and
// repeats the last one when exhausted.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate implements TokenGenerator.
func (g *FixedGenerator) Generate() string {
	if len(g.tokens) == 0 {
		return "run-fixed"
	}
	t := g.tokens[g.idx]
	if g.idx < len(g.tokens)-1 {
		g.idx++
	}
	return t
}
