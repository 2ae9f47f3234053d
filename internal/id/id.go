package id

import gonanoid "github.com/matoous/go-nanoid/v2"

// DefaultLength matches the width of the pastes.id column. At 12 characters
// over a 64-symbol alphabet the collision probability across the service's
// expected volume is negligible, so callers insert without a pre-check.
const DefaultLength = 12

// Generator produces short, URL-safe, collision-resistant paste identifiers.
type Generator struct {
	length int
}

// New returns a Generator with the provided length. If length <= 0, the
// default is used.
func New(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length}
}

// Generate returns a new identifier drawn from crypto/rand. An error here
// means the platform randomness source is broken, which is fatal for the
// service, not a per-request condition.
func (g *Generator) Generate() (string, error) {
	return gonanoid.New(g.length)
}
