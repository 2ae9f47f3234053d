package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Length(t *testing.T) {
	g := New(0)
	got, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, got, DefaultLength)

	g = New(21)
	got, err = g.Generate()
	require.NoError(t, err)
	assert.Len(t, got, 21)
}

func TestGenerator_URLSafeAlphabet(t *testing.T) {
	g := New(DefaultLength)
	for i := 0; i < 50; i++ {
		got, err := g.Generate()
		require.NoError(t, err)
		for _, r := range got {
			ok := r == '-' || r == '_' ||
				(r >= '0' && r <= '9') ||
				(r >= 'A' && r <= 'Z') ||
				(r >= 'a' && r <= 'z')
			assert.Truef(t, ok, "unexpected character %q in id %q", r, got)
		}
	}
}

func TestGenerator_NoImmediateCollisions(t *testing.T) {
	g := New(DefaultLength)
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		got, err := g.Generate()
		require.NoError(t, err)
		_, dup := seen[got]
		assert.False(t, dup, "duplicate id %q", got)
		seen[got] = struct{}{}
	}
}
