package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, for
// example when several servers share one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "latticetile:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SolveKey generates a prefixed key for solution caching.
func (k *ScopedKeyer) SolveKey(puzzleHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(puzzleHash, opts)
}

// PuzzleKey generates a prefixed key for puzzle definitions.
func (k *ScopedKeyer) PuzzleKey(puzzleHash string) string {
	return k.prefix + k.inner.PuzzleKey(puzzleHash)
}
