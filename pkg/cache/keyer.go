package cache

// Keyer generates cache keys.
type Keyer interface {
	// SolveKey identifies the solutions of a puzzle under the given options.
	SolveKey(puzzleHash string, opts SolveKeyOpts) string

	// PuzzleKey identifies a stored puzzle definition.
	PuzzleKey(puzzleHash string) string
}

// SolveKeyOpts holds the search options that change a search's output.
type SolveKeyOpts struct {
	Limit int `json:"limit"`
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey hashes the puzzle hash together with the options.
func (DefaultKeyer) SolveKey(puzzleHash string, opts SolveKeyOpts) string {
	return hashKey("solve", puzzleHash, opts)
}

// PuzzleKey returns "puzzle:<hash>".
func (DefaultKeyer) PuzzleKey(puzzleHash string) string {
	return "puzzle:" + puzzleHash
}
