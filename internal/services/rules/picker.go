package rules

import (
	"log/slog"

	"github.com/mcoot/wordduel/internal/dependencies/random"
	"github.com/mcoot/wordduel/internal/model"
)

// DefaultMaxAttempts bounds the random search for a playable letter pair
const DefaultMaxAttempts = 1000

// LastResortPair is used when the dictionary has no usable pair at all
var LastResortPair = model.LetterPair{Start: 'a', End: 'a'}

// Picker chooses start/end letters that at least one dictionary word satisfies
type Picker struct {
	dict        Dictionary
	random      random.Random
	maxAttempts int
	logger      *slog.Logger
}

// NewPicker creates a Picker; maxAttempts <= 0 uses DefaultMaxAttempts
func NewPicker(dict Dictionary, rnd random.Random, maxAttempts int, logger *slog.Logger) *Picker {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Picker{
		dict:        dict,
		random:      rnd,
		maxAttempts: maxAttempts,
		logger:      logger.With(slog.String("component", "letter_picker")),
	}
}

// Pick draws random letter pairs until one has a matching word. After
// maxAttempts misses it falls back to the dictionary's first plain pair,
// then to LastResortPair.
func (p *Picker) Pick() model.LetterPair {
	for i := 0; i < p.maxAttempts; i++ {
		start := random.Letter(p.random)
		end := random.Letter(p.random)
		if p.dict.HasWordWith(start, end) {
			return model.LetterPair{Start: start, End: end}
		}
	}

	pair, ok := p.dict.FallbackPair()
	if !ok {
		pair = LastResortPair
	}
	p.logger.Warn("letter search exhausted, using fallback pair",
		slog.Int("attempts", p.maxAttempts),
		slog.String("pair", pair.String()),
	)
	return pair
}
