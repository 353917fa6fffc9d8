package dictionary

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/mcoot/wordduel/internal/model"
	"github.com/mcoot/wordduel/internal/storage"
)

// wordPattern is the shape of a playable word: lowercase Polish letters only
var wordPattern = regexp.MustCompile(`^[a-ząćęłńóśźż]+$`)

// Config holds dictionary loading rules
type Config struct {
	// MinLength is the shortest word kept when loading, in letters
	MinLength int
}

// DefaultConfig returns the default loading rules
func DefaultConfig() Config {
	return Config{MinLength: 6}
}

// Service provides word validation and start/end letter lookups
type Service struct {
	storage storage.Storage
	cfg     Config
	logger  *slog.Logger

	mu     sync.RWMutex
	words  map[string]struct{}
	pairs  map[model.LetterPair]int
	loaded bool
}

// New creates a new DictionaryService
func New(storage storage.Storage, cfg Config, logger *slog.Logger) *Service {
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultConfig().MinLength
	}
	return &Service{
		storage: storage,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "dictionary")),
		words:   make(map[string]struct{}),
		pairs:   make(map[model.LetterPair]int),
	}
}

// LoadFromStorage loads dictionary words from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	s.loadWords(words)
	return nil
}

// LoadFromFile loads dictionary words from a file (one word per line)
// and saves the accepted words to storage for future use
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	words := s.filter(lines)
	if err := s.storage.SaveDictionaryWords(ctx, words); err != nil {
		return err
	}

	s.loadWords(words)
	s.logger.Info("dictionary loaded",
		slog.String("path", path),
		slog.Int("lines", len(lines)),
		slog.Int("words", len(words)),
	)
	return nil
}

// LoadWords directly loads a slice of words, applying the same filter as files
func (s *Service) LoadWords(words []string) {
	s.loadWords(s.filter(words))
}

// filter normalizes lines and keeps only playable words of sufficient length
func (s *Service) filter(lines []string) []string {
	words := lo.Map(lines, func(line string, _ int) string {
		return strings.ToLower(strings.TrimSpace(line))
	})
	return lo.Uniq(lo.Filter(words, func(w string, _ int) bool {
		return utf8.RuneCountInString(w) >= s.cfg.MinLength && wordPattern.MatchString(w)
	}))
}

func (s *Service) loadWords(words []string) {
	set := make(map[string]struct{}, len(words))
	pairs := make(map[model.LetterPair]int)
	for _, w := range words {
		if _, dup := set[w]; dup {
			continue
		}
		set[w] = struct{}{}
		pairs[pairOf(w)]++
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = set
	s.pairs = pairs
	s.loaded = true
}

// IsValidWord checks if a word exists in the dictionary
func (s *Service) IsValidWord(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}
	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// HasWordWith reports whether any word starts with start and ends with end
func (s *Service) HasWordWith(start, end rune) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pairs[model.LetterPair{Start: start, End: end}] > 0
}

// WordsWith counts the words starting with start and ending with end
func (s *Service) WordsWith(start, end rune) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pairs[model.LetterPair{Start: start, End: end}]
}

// FallbackPair returns the start/end pair of the alphabetically first word
// whose first and last letters are both plain a..z, or false if none exists
func (s *Service) FallbackPair() (model.LetterPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best string
	for w := range s.words {
		p := pairOf(w)
		if !isASCIILetter(p.Start) || !isASCIILetter(p.End) {
			continue
		}
		if best == "" || w < best {
			best = w
		}
	}
	if best == "" {
		return model.LetterPair{}, false
	}
	return pairOf(best), true
}

// IsLoaded returns whether the dictionary has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of words in the dictionary
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

func pairOf(word string) model.LetterPair {
	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)
	return model.LetterPair{Start: first, End: last}
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// ServiceInterface is the dictionary surface other services depend on
type ServiceInterface interface {
	IsValidWord(word string) bool
	HasWordWith(start, end rune) bool
	WordsWith(start, end rune) int
	FallbackPair() (model.LetterPair, bool)
	IsLoaded() bool
	WordCount() int
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadWords(words []string)
}

var _ ServiceInterface = (*Service)(nil)
