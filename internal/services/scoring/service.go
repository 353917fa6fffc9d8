package scoring

import "strings"

// letterPoints is the value of each letter; anything absent scores zero
var letterPoints = map[rune]int{
	'a': 1, 'b': 3, 'c': 3, 'd': 2, 'e': 1, 'f': 4, 'g': 2, 'h': 4, 'i': 1,
	'j': 8, 'k': 5, 'l': 1, 'm': 3, 'n': 1, 'o': 1, 'p': 3, 'q': 10, 'r': 1,
	's': 1, 't': 1, 'u': 1, 'v': 4, 'w': 4, 'x': 8, 'y': 4, 'z': 10,
	'ą': 5, 'ć': 6, 'ę': 5, 'ł': 3, 'ń': 7, 'ó': 7, 'ś': 5, 'ź': 9, 'ż': 5,
}

// Service scores words by summing per-letter points
type Service struct {
	points map[rune]int
}

// New creates a new ScoringService using the standard point table
func New() *Service {
	return &Service{points: letterPoints}
}

// Score returns the total points for a word, case-insensitively
func (s *Service) Score(word string) int {
	total := 0
	for _, r := range strings.ToLower(word) {
		total += s.points[r]
	}
	return total
}
