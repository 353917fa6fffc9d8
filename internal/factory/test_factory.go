package factory

import (
	"time"

	"github.com/mcoot/wordduel/internal/dependencies/mocks"
	"github.com/mcoot/wordduel/internal/services/auth"
	"github.com/mcoot/wordduel/internal/storage/memory"
	"github.com/mcoot/wordduel/internal/testutil"
)

// TestWords is the dictionary loaded by LoadTestDictionary. Words shorter
// than six letters are included on purpose and get filtered out.
var TestWords = []string{
	// s..a
	"sałata", "strona", "szkoła", "sylaba", "szafka",
	// k..t
	"kompot", "koncert", "kabaret",
	// p..k
	"piernik", "pomnik", "poranek", "potomek",
	// m..a
	"malina", "morela", "marchewka",
	// others
	"drzewo", "jabłko", "gruszka", "ogórek", "ziemniak", "kapusta",
	"pomidor", "cebula", "czosnek", "truskawka", "wiśnia", "śliwka",
	"cytryna", "ananas", "ćwierć", "łabędź", "żaglówka",
	// filtered: too short or not a plain word
	"kot", "sowa", "arbuz", "hello world", "x-ray",
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, Config{
		AuthConfig: auth.DefaultConfig(),
	}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// LoadTestDictionary loads a small Polish dictionary for testing
func (t *TestApp) LoadTestDictionary() {
	t.DictionaryService.LoadWords(TestWords)
}
