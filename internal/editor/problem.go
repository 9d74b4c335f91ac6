package editor

import "github.com/skillforge/codelab-api/internal/codegen"

// Difficulty ordinals used by problems.
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
)

// DifficultyText renders a difficulty ordinal for display.
func DifficultyText(difficulty int) string {
	switch difficulty {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// SampleTestCase is a visible example test case shown alongside a problem.
type SampleTestCase struct {
	Name           string
	Input          string
	ExpectedOutput string
}

// Problem is the client-side snapshot of a coding problem. It is immutable
// from the session's perspective; a new selection replaces the whole value.
type Problem struct {
	ID            string
	Title         string
	Difficulty    int
	Tags          []string
	Description   string
	TimeLimitMs   int
	MemoryLimitKB int
	Schema        *codegen.Schema
	SampleCases   []SampleTestCase
	Hints         []string
}

// Language describes a selectable execution language. Exactly one is active
// per session; switching regenerates starter code and discards edits.
type Language struct {
	ID            string
	Name          string
	Version       string
	Enabled       bool
	FileExtension string
	RunCommand    string
}

// DefaultLanguage is the session's initial language selection.
func DefaultLanguage() Language {
	return Language{
		ID:            codegen.LangPython,
		Name:          codegen.LangPython,
		Version:       "3.x",
		Enabled:       true,
		FileExtension: ".py",
		RunCommand:    "python3",
	}
}
