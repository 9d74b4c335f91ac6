package editor

import (
	"fmt"
	"strings"

	"github.com/skillforge/codelab-api/internal/judge"
)

// TestCaseState tracks one sample test case's UI state.
type TestCaseState string

// Test case states shown in the test-case panel.
const (
	TestNotRun  TestCaseState = "not_run"
	TestRunning TestCaseState = "running"
	TestPassed  TestCaseState = "passed"
	TestFailed  TestCaseState = "failed"
)

// Panel views of the editor session.
const (
	ViewOutput    = "output"
	ViewTestCases = "testcases"
	ViewReview    = "ai-review"
)

// Messages appended to the reconciled output.
const (
	msgAllPassed   = "All tests passed! Submission accepted."
	msgSomeFailed  = "Some tests failed."
	msgNoOutput    = "(no output)"
	compilePrefix  = "Compilation Error:"
	runFailedText  = "Error running code"
	submitFailText = "Error submitting code"
)

// reconcileResult normalizes a judge execution result into the output string,
// per-test-case states, and the raw test case list, regardless of whether the
// result arrived synchronously or via polling.
func reconcileResult(result *judge.ExecutionResult) (string, []TestCaseState, []judge.TestCaseResult) {
	if result == nil {
		return msgNoOutput, nil, nil
	}

	var sections []string

	if result.HasCompileError() {
		sections = append(sections, compilePrefix+"\n"+result.CompileMessage())
	} else {
		output := result.CombinedOutput()
		if output != "" {
			sections = append(sections, output)
		}
		if result.Error != "" {
			sections = append(sections, result.Error)
		}
		if len(sections) == 0 && len(result.TestCases) == 0 {
			sections = append(sections, msgNoOutput)
		}
	}

	states := make([]TestCaseState, 0, len(result.TestCases))
	passed := 0
	for _, tc := range result.TestCases {
		if tc.Passed {
			passed++
			states = append(states, TestPassed)
			continue
		}
		states = append(states, TestFailed)
	}

	if len(result.TestCases) > 0 {
		sections = append(sections, fmt.Sprintf("Test Cases: %d/%d passed", passed, len(result.TestCases)))
		if result.MaxPoints > 0 {
			sections = append(sections, fmt.Sprintf("Score: %d/%d points", result.TotalPoints, result.MaxPoints))
		}
		if passed == len(result.TestCases) {
			sections = append(sections, msgAllPassed)
		} else {
			sections = append(sections, msgSomeFailed)
		}
	}

	return strings.Join(sections, "\n"), states, result.TestCases
}
