package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/pkg/docker"
)

type stubExecutor struct {
	results  []docker.RunResult
	errs     []error
	requests []docker.RunRequest
}

func (e *stubExecutor) Run(ctx context.Context, req docker.RunRequest) (docker.RunResult, error) {
	i := len(e.requests)
	e.requests = append(e.requests, req)

	var result docker.RunResult
	if i < len(e.results) {
		result = e.results[i]
	}
	var err error
	if i < len(e.errs) {
		err = e.errs[i]
	}
	return result, err
}

func newEngine(executor docker.Executor) ExecutionEngine {
	return NewExecutionEngine(executor, zerolog.Nop(), ExecutionConfig{WorkspaceRoot: ""})
}

func TestExecuteAcceptedAggregatesPoints(t *testing.T) {
	executor := &stubExecutor{results: []docker.RunResult{
		{Stdout: "debug line\n[0,1]\n"},
		{Stdout: "[0,1]\n"},
	}}
	engine := newEngine(executor)

	outcome, err := engine.Execute(context.Background(), twoSumFixture(), "python", "code", true)
	require.NoError(t, err)
	require.Equal(t, models.VerdictAccepted, outcome.Verdict)
	require.Equal(t, 2, outcome.PassedCount)
	require.Equal(t, 10, outcome.TotalPoints)
	require.Equal(t, 10, outcome.MaxPoints)
	require.Equal(t, "debug line", outcome.Output)
	require.Len(t, executor.requests, 2)
	require.Equal(t, "python:3.11-alpine", executor.requests[0].Image)
}

func TestExecuteSamplesOnlySkipsHiddenCases(t *testing.T) {
	executor := &stubExecutor{results: []docker.RunResult{{Stdout: "[0,1]\n"}}}
	engine := newEngine(executor)

	outcome, err := engine.Execute(context.Background(), twoSumFixture(), "python", "code", false)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.TotalCount)
	require.Len(t, executor.requests, 1)
}

func TestExecuteWrongAnswer(t *testing.T) {
	executor := &stubExecutor{results: []docker.RunResult{
		{Stdout: "[1,0]\n"},
		{Stdout: "[0,1]\n"},
	}}
	engine := newEngine(executor)

	outcome, err := engine.Execute(context.Background(), twoSumFixture(), "python", "code", true)
	require.NoError(t, err)
	require.Equal(t, models.VerdictWrongAnswer, outcome.Verdict)
	require.Equal(t, 1, outcome.PassedCount)
	require.False(t, outcome.TestCases[0].Passed)
	require.Equal(t, "[1,0]", outcome.TestCases[0].ActualOutput)
}

func TestExecuteOutputComparisonIgnoresJSONFormatting(t *testing.T) {
	problem := twoSumFixture()
	problem.TestCases = problem.TestCases[:1]
	problem.TestCases[0].ExpectedOutput = "[0, 1]"

	executor := &stubExecutor{results: []docker.RunResult{{Stdout: "[0,1]\n"}}}
	engine := newEngine(executor)

	outcome, err := engine.Execute(context.Background(), problem, "python", "code", true)
	require.NoError(t, err)
	require.Equal(t, models.VerdictAccepted, outcome.Verdict)
}

func TestExecuteCompileErrorStopsJudging(t *testing.T) {
	executor := &stubExecutor{results: []docker.RunResult{
		{ExitCode: 1, Stderr: "main.cpp:3:1: error: expected ';'"},
	}}
	engine := newEngine(executor)

	outcome, err := engine.Execute(context.Background(), twoSumFixture(), "cpp", "code", true)
	require.NoError(t, err)
	require.Equal(t, models.VerdictCompileError, outcome.Verdict)
	require.Contains(t, outcome.CompileOutput, "error: expected ';'")
	// Remaining test cases are skipped once compilation fails.
	require.Len(t, executor.requests, 1)
	require.Len(t, outcome.TestCases, 1)
}

func TestExecuteRuntimeError(t *testing.T) {
	executor := &stubExecutor{results: []docker.RunResult{
		{ExitCode: 1, Stderr: "Traceback (most recent call last):\nIndexError: list index out of range"},
		{Stdout: "[0,1]\n"},
	}}
	engine := newEngine(executor)

	outcome, err := engine.Execute(context.Background(), twoSumFixture(), "python", "code", true)
	require.NoError(t, err)
	require.Equal(t, models.VerdictRuntimeError, outcome.Verdict)
	require.Contains(t, outcome.ErrorOutput, "IndexError")
}

func TestExecuteUnsupportedLanguage(t *testing.T) {
	engine := newEngine(&stubExecutor{})

	_, err := engine.Execute(context.Background(), twoSumFixture(), "go", "code", true)
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestSupportsMatchesRuntimeSet(t *testing.T) {
	engine := newEngine(&stubExecutor{})

	require.True(t, engine.Supports("python"))
	require.True(t, engine.Supports("js"))
	require.True(t, engine.Supports("c++"))
	require.False(t, engine.Supports("java"))
	require.False(t, engine.Supports("go"))
}
