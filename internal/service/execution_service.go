package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillforge/codelab-api/internal/codegen"
	"github.com/skillforge/codelab-api/internal/dto"
	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/pkg/docker"
)

// ErrUnsupportedLanguage indicates the requested language cannot be judged.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ExecutionEngine judges code against a problem's test cases. Supports is the
// authoritative language gate: a submission must be rejected up front when the
// engine has no runtime for it, not accepted and failed later by the worker.
type ExecutionEngine interface {
	Supports(language string) bool
	Execute(ctx context.Context, problem models.Problem, language, code string, includeHidden bool) (ExecutionOutcome, error)
}

// ExecutionOutcome aggregates the per-test-case results of one judge run.
type ExecutionOutcome struct {
	Verdict       string
	Output        string
	ErrorOutput   string
	CompileOutput string
	TestCases     []dto.TestCaseResult
	TotalPoints   int
	MaxPoints     int
	PassedCount   int
	TotalCount    int
}

// Passed reports whether every judged test case passed.
func (o ExecutionOutcome) Passed() bool {
	return o.TotalCount > 0 && o.PassedCount == o.TotalCount
}

// ExecutionConfig describes execution configuration knobs.
type ExecutionConfig struct {
	Timeout       time.Duration
	MemoryLimitMB int
	CPUShares     int
	WorkspaceRoot string
}

type languageRuntime struct {
	Image        string
	FileName     string
	Command      []string
	compileError func(stderr string) bool
}

type executionEngine struct {
	executor docker.Executor
	logger   zerolog.Logger
	config   ExecutionConfig
	runtimes map[string]languageRuntime
}

// NewExecutionEngine constructs the sandbox-backed judge engine.
func NewExecutionEngine(executor docker.Executor, logger zerolog.Logger, cfg ExecutionConfig) ExecutionEngine {
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = os.TempDir()
	}

	return &executionEngine{
		executor: executor,
		logger:   logger.With().Str("component", "execution_engine").Logger(),
		config:   cfg,
		runtimes: map[string]languageRuntime{
			codegen.LangPython: {
				Image:    "python:3.11-alpine",
				FileName: "main.py",
				Command:  []string{"python", "main.py"},
				compileError: func(stderr string) bool {
					return strings.Contains(stderr, "SyntaxError") || strings.Contains(stderr, "IndentationError")
				},
			},
			codegen.LangJavaScript: {
				Image:    "node:20-alpine",
				FileName: "main.js",
				Command:  []string{"node", "main.js"},
				compileError: func(stderr string) bool {
					return strings.Contains(stderr, "SyntaxError")
				},
			},
			codegen.LangCpp: {
				Image:    "gcc:13",
				FileName: "main.cpp",
				Command:  []string{"sh", "-c", "g++ -O2 -std=c++17 -o main main.cpp && ./main"},
				compileError: func(stderr string) bool {
					return strings.Contains(stderr, "error:")
				},
			},
		},
	}
}

// Supports reports whether a sandbox runtime exists for the language.
func (e *executionEngine) Supports(language string) bool {
	_, ok := e.runtimes[codegen.Normalize(language)]
	return ok
}

// Execute wraps the user's code with a generated harness per test case, runs
// each in the sandbox, and compares the printed JSON result with the expected
// output. Judging stops at the first compilation failure; later cases would
// fail identically.
func (e *executionEngine) Execute(ctx context.Context, problem models.Problem, language, code string, includeHidden bool) (ExecutionOutcome, error) {
	runtime, ok := e.runtimes[language]
	if !ok {
		return ExecutionOutcome{}, ErrUnsupportedLanguage
	}

	cases := problem.TestCases
	if !includeHidden {
		cases = problem.SampleCases()
	}

	schema := problem.Schema()
	outcome := ExecutionOutcome{TotalCount: len(cases)}
	runtimeErrorSeen := false

	for i, tc := range cases {
		input, err := tc.InputMap()
		if err != nil {
			return ExecutionOutcome{}, fmt.Errorf("decode test case input: %w", err)
		}

		harness, err := codegen.Harness(code, language, schema, input)
		if err != nil {
			if errors.Is(err, codegen.ErrHarnessUnsupported) {
				return ExecutionOutcome{}, ErrUnsupportedLanguage
			}
			return ExecutionOutcome{}, err
		}

		caseResult := dto.TestCaseResult{
			Name:           tc.Name,
			Points:         0,
			ExpectedOutput: tc.ExpectedOutput,
		}
		if caseResult.Name == "" {
			caseResult.Name = fmt.Sprintf("Test Case %d", i+1)
		}
		if !tc.Hidden {
			caseResult.Input = json.RawMessage(tc.Input)
		}

		run, runErr := e.runCase(ctx, runtime, harness)
		caseResult.ExecutionTimeMs = run.Duration.Milliseconds()

		stderr := strings.TrimSpace(run.Stderr)
		userOutput, actual := splitHarnessOutput(run.Stdout)
		caseResult.ActualOutput = actual

		if i == 0 {
			outcome.Output = userOutput
		}

		switch {
		case runErr != nil && run.TimedOut:
			caseResult.Error = fmt.Sprintf("time limit exceeded (%dms)", problem.TimeLimitMs)
			runtimeErrorSeen = true
		case run.ExitCode != 0 || runErr != nil:
			if runtime.compileError != nil && runtime.compileError(stderr) {
				outcome.Verdict = models.VerdictCompileError
				outcome.CompileOutput = stderr
				caseResult.Error = stderr
				outcome.TestCases = append(outcome.TestCases, caseResult)
				return outcome, nil
			}
			caseResult.Error = stderr
			if caseResult.Error == "" && runErr != nil {
				caseResult.Error = runErr.Error()
			}
			runtimeErrorSeen = true
		case outputsMatch(actual, tc.ExpectedOutput):
			caseResult.Passed = true
			caseResult.Points = tc.Points
			outcome.PassedCount++
			outcome.TotalPoints += tc.Points
		default:
			if stderr != "" {
				caseResult.Error = stderr
			}
		}

		outcome.MaxPoints += tc.Points
		outcome.TestCases = append(outcome.TestCases, caseResult)
	}

	switch {
	case outcome.Passed():
		outcome.Verdict = models.VerdictAccepted
	case runtimeErrorSeen:
		outcome.Verdict = models.VerdictRuntimeError
		outcome.ErrorOutput = firstCaseError(outcome.TestCases)
	default:
		outcome.Verdict = models.VerdictWrongAnswer
	}

	return outcome, nil
}

func (e *executionEngine) runCase(ctx context.Context, runtime languageRuntime, harness string) (docker.RunResult, error) {
	workspace, err := os.MkdirTemp(e.config.WorkspaceRoot, "judge-")
	if err != nil {
		return docker.RunResult{}, fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workspace)

	filePath := filepath.Join(workspace, runtime.FileName)
	if err := os.WriteFile(filePath, []byte(harness), 0600); err != nil {
		return docker.RunResult{}, fmt.Errorf("write source: %w", err)
	}

	return e.executor.Run(ctx, docker.RunRequest{
		Image:         runtime.Image,
		Cmd:           runtime.Command,
		Timeout:       e.config.Timeout,
		Workspace:     workspace,
		MemoryLimitMB: int64(e.config.MemoryLimitMB),
		CPUShares:     int64(e.config.CPUShares),
	})
}

// splitHarnessOutput separates the user's debug prints from the harness's
// final JSON result line.
func splitHarnessOutput(stdout string) (string, string) {
	trimmed := strings.TrimRight(stdout, "\n")
	if trimmed == "" {
		return "", ""
	}

	idx := strings.LastIndex(trimmed, "\n")
	if idx < 0 {
		return "", trimmed
	}
	return trimmed[:idx], trimmed[idx+1:]
}

// outputsMatch compares the produced and expected outputs as JSON values
// first, falling back to whitespace-normalized string comparison when either
// side is not valid JSON.
func outputsMatch(actual, expected string) bool {
	var actualValue, expectedValue interface{}
	actualErr := json.Unmarshal([]byte(actual), &actualValue)
	expectedErr := json.Unmarshal([]byte(expected), &expectedValue)
	if actualErr == nil && expectedErr == nil {
		return reflect.DeepEqual(actualValue, expectedValue)
	}

	return normalizeOutput(actual) == normalizeOutput(expected)
}

func normalizeOutput(value string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(value)), " ")
}

func firstCaseError(cases []dto.TestCaseResult) string {
	for _, tc := range cases {
		if tc.Error != "" {
			return tc.Error
		}
	}
	return ""
}
