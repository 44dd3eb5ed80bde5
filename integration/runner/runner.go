package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sunvale/sevendays/internal/engine"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	// Lang applies to suites that don't set their own language.
	Lang string
}

type errorPayload struct {
	Error string `json:"error"`
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		ErrorHandlingMode: ErrorHandlingContinue,
		Lang:              "en",
		Logger:            func(format string, args ...interface{}) {},
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursive, in case a sequence references another sequence
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite against a fresh player
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	// A unique player per run keeps suites independent of each other
	result.PlayerID = "it-" + uuid.New().String()[:8]

	langCode := suite.Lang
	if langCode == "" {
		langCode = r.Lang
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, result.PlayerID, langCode, step)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep posts one dialogue event and checks the step's expectations
func (r *Runner) runStep(ctx context.Context, playerID, langCode string, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	stepCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	reqBody := map[string]interface{}{
		"player_id": playerID,
		"action":    step.Action,
	}
	if step.NPCID != "" {
		reqBody["npc_id"] = step.NPCID
		reqBody["lang"] = langCode
	}
	if step.Message != "" {
		reqBody["message"] = step.Message
	}
	if step.Choice != "" {
		reqBody["choice"] = step.Choice
	}
	if step.MealType != "" {
		reqBody["meal_type"] = step.MealType
	}
	if step.Answer != "" {
		reqBody["answer"] = step.Answer
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		result.Error = fmt.Errorf("failed to marshal request: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	req, err := http.NewRequestWithContext(stepCtx, "POST", r.BaseURL+"/v1/dialogue", bytes.NewBuffer(jsonData))
	if err != nil {
		result.Error = fmt.Errorf("failed to create request: %w", err)
		result.Duration = time.Since(start)
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		result.Error = fmt.Errorf("request failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Errorf("failed to read response: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	expectedStatus := http.StatusOK
	if step.Expectations.Status != nil {
		expectedStatus = *step.Expectations.Status
	}
	if resp.StatusCode != expectedStatus {
		result.Error = fmt.Errorf("expected status %d, got %d: %s", expectedStatus, resp.StatusCode, string(body))
		result.Duration = time.Since(start)
		return result
	}

	if expectedStatus != http.StatusOK {
		var errResp errorPayload
		if err := json.Unmarshal(body, &errResp); err != nil {
			result.Error = fmt.Errorf("failed to parse error response: %w", err)
		} else if step.Expectations.ErrorContains != nil && !strings.Contains(errResp.Error, *step.Expectations.ErrorContains) {
			result.Error = fmt.Errorf("error %q does not contain %q", errResp.Error, *step.Expectations.ErrorContains)
		}
		result.Success = result.Error == nil
		result.Duration = time.Since(start)
		return result
	}

	var reply engine.Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		result.Error = fmt.Errorf("failed to parse reply: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Error = checkExpectations(step.Expectations, &reply)
	result.Success = result.Error == nil
	result.Duration = time.Since(start)
	return result
}

// checkExpectations collects every mismatch so a failing step reports
// all of them at once
func checkExpectations(e Expectations, reply *engine.Reply) error {
	var failures []string

	if e.Phase != nil && string(reply.Phase) != *e.Phase {
		failures = append(failures, fmt.Sprintf("phase: expected %q, got %q", *e.Phase, reply.Phase))
	}
	if e.LinesMin != nil && len(reply.Lines) < *e.LinesMin {
		failures = append(failures, fmt.Sprintf("lines: expected at least %d, got %d", *e.LinesMin, len(reply.Lines)))
	}
	if e.QuestionID != nil {
		if reply.Question == nil {
			failures = append(failures, fmt.Sprintf("question: expected %q, got none", *e.QuestionID))
		} else if string(reply.Question.ID) != *e.QuestionID {
			failures = append(failures, fmt.Sprintf("question: expected %q, got %q", *e.QuestionID, reply.Question.ID))
		}
	}
	if e.ChoicesOffered != nil && (len(reply.Choices) > 0) != *e.ChoicesOffered {
		failures = append(failures, fmt.Sprintf("choices offered: expected %v, got %d choices", *e.ChoicesOffered, len(reply.Choices)))
	}
	if e.MealsOffered != nil {
		got := make([]string, 0, len(reply.Meals))
		for _, t := range reply.Meals {
			got = append(got, string(t))
		}
		if !sameStringSet(e.MealsOffered, got) {
			failures = append(failures, fmt.Sprintf("meals offered: expected %v, got %v", e.MealsOffered, got))
		}
	}
	if e.ClueTier != nil {
		if reply.Clue == nil {
			failures = append(failures, fmt.Sprintf("clue: expected tier %q, got none", *e.ClueTier))
		} else if string(reply.Clue.Tier) != *e.ClueTier {
			failures = append(failures, fmt.Sprintf("clue: expected tier %q, got %q", *e.ClueTier, reply.Clue.Tier))
		}
	}
	if e.DayAdvanced != nil {
		advanced := reply.Outcome != nil && reply.Outcome.DayAdvanced
		if advanced != *e.DayAdvanced {
			failures = append(failures, fmt.Sprintf("day advanced: expected %v, got %v", *e.DayAdvanced, advanced))
		}
	}
	if e.Done != nil && reply.Done != *e.Done {
		failures = append(failures, fmt.Sprintf("done: expected %v, got %v", *e.Done, reply.Done))
	}

	if len(failures) > 0 {
		return fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return nil
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, s := range a {
		set[s]++
	}
	for _, s := range b {
		set[s]--
		if set[s] < 0 {
			return false
		}
	}
	return true
}
