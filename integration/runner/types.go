package runner

import (
	"time"
)

// TestSuite defines a scripted playthrough against a running API.
// Can either be a regular test with Steps, or a suite that references
// other Cases.
type TestSuite struct {
	Name  string     `json:"name"`
	Lang  string     `json:"lang,omitempty"`
	Steps []TestStep `json:"steps,omitempty"`
	Cases []string   `json:"cases,omitempty"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single dialogue event and its expected outcomes.
// The action field mirrors the API: open, message, choice, select_meal,
// answer, abandon.
type TestStep struct {
	Name     string `json:"name,omitempty"`
	Action   string `json:"action"`
	NPCID    string `json:"npc_id,omitempty"`
	Message  string `json:"message,omitempty"`
	Choice   string `json:"choice,omitempty"`
	MealType string `json:"meal_type,omitempty"`
	Answer   string `json:"answer,omitempty"`

	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes.
// Unset fields are not checked.
type Expectations struct {
	// Status is the expected HTTP status; defaults to 200.
	Status *int `json:"status,omitempty"`
	// ErrorContains matches against the API error message when a
	// non-200 status is expected.
	ErrorContains *string `json:"error_contains,omitempty"`

	// Reply properties
	Phase          *string  `json:"phase,omitempty"`
	LinesMin       *int     `json:"lines_min,omitempty"`
	QuestionID     *string  `json:"question_id,omitempty"`
	ChoicesOffered *bool    `json:"choices_offered,omitempty"`
	MealsOffered   []string `json:"meals_offered,omitempty"`
	ClueTier       *string  `json:"clue_tier,omitempty"`
	DayAdvanced    *bool    `json:"day_advanced,omitempty"`
	Done           *bool    `json:"done,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	PlayerID string // unique player used for this test run
}
