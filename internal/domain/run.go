package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RunState represents a scrape cycle state in the state machine.
type RunState string

const (
	RunStatePending             RunState = "pending"
	RunStateRunning             RunState = "running"
	RunStateCompleted           RunState = "completed"
	RunStateCompletedWithErrors RunState = "completed_with_errors"
	RunStateFailed              RunState = "failed"
)

// RunTrigger records what started a scrape cycle.
type RunTrigger string

const (
	// TriggerScheduled marks cycles started by the interval scheduler.
	TriggerScheduled RunTrigger = "scheduled"
	// TriggerManual marks cycles started by an on-demand request.
	TriggerManual RunTrigger = "manual"
)

// ValidateRunTransition checks if a run state transition is valid.
// Returns an error if the transition is not allowed.
func ValidateRunTransition(from, to RunState) error {
	validTransitions := map[RunState][]RunState{
		RunStatePending: {
			RunStateRunning,
		},
		RunStateRunning: {
			RunStateCompleted,
			RunStateCompletedWithErrors,
			RunStateFailed,
		},
		// Terminal states
		RunStateCompleted:           {},
		RunStateCompletedWithErrors: {},
		RunStateFailed:              {},
	}

	allowedStates, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("unknown run state: %s", from)
	}

	for _, allowed := range allowedStates {
		if allowed == to {
			return nil
		}
	}

	return fmt.Errorf("invalid run state transition from %s to %s", from, to)
}

// IsTerminalRunState checks if a run state is terminal.
func IsTerminalRunState(state RunState) bool {
	return state == RunStateCompleted ||
		state == RunStateCompletedWithErrors ||
		state == RunStateFailed
}

// SourceOutcome summarizes one source's results within a scrape cycle.
// The counts satisfy Fetched = New + Duplicate + Failed.
type SourceOutcome struct {
	SourceID   int64    `json:"source_id"`
	SourceName string   `json:"source_name"`
	Fetched    int      `json:"fetched"`
	New        int      `json:"new"`
	Duplicate  int      `json:"duplicate"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// AddError appends an error string to the outcome.
func (o *SourceOutcome) AddError(err error) {
	if err == nil {
		return
	}
	o.Errors = append(o.Errors, err.Error())
}

// OutcomeMap maps source names to their outcomes, stored as JSONB.
type OutcomeMap map[string]*SourceOutcome

// Scan implements the sql.Scanner interface.
func (m *OutcomeMap) Scan(value any) error {
	return scanJSONB(value, m)
}

// Value implements the driver.Valuer interface.
func (m OutcomeMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// ScrapeRun is one execution of the scrape pipeline across all sources.
type ScrapeRun struct {
	ID          string     `db:"id"`
	Trigger     RunTrigger `db:"trigger"`
	State       RunState   `db:"state"`
	StartedAt   time.Time  `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
	Outcomes    OutcomeMap `db:"outcomes"`
	Errors      StringList `db:"errors"`
}

// Transition moves the run to the given state, enforcing the state machine.
func (r *ScrapeRun) Transition(to RunState) error {
	if err := ValidateRunTransition(r.State, to); err != nil {
		return err
	}
	r.State = to
	return nil
}

// TotalNew returns the total number of newly inserted articles across sources.
func (r *ScrapeRun) TotalNew() int {
	total := 0
	for _, o := range r.Outcomes {
		total += o.New
	}
	return total
}

// HasErrors reports whether any source recorded a failure or error.
func (r *ScrapeRun) HasErrors() bool {
	if len(r.Errors) > 0 {
		return true
	}
	for _, o := range r.Outcomes {
		if o.Failed > 0 || len(o.Errors) > 0 {
			return true
		}
	}
	return false
}
