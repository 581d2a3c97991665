package domain_test

import (
	"errors"
	"testing"

	"github.com/jonesrussell/naijapulse/internal/domain"
)

func TestValidateRunTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    domain.RunState
		to      domain.RunState
		wantErr bool
	}{
		{"pending to running", domain.RunStatePending, domain.RunStateRunning, false},
		{"running to completed", domain.RunStateRunning, domain.RunStateCompleted, false},
		{"running to completed with errors", domain.RunStateRunning, domain.RunStateCompletedWithErrors, false},
		{"running to failed", domain.RunStateRunning, domain.RunStateFailed, false},
		{"pending to completed skips running", domain.RunStatePending, domain.RunStateCompleted, true},
		{"completed is terminal", domain.RunStateCompleted, domain.RunStateRunning, true},
		{"failed is terminal", domain.RunStateFailed, domain.RunStatePending, true},
		{"unknown state", domain.RunState("bogus"), domain.RunStateRunning, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := domain.ValidateRunTransition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunTransition(%s, %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestScrapeRun_Transition(t *testing.T) {
	t.Parallel()

	run := &domain.ScrapeRun{State: domain.RunStatePending}

	if err := run.Transition(domain.RunStateRunning); err != nil {
		t.Fatalf("Transition(running) error = %v", err)
	}
	if run.State != domain.RunStateRunning {
		t.Errorf("State = %q, want running", run.State)
	}

	if err := run.Transition(domain.RunStatePending); err == nil {
		t.Error("Transition back to pending should fail")
	}
	if run.State != domain.RunStateRunning {
		t.Errorf("failed transition mutated state to %q", run.State)
	}
}

func TestIsTerminalRunState(t *testing.T) {
	t.Parallel()

	terminal := []domain.RunState{
		domain.RunStateCompleted,
		domain.RunStateCompletedWithErrors,
		domain.RunStateFailed,
	}
	for _, state := range terminal {
		if !domain.IsTerminalRunState(state) {
			t.Errorf("IsTerminalRunState(%s) = false, want true", state)
		}
	}

	if domain.IsTerminalRunState(domain.RunStateRunning) {
		t.Error("running is not terminal")
	}
}

func TestScrapeRun_HasErrors(t *testing.T) {
	t.Parallel()

	run := &domain.ScrapeRun{
		Outcomes: domain.OutcomeMap{
			"a": {Fetched: 5, New: 3, Duplicate: 2},
		},
	}
	if run.HasErrors() {
		t.Error("clean run reported errors")
	}

	run.Outcomes["b"] = &domain.SourceOutcome{Fetched: 1, Failed: 1}
	if !run.HasErrors() {
		t.Error("run with a failed source reported clean")
	}
}

func TestSourceOutcome_AddError(t *testing.T) {
	t.Parallel()

	outcome := &domain.SourceOutcome{}
	outcome.AddError(nil)
	outcome.AddError(errors.New("boom"))

	if len(outcome.Errors) != 1 {
		t.Fatalf("Errors = %v, want single entry", outcome.Errors)
	}
	if outcome.Errors[0] != "boom" {
		t.Errorf("Errors[0] = %q", outcome.Errors[0])
	}
}
