package contract

import (
	"fmt"

	"github.com/fohr/contracts-backend/internal/domain/shared"
)

// Status is the contract lifecycle state. The set is closed; transitions
// outside the table below are rejected.
type Status string

const (
	// StatusPendingChanges is set when the document has been created and
	// the participant is reviewing it.
	StatusPendingChanges Status = "pending_changes"
	// StatusPendingInitiation is set when the participant has accepted
	// the document and Fohr has yet to send it for signature.
	StatusPendingInitiation Status = "pending_fohr_to_initiate_signatures"
	// StatusOutForSignature is set once the agreement is with the
	// signature provider.
	StatusOutForSignature Status = "out_for_signature"
	// StatusCompleted is the terminal state. The provider's SIGNED and
	// COMPLETED agreement states both map here.
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPendingChanges:    {StatusPendingInitiation},
	StatusPendingInitiation: {StatusOutForSignature},
	StatusOutForSignature:   {StatusCompleted},
	StatusCompleted:         {},
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns shared.ErrInvalidTransition (wrapped with the
// offending pair) unless s -> next is in the transition table.
func (s Status) ValidateTransition(next Status) error {
	if !next.Valid() {
		return fmt.Errorf("status %q: %w", next, shared.ErrInvalidInput)
	}
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%s -> %s: %w", s, next, shared.ErrInvalidTransition)
	}
	return nil
}

// ParseStatus converts a wire value into a Status, accepting the signature
// provider's agreement-state spellings for the terminal state.
func ParseStatus(raw string) (Status, error) {
	switch raw {
	case string(StatusPendingChanges), string(StatusPendingInitiation),
		string(StatusOutForSignature), string(StatusCompleted):
		return Status(raw), nil
	case "signed", "SIGNED", "COMPLETED":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("status %q: %w", raw, shared.ErrInvalidInput)
}
