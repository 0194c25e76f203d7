package contract

import (
	"errors"
	"testing"

	"github.com/fohr/contracts-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPendingChanges, StatusPendingInitiation, true},
		{StatusPendingInitiation, StatusOutForSignature, true},
		{StatusOutForSignature, StatusCompleted, true},
		{StatusPendingChanges, StatusOutForSignature, false},
		{StatusPendingChanges, StatusCompleted, false},
		{StatusOutForSignature, StatusPendingChanges, false},
		{StatusCompleted, StatusPendingChanges, false},
		{StatusCompleted, StatusOutForSignature, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))

			err := tt.from.ValidateTransition(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, shared.ErrInvalidTransition))
			}
		})
	}
}

func TestStatus_ValidateTransitionRejectsUnknownStatus(t *testing.T) {
	err := StatusPendingChanges.ValidateTransition(Status("sideways"))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("pending_fohr_to_initiate_signatures")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingInitiation, got)

	// provider spellings of the terminal state collapse to completed
	for _, raw := range []string{"signed", "SIGNED", "COMPLETED", "completed"} {
		got, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, got)
	}

	_, err = ParseStatus("bogus")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestPatch_ApplyMergesOnlySetFields(t *testing.T) {
	c := Contract{ParticipantID: 1, DocID: "doc", Status: StatusPendingChanges}

	st := StatusPendingInitiation
	Patch{Status: &st}.Apply(&c)

	assert.Equal(t, StatusPendingInitiation, c.Status)
	assert.Equal(t, "doc", c.DocID)
	assert.Equal(t, int64(1), c.ParticipantID)
}
