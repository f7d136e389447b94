package entities

import (
	"time"
)

// CreationSession tracks the wizard state for one user. There is at most one
// session per owner; starting again replaces it.
type CreationSession struct {
	OwnerID         string         `json:"owner_id"`
	Draft           CharacterDraft `json:"draft"`
	CurrentFieldKey string         `json:"current_field_key,omitempty"` // empty once every field is answered
	StepIndex       int            `json:"step_index"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewCreationSession creates a fresh session positioned at firstField
func NewCreationSession(ownerID, firstField string, now time.Time) *CreationSession {
	return &CreationSession{
		OwnerID:         ownerID,
		Draft:           CharacterDraft{},
		CurrentFieldKey: firstField,
		StepIndex:       0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasCurrentField reports whether there is still a field to answer
func (s *CreationSession) HasCurrentField() bool {
	return s.CurrentFieldKey != ""
}

// Advance records the new draft and position
func (s *CreationSession) Advance(draft CharacterDraft, stepIndex int, nextField string, now time.Time) {
	s.Draft = draft
	s.StepIndex = stepIndex
	s.CurrentFieldKey = nextField
	s.UpdatedAt = now
}
