package sessions

//go:generate mockgen -destination=mock/mock.go -package=mocksessions -source=interface.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

// Repository stores the single in-progress creation session of each user
type Repository interface {
	// Upsert creates or replaces the owner's session
	Upsert(ctx context.Context, session *entities.CreationSession) error

	// Get returns the owner's session or a not found error
	Get(ctx context.Context, ownerID string) (*entities.CreationSession, error)

	// Delete removes the owner's session. Deleting a missing session is not an error.
	Delete(ctx context.Context, ownerID string) error

	// Finalize writes the completed session and stores the finished character
	// in one atomic step. Either both are persisted or neither is.
	Finalize(ctx context.Context, session *entities.CreationSession, character *entities.FinishedCharacter) error
}

func validate(session *entities.CreationSession) error {
	if session == nil {
		return apperr.InvalidArgument("session cannot be nil")
	}
	if session.OwnerID == "" {
		return apperr.InvalidArgument("session owner ID is required")
	}
	return nil
}

func validateFinalize(session *entities.CreationSession, character *entities.FinishedCharacter) error {
	if err := validate(session); err != nil {
		return err
	}
	if character == nil {
		return apperr.InvalidArgument("character cannot be nil")
	}
	if character.OwnerID != session.OwnerID {
		return apperr.InvalidArgument("character and session belong to different owners").
			WithMeta("session_owner", session.OwnerID).
			WithMeta("character_owner", character.OwnerID)
	}
	return nil
}

// Data is the serialized form of a session, shared by the Redis value and
// the Postgres session_data column
type Data struct {
	OwnerID         string            `json:"owner_id"`
	Draft           map[string]string `json:"character_data"`
	CurrentFieldKey string            `json:"current_field,omitempty"`
	StepIndex       int               `json:"current_step"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toData(s *entities.CreationSession) Data {
	return Data{
		OwnerID:         s.OwnerID,
		Draft:           s.Draft.Clone(),
		CurrentFieldKey: s.CurrentFieldKey,
		StepIndex:       s.StepIndex,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func fromData(d Data) *entities.CreationSession {
	return &entities.CreationSession{
		OwnerID:         d.OwnerID,
		Draft:           entities.CharacterDraft(d.Draft).Clone(),
		CurrentFieldKey: d.CurrentFieldKey,
		StepIndex:       d.StepIndex,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func copySession(s *entities.CreationSession) *entities.CreationSession {
	out := *s
	out.Draft = s.Draft.Clone()
	return &out
}

func notFound(ownerID string) error {
	return apperr.NotFoundf("no creation session for user '%s'", ownerID).
		WithMeta("user_id", ownerID)
}
