package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

// Repository stores finished characters. Characters are append-only.
type Repository interface {
	// Create stores a new character. It fails with already exists when the ID is taken.
	Create(ctx context.Context, character *entities.FinishedCharacter) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*entities.FinishedCharacter, error)

	// ListByOwner returns an owner's characters, oldest first
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.FinishedCharacter, error)
}

func validate(character *entities.FinishedCharacter) error {
	switch {
	case character == nil:
		return apperr.InvalidArgument("character cannot be nil")
	case character.ID == "":
		return apperr.InvalidArgument("character ID is required")
	case character.OwnerID == "":
		return apperr.InvalidArgument("character owner ID is required")
	}
	return nil
}
