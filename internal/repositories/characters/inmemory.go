package characters

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the character repository
// Useful for testing and development
type InMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*entities.FinishedCharacter
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		characters: make(map[string]*entities.FinishedCharacter),
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(ctx context.Context, character *entities.FinishedCharacter) error {
	if err := validate(character); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[character.ID]; exists {
		return apperr.AlreadyExistsf("character with ID '%s' already exists", character.ID).
			WithMeta("character_id", character.ID)
	}

	r.characters[character.ID] = copyCharacter(character)
	return nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*entities.FinishedCharacter, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	character, exists := r.characters[id]
	if !exists {
		return nil, apperr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	return copyCharacter(character), nil
}

// ListByOwner returns an owner's characters, oldest first
func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.FinishedCharacter, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.FinishedCharacter, 0)
	for _, character := range r.characters {
		if character.OwnerID == ownerID {
			result = append(result, copyCharacter(character))
		}
	}
	sortByCreation(result)

	return result, nil
}

func copyCharacter(c *entities.FinishedCharacter) *entities.FinishedCharacter {
	out := *c
	out.Draft = c.Draft.Clone()
	return &out
}

func sortByCreation(list []*entities.FinishedCharacter) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
