package sessions

import (
	"context"
	"sync"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/repositories/characters"
)

// InMemoryRepository keeps sessions in a map. Finalize stores the character
// through the given character repository while holding the session lock.
type InMemoryRepository struct {
	mu         sync.RWMutex
	sessions   map[string]*entities.CreationSession
	characters characters.Repository
}

// NewInMemoryRepository creates an in-memory session repository
func NewInMemoryRepository(chars characters.Repository) *InMemoryRepository {
	if chars == nil {
		panic("character repository is required")
	}
	return &InMemoryRepository{
		sessions:   make(map[string]*entities.CreationSession),
		characters: chars,
	}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, session *entities.CreationSession) error {
	if err := validate(session); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.OwnerID] = copySession(session)
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, ownerID string) (*entities.CreationSession, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[ownerID]
	if !ok {
		return nil, notFound(ownerID)
	}
	return copySession(session), nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return apperr.InvalidArgument("owner ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, ownerID)
	return nil
}

func (r *InMemoryRepository) Finalize(ctx context.Context, session *entities.CreationSession, character *entities.FinishedCharacter) error {
	if err := validateFinalize(session, character); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// The character goes first so a failed insert leaves the session untouched
	if err := r.characters.Create(ctx, character); err != nil {
		return err
	}
	r.sessions[session.OwnerID] = copySession(session)
	return nil
}
