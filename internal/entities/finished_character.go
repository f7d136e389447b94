package entities

import (
	"strings"
	"time"
)

// DefaultCharacterName is stored when the name field is blank
const DefaultCharacterName = "名無し"

// FinishedCharacter is a completed character. Rows are append-only.
type FinishedCharacter struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	Name      string         `json:"name"`
	Draft     CharacterDraft `json:"draft"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewFinishedCharacter builds a finished character from a complete draft
func NewFinishedCharacter(id, ownerID string, draft CharacterDraft, now time.Time) *FinishedCharacter {
	name := strings.TrimSpace(draft["name"])
	if name == "" {
		name = DefaultCharacterName
	}

	return &FinishedCharacter{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Draft:     draft.Clone(),
		CreatedAt: now,
	}
}
