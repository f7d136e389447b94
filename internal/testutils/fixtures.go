package testutils

import (
	"fmt"

	"github.com/KirkDiggler/charcraft/internal/entities"
	"github.com/KirkDiggler/charcraft/internal/fields"
)

// PartialDraft answers the first n catalog fields with "<key>-value", except
// name which is "Aria"
func PartialDraft(reg *fields.Registry, n int) entities.CharacterDraft {
	draft := entities.CharacterDraft{}
	for i, key := range reg.Keys() {
		if i >= n {
			break
		}
		draft[key] = fmt.Sprintf("%s-value", key)
	}
	if _, ok := draft["name"]; ok {
		draft["name"] = "Aria"
	}
	return draft
}

// CompleteDraft answers every catalog field
func CompleteDraft(reg *fields.Registry) entities.CharacterDraft {
	return PartialDraft(reg, reg.Len())
}
