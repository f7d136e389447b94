// Package progress computes how far a character draft is from completion.
package progress

import (
	"math"

	"github.com/KirkDiggler/charcraft/internal/entities"
	"github.com/KirkDiggler/charcraft/internal/fields"
)

// Progress summarizes a draft against the field catalog
type Progress struct {
	CompletedCount     int      `json:"completed_count"`
	TotalCount         int      `json:"total_count"`
	Percent            int      `json:"percent"`
	RemainingFieldKeys []string `json:"remaining_field_keys"`
	Completed          bool     `json:"completed"`
}

// Evaluate counts the answered catalog fields in draft. Keys outside the catalog are ignored.
func Evaluate(reg *fields.Registry, draft entities.CharacterDraft) Progress {
	p := Progress{
		TotalCount:         reg.Len(),
		RemainingFieldKeys: make([]string, 0, reg.Len()),
	}

	for _, key := range reg.Keys() {
		if draft.IsAnswered(key) {
			p.CompletedCount++
			continue
		}
		p.RemainingFieldKeys = append(p.RemainingFieldKeys, key)
	}

	if p.TotalCount > 0 {
		p.Percent = int(math.Round(100 * float64(p.CompletedCount) / float64(p.TotalCount)))
	}
	p.Completed = len(p.RemainingFieldKeys) == 0

	return p
}

// NextFieldKey returns the first unanswered field, or "" when complete
func (p Progress) NextFieldKey() string {
	if len(p.RemainingFieldKeys) == 0 {
		return ""
	}
	return p.RemainingFieldKeys[0]
}
