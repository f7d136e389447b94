package entities

import (
	"maps"
	"strings"
)

// CharacterDraft maps a field key to the free-text value the user picked for it.
// A field counts as answered only when its trimmed value is non-empty.
type CharacterDraft map[string]string

// IsAnswered reports whether key holds a non-blank value
func (d CharacterDraft) IsAnswered(key string) bool {
	return strings.TrimSpace(d[key]) != ""
}

// Value returns the trimmed value for key
func (d CharacterDraft) Value(key string) string {
	return strings.TrimSpace(d[key])
}

// Clone returns an independent copy. A nil draft clones to an empty one.
func (d CharacterDraft) Clone() CharacterDraft {
	out := make(CharacterDraft, len(d)+1)
	maps.Copy(out, d)
	return out
}

// With returns a copy of the draft with key set to value
func (d CharacterDraft) With(key, value string) CharacterDraft {
	out := d.Clone()
	out[key] = value
	return out
}
