// Package fields holds the catalog of character attributes the wizard walks
// through and the canonical order they are asked in.
package fields

import (
	"slices"

	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

// Category groups related fields
type Category string

const (
	CategoryBasic       Category = "basic"
	CategoryAppearance  Category = "appearance"
	CategoryPersonality Category = "personality"
	CategoryBackground  Category = "background"
)

// InputType describes what kind of answer a field expects
type InputType string

const (
	InputText   InputType = "text"
	InputNumber InputType = "number"
	InputSelect InputType = "select"
)

// FieldDefinition describes one character attribute
type FieldDefinition struct {
	Key       string
	Label     string
	Category  Category
	Order     int // position in the canonical traversal, starting at 0
	InputType InputType
	Options   []string // fixed choices for InputSelect fields
}

func (f FieldDefinition) clone() FieldDefinition {
	f.Options = slices.Clone(f.Options)
	return f
}

// Registry is an immutable, ordered field catalog. Build it once at startup and
// pass it to whatever needs it.
type Registry struct {
	fields     []FieldDefinition
	index      map[string]int
	categories []Category
}

// NewRegistry returns the standard twenty-field catalog
func NewRegistry() *Registry {
	return newRegistry(standardCatalog())
}

func newRegistry(groups []categoryGroup) *Registry {
	r := &Registry{
		index: make(map[string]int),
	}

	for _, group := range groups {
		r.categories = append(r.categories, group.category)
		for _, f := range group.fields {
			f.Category = group.category
			f.Order = len(r.fields)
			r.index[f.Key] = f.Order
			r.fields = append(r.fields, f)
		}
	}

	return r
}

// All returns every field in canonical order
func (r *Registry) All() []FieldDefinition {
	out := make([]FieldDefinition, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.clone()
	}
	return out
}

// Keys returns every field key in canonical order
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields
func (r *Registry) Len() int {
	return len(r.fields)
}

// First returns the field the wizard starts with
func (r *Registry) First() FieldDefinition {
	return r.fields[0].clone()
}

// Has reports whether key is in the catalog
func (r *Registry) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// ByKey looks up a field by key
func (r *Registry) ByKey(key string) (FieldDefinition, error) {
	i, ok := r.index[key]
	if !ok {
		return FieldDefinition{}, apperr.UnknownField(key)
	}
	return r.fields[i].clone(), nil
}

// NextAfter returns the field that follows key. The bool is false when key is the last field.
func (r *Registry) NextAfter(key string) (FieldDefinition, bool, error) {
	i, ok := r.index[key]
	if !ok {
		return FieldDefinition{}, false, apperr.UnknownField(key)
	}
	if i+1 >= len(r.fields) {
		return FieldDefinition{}, false, nil
	}
	return r.fields[i+1].clone(), true, nil
}

// Categories returns the categories in traversal order
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// ByCategory returns the fields of one category in order
func (r *Registry) ByCategory(category Category) []FieldDefinition {
	var out []FieldDefinition
	for _, f := range r.fields {
		if f.Category == category {
			out = append(out, f.clone())
		}
	}
	return out
}

// Label returns the display label for key, or the key itself when unknown
func (r *Registry) Label(key string) string {
	if i, ok := r.index[key]; ok {
		return r.fields[i].Label
	}
	return key
}
