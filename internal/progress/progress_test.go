package progress_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/charcraft/internal/entities"
	"github.com/KirkDiggler/charcraft/internal/fields"
	"github.com/KirkDiggler/charcraft/internal/progress"
)

func fullDraft(reg *fields.Registry) entities.CharacterDraft {
	draft := entities.CharacterDraft{}
	for _, key := range reg.Keys() {
		draft[key] = "value-" + key
	}
	return draft
}

func TestEvaluate_EmptyDraft(t *testing.T) {
	reg := fields.NewRegistry()

	p := progress.Evaluate(reg, nil)

	assert.Equal(t, 0, p.CompletedCount)
	assert.Equal(t, 20, p.TotalCount)
	assert.Equal(t, 0, p.Percent)
	assert.Equal(t, reg.Keys(), p.RemainingFieldKeys)
	assert.False(t, p.Completed)
	assert.Equal(t, "name", p.NextFieldKey())
}

func TestEvaluate_CountsTrimmedValuesOnly(t *testing.T) {
	reg := fields.NewRegistry()
	draft := entities.CharacterDraft{
		"name":      "Aria",
		"age":       " 17 ",
		"gender":    "   ",
		"hairColor": "",
		"unknown":   "ignored",
	}

	p := progress.Evaluate(reg, draft)

	assert.Equal(t, 2, p.CompletedCount)
	assert.Equal(t, 10, p.Percent)
	assert.Equal(t, "gender", p.NextFieldKey())
	assert.NotContains(t, p.RemainingFieldKeys, "name")
	assert.Contains(t, p.RemainingFieldKeys, "hairColor")
}

func TestEvaluate_PercentMatchesFormula(t *testing.T) {
	reg := fields.NewRegistry()
	draft := entities.CharacterDraft{}

	for i, key := range reg.Keys() {
		draft[key] = "x"
		p := progress.Evaluate(reg, draft)

		completed := i + 1
		assert.Equal(t, completed, p.CompletedCount)
		assert.Equal(t, int(math.Round(100*float64(completed)/20)), p.Percent)
		assert.Equal(t, completed == 20, p.Completed)
	}
}

func TestEvaluate_RemainingKeepsCanonicalOrder(t *testing.T) {
	reg := fields.NewRegistry()
	draft := fullDraft(reg)
	delete(draft, "favorites")
	delete(draft, "age")
	draft["trait1"] = " "

	p := progress.Evaluate(reg, draft)

	assert.Equal(t, []string{"age", "trait1", "favorites"}, p.RemainingFieldKeys)
}

func TestEvaluate_Complete(t *testing.T) {
	reg := fields.NewRegistry()

	p := progress.Evaluate(reg, fullDraft(reg))

	assert.True(t, p.Completed)
	assert.Equal(t, 100, p.Percent)
	assert.Empty(t, p.RemainingFieldKeys)
	assert.Equal(t, "", p.NextFieldKey())
}

func TestBar(t *testing.T) {
	p := progress.Progress{CompletedCount: 5, TotalCount: 20, Percent: 25}

	assert.Equal(t, "▰▰▰▰▰▱▱▱▱▱▱▱▱▱▱▱▱▱▱▱ 25%", p.Bar())
}

func TestCategoryChecklist(t *testing.T) {
	reg := fields.NewRegistry()
	draft := entities.CharacterDraft{
		"name": "Aria", "age": "17", "gender": "女性", "height": "158cm", "birthday": "3月3日",
		"hairColor": "銀",
	}

	out := progress.CategoryChecklist(reg, draft)

	assert.Contains(t, out, "✅ 基本情報 (5/5)")
	assert.Contains(t, out, "⏳ 外見 (1/5)")
	assert.Contains(t, out, "⏳ 背景 (0/5)")
}
