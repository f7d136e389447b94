package prompts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/fields"
	"github.com/KirkDiggler/charcraft/internal/prompts"
)

func TestComposer_ChoicePrompt(t *testing.T) {
	composer := prompts.NewComposer(fields.NewRegistry())

	prompt, err := composer.ChoicePrompt("hairColor", entities.CharacterDraft{
		"name":  "Aria",
		"age":   "17",
		"other": "ignored",
		"notes": "  ",
	})

	require.NoError(t, err)
	assert.Contains(t, prompt, "名前: Aria, 年齢: 17")
	assert.NotContains(t, prompt, "ignored")
	assert.Contains(t, prompt, "髪色 (hairColor)")
	for _, archetype := range []string{"王道パターン1", "王道パターン2", "ギャップ萌え", "パーソナライズ"} {
		assert.Contains(t, prompt, archetype)
	}
	for _, prefix := range []string{"選択肢1:", "選択肢2:", "選択肢3:", "選択肢4:", "コメント:"} {
		assert.Contains(t, prompt, prefix)
	}
}

func TestComposer_ChoicePromptEmptyDraft(t *testing.T) {
	composer := prompts.NewComposer(fields.NewRegistry())

	prompt, err := composer.ChoicePrompt("name", nil)

	require.NoError(t, err)
	assert.Contains(t, prompt, "まだ何も決まっていません")
}

func TestComposer_ChoicePromptSelectField(t *testing.T) {
	composer := prompts.NewComposer(fields.NewRegistry())

	prompt, err := composer.ChoicePrompt("gender", nil)

	require.NoError(t, err)
	assert.Contains(t, prompt, "男性、女性、その他、秘密")
}

func TestComposer_ChoicePromptUnknownField(t *testing.T) {
	composer := prompts.NewComposer(fields.NewRegistry())

	_, err := composer.ChoicePrompt("haircolour", nil)

	assert.True(t, apperr.IsUnknownField(err))
}

func TestComposer_ReactionPrompt(t *testing.T) {
	composer := prompts.NewComposer(fields.NewRegistry())

	prompt := composer.ReactionPrompt("名前", "Aria", "年齢", entities.CharacterDraft{"name": "Aria"})

	assert.Contains(t, prompt, "「名前」に「Aria」を選択しました")
	assert.Contains(t, prompt, "年齢への自然な話題転換")
	assert.Contains(t, prompt, "150文字以内")
}

func TestComposer_CelebrationPrompt(t *testing.T) {
	composer := prompts.NewComposer(fields.NewRegistry())

	prompt := composer.CelebrationPrompt(entities.CharacterDraft{"name": "Aria", "hairColor": "銀髪"})

	assert.Contains(t, prompt, "名前: Aria, 髪色: 銀髪")
	assert.Contains(t, prompt, "完成を祝福")
}

func TestPresets(t *testing.T) {
	assert.Equal(t, int32(800), prompts.ChoiceOptions.MaxOutputTokens)
	assert.Equal(t, prompts.SystemInstruction, prompts.ChoiceOptions.SystemInstruction)
	assert.Equal(t, int32(200), prompts.ReactionOptions.MaxOutputTokens)
	assert.Empty(t, prompts.ReactionOptions.SystemInstruction)
	assert.Equal(t, int32(200), prompts.CelebrationOptions.MaxOutputTokens)
}
