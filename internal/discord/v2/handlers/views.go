package handlers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/builders"
	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
	"github.com/KirkDiggler/charcraft/internal/entities"
	"github.com/KirkDiggler/charcraft/internal/fields"
	"github.com/KirkDiggler/charcraft/internal/progress"
	"github.com/KirkDiggler/charcraft/internal/services/creation"
	"github.com/KirkDiggler/charcraft/internal/services/quota"
)

// Component actions under the character domain
const (
	ActionPropose      = "propose"
	ActionChoose       = "choose"
	ActionCustom       = "custom"
	ActionCustomSubmit = "custom_submit"
)

// ModalValueInput is the custom ID of the free text input
const ModalValueInput = "value"

// MaxCustomValueLength caps free text answers
const MaxCustomValueLength = 100

const (
	proposeLabel = "候補を見る"
	retryLabel   = "もう一度提案"
	customLabel  = "自分で入力"

	noSessionText   = "進行中のキャラクター作成がありません。`/character start` で始めましょう。"
	resetText       = "🗑️ キャラクター作成をリセットしました。`/character start` でいつでも再開できます。"
	noCharacterText = "まだ完成したキャラクターはいません。`/character start` で作ってみましょう！"
	noOptionsText   = "候補を作れませんでした。もう一度提案するか、自分で入力してください。"
)

// views renders wizard state into Discord responses
type views struct {
	registry *fields.Registry
	ids      *core.CustomIDBuilder
}

// fieldButtons offers candidates or free input for a field
func (v *views) fieldButtons(field fields.FieldDefinition) []discordgo.MessageComponent {
	return builders.NewComponentBuilder(v.ids).
		EmojiButton(proposeLabel, "💡", discordgo.PrimaryButton, ActionPropose, field.Key).
		EmojiButton(customLabel, "✏️", discordgo.SecondaryButton, ActionCustom, field.Key).
		Build()
}

func usageFooter(usage *quota.Status) string {
	if usage == nil {
		return ""
	}
	return fmt.Sprintf("本日のAI使用: %d/%d回", usage.Used, usage.Limit)
}

func (v *views) progressEmbed(title, description string, prog progress.Progress, draft entities.CharacterDraft) *builders.EmbedBuilder {
	return builders.InfoEmbed(title, description).
		Field("進捗", fmt.Sprintf("%s (%d/%d)", prog.Bar(), prog.CompletedCount, prog.TotalCount), false).
		Field("カテゴリ", progress.CategoryChecklist(v.registry, draft), false)
}

func (v *views) started(result *creation.StartResult) *core.Response {
	embed := v.progressEmbed(
		"🎨 キャラクター作成を始めましょう！",
		fmt.Sprintf("全%d項目を順番に決めていきます。\nまずは「**%s**」から。", v.registry.Len(), result.Field.Label),
		result.Progress,
		result.Session.Draft,
	)
	if footer := usageFooter(result.Usage); footer != "" {
		embed.Footer(footer)
	}

	return core.NewEmbedResponse(embed.Build()).
		WithComponents(v.fieldButtons(result.Field)...).
		AsEphemeral()
}

func (v *views) status(view *creation.SessionView, usage *quota.Status) *core.Response {
	if !view.HasSession {
		return core.NewEphemeralResponse(noSessionText)
	}

	description := "すべての項目が決まりました！"
	if view.CurrentField != nil {
		description = fmt.Sprintf("次の項目: 「**%s**」", view.CurrentField.Label)
	}
	embed := v.progressEmbed("📋 キャラクター作成の状況", description, view.Progress, view.Session.Draft)
	if answered := v.answeredSummary(view.Session.Draft); answered != "" {
		embed.Field("決まった項目", answered, false)
	}
	if footer := usageFooter(usage); footer != "" {
		embed.Footer(footer)
	}

	resp := core.NewEmbedResponse(embed.Build()).AsEphemeral()
	if view.CurrentField != nil {
		resp.WithComponents(v.fieldButtons(*view.CurrentField)...)
	}
	return resp
}

func (v *views) proposal(result *creation.ProposeResult) *core.Response {
	description := result.Comment
	if len(result.Options) == 0 {
		description = noOptionsText
	} else if description == "" {
		description = fmt.Sprintf("「%s」の候補です。気に入ったものを選んでください。", result.Field.Label)
	}

	embed := builders.InfoEmbed(fmt.Sprintf("💡 %s", result.Field.Label), description).
		Field("進捗", result.Progress.Bar(), false)
	if footer := usageFooter(result.Usage); footer != "" {
		embed.Footer(footer)
	}

	cb := builders.NewComponentBuilder(v.ids)
	for i, option := range result.Options {
		cb.PrimaryButton(option, ActionChoose, result.Field.Key, fmt.Sprintf("%d", i))
	}
	cb.NewRow().
		EmojiButton(retryLabel, "🔄", discordgo.SecondaryButton, ActionPropose, result.Field.Key).
		EmojiButton(customLabel, "✏️", discordgo.SecondaryButton, ActionCustom, result.Field.Key)

	return core.NewEmbedResponse(embed.Build()).
		WithComponents(cb.Build()...).
		AsEphemeral().
		AsUpdate()
}

func (v *views) customModal(field fields.FieldDefinition) *core.Response {
	return core.NewModalResponse(builders.TextInputModal(
		v.ids.Modal(ActionCustomSubmit, field.Key),
		fmt.Sprintf("「%s」を入力", field.Label),
		ModalValueInput,
		field.Label,
		customPlaceholder(field),
		MaxCustomValueLength,
	))
}

func customPlaceholder(field fields.FieldDefinition) string {
	if len(field.Options) > 0 {
		return "例: " + strings.Join(field.Options, " / ")
	}
	return fmt.Sprintf("%sを自由に入力してください", field.Label)
}

func (v *views) accepted(result *creation.AcceptResult) *core.Response {
	if result.Completed {
		return v.completed(result)
	}

	var next *fields.FieldDefinition
	if result.NextField != nil && !result.Draft.IsAnswered(result.NextField.Key) {
		next = result.NextField
	} else if key := result.Progress.NextFieldKey(); key != "" {
		if field, err := v.registry.ByKey(key); err == nil {
			next = &field
		}
	}

	description := result.Message
	if next != nil {
		description += fmt.Sprintf("\n\n次は「**%s**」です。", next.Label)
	}
	embed := v.progressEmbed("✨ 決定しました", description, result.Progress, result.Draft)

	resp := core.NewEmbedResponse(embed.Build()).AsEphemeral().AsUpdate()
	if next != nil {
		resp.WithComponents(v.fieldButtons(*next)...)
	} else {
		resp.ClearComponents()
	}
	return resp
}

func (v *views) completed(result *creation.AcceptResult) *core.Response {
	name := entities.DefaultCharacterName
	if result.Character != nil {
		name = result.Character.Name
	}

	embed := builders.SuccessEmbed(fmt.Sprintf("%s が完成しました！", name), result.Message)
	for _, category := range v.registry.Categories() {
		embed.Field(progress.CategoryLabel(category), v.categorySummary(category, result.Draft), false)
	}
	if result.Character != nil {
		embed.Footer(fmt.Sprintf("ID: %s", result.Character.ID))
	}

	return core.NewEmbedResponse(embed.Build()).ClearComponents().AsEphemeral().AsUpdate()
}

func (v *views) categorySummary(category fields.Category, draft entities.CharacterDraft) string {
	var lines []string
	for _, field := range v.registry.ByCategory(category) {
		if draft.IsAnswered(field.Key) {
			lines = append(lines, fmt.Sprintf("**%s**: %s", field.Label, draft.Value(field.Key)))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *views) answeredSummary(draft entities.CharacterDraft) string {
	var parts []string
	for _, field := range v.registry.All() {
		if draft.IsAnswered(field.Key) {
			parts = append(parts, fmt.Sprintf("%s: %s", field.Label, draft.Value(field.Key)))
		}
	}
	summary := strings.Join(parts, "\n")
	// embed field values are capped at 1024 characters
	if runes := []rune(summary); len(runes) > 1024 {
		summary = string(runes[:1023]) + "…"
	}
	return summary
}

func (v *views) characterList(characters []*entities.FinishedCharacter) *core.Response {
	if len(characters) == 0 {
		return core.NewEphemeralResponse(noCharacterText)
	}

	list := builders.NewListEmbed("📚 完成したキャラクター")
	for _, c := range characters {
		list.AddItem(c.Name, fmt.Sprintf("%s / %s / %s\n作成日: %s",
			orDash(c.Draft.Value("age")),
			orDash(c.Draft.Value("gender")),
			orDash(c.Draft.Value("occupation")),
			c.CreatedAt.Format("2006-01-02"),
		))
	}
	return core.NewEmbedResponse(list.Build()).AsEphemeral()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
