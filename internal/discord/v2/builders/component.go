package builders

import (
	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
)

const (
	// MaxButtonsPerRow is Discord's action row width
	MaxButtonsPerRow = 5

	// MaxButtonLabel is Discord's button label limit in characters
	MaxButtonLabel = 80
)

// ComponentBuilder builds Discord message components
type ComponentBuilder struct {
	rows       []discordgo.MessageComponent
	currentRow []discordgo.MessageComponent
	ids        *core.CustomIDBuilder
}

// NewComponentBuilder creates a new component builder
func NewComponentBuilder(ids *core.CustomIDBuilder) *ComponentBuilder {
	return &ComponentBuilder{
		currentRow: make([]discordgo.MessageComponent, 0, MaxButtonsPerRow),
		ids:        ids,
	}
}

func (b *ComponentBuilder) customID(action string, args []string) string {
	target := ""
	if len(args) > 0 {
		target, args = args[0], args[1:]
	}
	return b.ids.Button(action, target, args...)
}

// Button adds a button; args are the target followed by extra arguments
func (b *ComponentBuilder) Button(label string, style discordgo.ButtonStyle, action string, args ...string) *ComponentBuilder {
	b.addComponent(discordgo.Button{
		Label:    TruncateLabel(label),
		Style:    style,
		CustomID: b.customID(action, args),
	})
	return b
}

// EmojiButton adds a button with emoji
func (b *ComponentBuilder) EmojiButton(label, emoji string, style discordgo.ButtonStyle, action string, args ...string) *ComponentBuilder {
	b.addComponent(discordgo.Button{
		Label:    TruncateLabel(label),
		Style:    style,
		CustomID: b.customID(action, args),
		Emoji:    &discordgo.ComponentEmoji{Name: emoji},
	})
	return b
}

// PrimaryButton adds a blurple button
func (b *ComponentBuilder) PrimaryButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.PrimaryButton, action, args...)
}

// SecondaryButton adds a grey button
func (b *ComponentBuilder) SecondaryButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.SecondaryButton, action, args...)
}

// DangerButton adds a red button
func (b *ComponentBuilder) DangerButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.DangerButton, action, args...)
}

// NewRow starts a new action row
func (b *ComponentBuilder) NewRow() *ComponentBuilder {
	if len(b.currentRow) > 0 {
		b.rows = append(b.rows, discordgo.ActionsRow{Components: b.currentRow})
		b.currentRow = make([]discordgo.MessageComponent, 0, MaxButtonsPerRow)
	}
	return b
}

// Build returns the built components
func (b *ComponentBuilder) Build() []discordgo.MessageComponent {
	b.NewRow()
	return b.rows
}

func (b *ComponentBuilder) addComponent(component discordgo.MessageComponent) {
	if len(b.currentRow) >= MaxButtonsPerRow {
		b.NewRow()
	}
	b.currentRow = append(b.currentRow, component)
}

// TruncateLabel shortens a label to Discord's limit, counting runes
func TruncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= MaxButtonLabel {
		return label
	}
	return string(runes[:MaxButtonLabel-1]) + "…"
}

// TextInputModal builds a modal with a single text input
func TextInputModal(customID, title, inputID, label, placeholder string, maxLength int) *core.Modal {
	return &core.Modal{
		CustomID: customID,
		Title:    TruncateModalTitle(title),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    inputID,
						Label:       label,
						Style:       discordgo.TextInputShort,
						Placeholder: placeholder,
						Required:    true,
						MaxLength:   maxLength,
					},
				},
			},
		},
	}
}

// TruncateModalTitle keeps modal titles within Discord's 45 character limit
func TruncateModalTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= 45 {
		return title
	}
	return string(runes[:44]) + "…"
}
