package builders

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// MaxEmbedFields is Discord's per-embed field limit
const MaxEmbedFields = 25

// EmbedBuilder provides a fluent API for building Discord embeds
type EmbedBuilder struct {
	embed *discordgo.MessageEmbed
}

// NewEmbed creates a new embed builder
func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{
		embed: &discordgo.MessageEmbed{
			Type:   discordgo.EmbedTypeRich,
			Fields: make([]*discordgo.MessageEmbedField, 0),
		},
	}
}

// Title sets the embed title
func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.embed.Title = title
	return b
}

// Description sets the embed description
func (b *EmbedBuilder) Description(description string) *EmbedBuilder {
	b.embed.Description = description
	return b
}

// Color sets the embed color
func (b *EmbedBuilder) Color(color int) *EmbedBuilder {
	b.embed.Color = color
	return b
}

// Timestamp sets the embed timestamp
func (b *EmbedBuilder) Timestamp(timestamp time.Time) *EmbedBuilder {
	b.embed.Timestamp = timestamp.Format(time.RFC3339)
	return b
}

// Footer sets the embed footer
func (b *EmbedBuilder) Footer(text string) *EmbedBuilder {
	b.embed.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return b
}

// Field adds a field, silently dropping it past the Discord limit. Empty
// values are replaced since Discord rejects them.
func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	if len(b.embed.Fields) >= MaxEmbedFields {
		return b
	}
	if value == "" {
		value = "-"
	}
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return b
}

// Build returns the constructed embed
func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return b.embed
}

// Common embed colors
const (
	ColorSuccess = 0x57f287
	ColorError   = 0xed4245
	ColorWarning = 0xfee75c
	ColorInfo    = 0x5865f2
	ColorPrimary = 0xeb459e
)

// SuccessEmbed creates a pre-styled success embed
func SuccessEmbed(title, description string) *EmbedBuilder {
	return NewEmbed().
		Title("🎉 " + title).
		Description(description).
		Color(ColorSuccess)
}

// WarningEmbed creates a pre-styled warning embed
func WarningEmbed(title, description string) *EmbedBuilder {
	return NewEmbed().
		Title("⚠️ " + title).
		Description(description).
		Color(ColorWarning)
}

// InfoEmbed creates a pre-styled info embed
func InfoEmbed(title, description string) *EmbedBuilder {
	return NewEmbed().
		Title(title).
		Description(description).
		Color(ColorInfo)
}

// ListEmbedBuilder renders a list of items with a count footer
type ListEmbedBuilder struct {
	*EmbedBuilder
	count int
}

// NewListEmbed creates a new list embed builder
func NewListEmbed(title string) *ListEmbedBuilder {
	return &ListEmbedBuilder{
		EmbedBuilder: NewEmbed().Title(title).Color(ColorPrimary),
	}
}

// AddItem adds an item and refreshes the footer
func (b *ListEmbedBuilder) AddItem(name, value string) *ListEmbedBuilder {
	b.count++
	b.Field(name, value, false)
	shown := b.count
	if shown > MaxEmbedFields {
		shown = MaxEmbedFields
	}
	if shown < b.count {
		b.Footer(fmt.Sprintf("全%d件中%d件を表示", b.count, shown))
	} else {
		b.Footer(fmt.Sprintf("全%d件", b.count))
	}
	return b
}
