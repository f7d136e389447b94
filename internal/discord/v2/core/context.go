package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// InteractionContext wraps a Discord interaction with useful helpers and context
type InteractionContext struct {
	Interaction *discordgo.InteractionCreate

	UserID    string
	GuildID   string
	ChannelID string

	Context context.Context

	params map[string]any
}

// NewInteractionContext creates a new InteractionContext from a Discord interaction
func NewInteractionContext(ctx context.Context, i *discordgo.InteractionCreate) *InteractionContext {
	ic := &InteractionContext{
		Interaction: i,
		Context:     ctx,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		params:      make(map[string]any),
	}

	// Member is set in guilds, User in DMs
	if i.Member != nil && i.Member.User != nil {
		ic.UserID = i.Member.User.ID
	} else if i.User != nil {
		ic.UserID = i.User.ID
	}

	ic.parseParams()

	return ic
}

func (ic *InteractionContext) parseParams() {
	switch ic.Interaction.Type {
	case discordgo.InteractionApplicationCommand:
		ic.parseOptions(ic.Interaction.ApplicationCommandData().Options)
	case discordgo.InteractionModalSubmit:
		ic.parseModalParams()
	}
}

// parseOptions walks subcommands and stores leaf option values by name
func (ic *InteractionContext) parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			ic.params["subcommand"] = opt.Name
			ic.parseOptions(opt.Options)
		default:
			ic.params[opt.Name] = opt.Value
		}
	}
}

// parseModalParams stores text input values by their custom ID
func (ic *InteractionContext) parseModalParams() {
	data := ic.Interaction.ModalSubmitData()
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok {
				ic.params[input.CustomID] = input.Value
			}
		}
	}
}

// GetParam retrieves a parameter by name
func (ic *InteractionContext) GetParam(name string) any {
	return ic.params[name]
}

// GetStringParam retrieves a string parameter or returns empty string
func (ic *InteractionContext) GetStringParam(name string) string {
	if val, ok := ic.params[name].(string); ok {
		return val
	}
	return ""
}

// IsCommand checks if this is a slash command interaction
func (ic *InteractionContext) IsCommand() bool {
	return ic.Interaction != nil && ic.Interaction.Type == discordgo.InteractionApplicationCommand
}

// IsComponent checks if this is a message component interaction
func (ic *InteractionContext) IsComponent() bool {
	return ic.Interaction != nil && ic.Interaction.Type == discordgo.InteractionMessageComponent
}

// IsModal checks if this is a modal submit interaction
func (ic *InteractionContext) IsModal() bool {
	return ic.Interaction != nil && ic.Interaction.Type == discordgo.InteractionModalSubmit
}

// GetCustomID returns the custom ID for component and modal interactions
func (ic *InteractionContext) GetCustomID() string {
	if ic.IsComponent() {
		return ic.Interaction.MessageComponentData().CustomID
	}
	if ic.IsModal() {
		return ic.Interaction.ModalSubmitData().CustomID
	}
	return ""
}

// GetCommandName returns the command name for slash commands
func (ic *InteractionContext) GetCommandName() string {
	if ic.IsCommand() {
		return ic.Interaction.ApplicationCommandData().Name
	}
	return ""
}

// GetSubcommand returns the subcommand name if present
func (ic *InteractionContext) GetSubcommand() string {
	return ic.GetStringParam("subcommand")
}

// ClickedButtonLabel finds the label of the clicked button on the message the
// component belongs to. Discord does not send the label with the click.
func (ic *InteractionContext) ClickedButtonLabel() (string, bool) {
	if !ic.IsComponent() || ic.Interaction.Message == nil {
		return "", false
	}
	customID := ic.GetCustomID()

	for _, comp := range ic.Interaction.Message.Components {
		var children []discordgo.MessageComponent
		switch row := comp.(type) {
		case *discordgo.ActionsRow:
			children = row.Components
		case discordgo.ActionsRow:
			children = row.Components
		}
		for _, child := range children {
			switch b := child.(type) {
			case *discordgo.Button:
				if b.CustomID == customID {
					return b.Label, true
				}
			case discordgo.Button:
				if b.CustomID == customID {
					return b.Label, true
				}
			}
		}
	}
	return "", false
}

// Route describes the interaction for logs and metrics, e.g. "character/start"
// or "character:choose"
func (ic *InteractionContext) Route() string {
	switch {
	case ic.IsCommand():
		if sub := ic.GetSubcommand(); sub != "" {
			return ic.GetCommandName() + "/" + sub
		}
		return ic.GetCommandName()
	case ic.IsComponent(), ic.IsModal():
		if id, err := ParseCustomID(ic.GetCustomID()); err == nil {
			return id.Domain + ":" + id.Action
		}
		return "unknown"
	}
	return "unknown"
}

// InteractionType is a short name of the interaction kind
func (ic *InteractionContext) InteractionType() string {
	switch {
	case ic.IsCommand():
		return "command"
	case ic.IsComponent():
		return "component"
	case ic.IsModal():
		return "modal"
	}
	return "unknown"
}

// WithValue adds a value to the context
func (ic *InteractionContext) WithValue(key, val any) {
	ic.Context = context.WithValue(ic.Context, key, val)
}

// Value retrieves a value from the context
func (ic *InteractionContext) Value(key any) any {
	return ic.Context.Value(key)
}

type responderKey struct{}

// WithResponder attaches the responder so middleware can defer
func (ic *InteractionContext) WithResponder(r InteractionResponder) {
	ic.WithValue(responderKey{}, r)
}

// Responder returns the attached responder, if any
func (ic *InteractionContext) Responder() (InteractionResponder, bool) {
	r, ok := ic.Value(responderKey{}).(InteractionResponder)
	return r, ok
}
