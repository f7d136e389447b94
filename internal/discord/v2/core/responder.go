package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// InteractionAPI is the part of *discordgo.Session used to answer interactions
type InteractionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// InteractionResponder provides an abstraction over Discord's interaction response API
type InteractionResponder interface {
	// Defer acknowledges the interaction so the answer can take longer than
	// three seconds. Component clicks defer as a message update.
	Defer(ephemeral bool) error

	// Respond sends the initial response
	Respond(response *Response) error

	// Edit updates the response after Defer or Respond
	Edit(response *Response) error

	// FollowUp sends an additional message after the initial response
	FollowUp(response *Response) (*discordgo.Message, error)

	HasResponded() bool
	IsDeferred() bool
}

// DiscordResponder implements InteractionResponder using Discord's API
type DiscordResponder struct {
	api         InteractionAPI
	interaction *discordgo.InteractionCreate
	responded   bool
	deferred    bool
}

// NewDiscordResponder creates a new Discord responder
func NewDiscordResponder(api InteractionAPI, i *discordgo.InteractionCreate) *DiscordResponder {
	return &DiscordResponder{
		api:         api,
		interaction: i,
	}
}

// updatesMessage is true for clicks and for modals opened from a message,
// which can both replace the message in place
func (r *DiscordResponder) updatesMessage() bool {
	switch r.interaction.Type {
	case discordgo.InteractionMessageComponent:
		return true
	case discordgo.InteractionModalSubmit:
		return r.interaction.Message != nil
	}
	return false
}

// Defer sends a deferred response
func (r *DiscordResponder) Defer(ephemeral bool) error {
	if r.responded {
		return fmt.Errorf("interaction already responded to")
	}

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if r.updatesMessage() {
		resp.Type = discordgo.InteractionResponseDeferredMessageUpdate
	} else if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}

	if err := r.api.InteractionRespond(r.interaction.Interaction, resp); err != nil {
		return err
	}
	r.deferred = true
	r.responded = true
	return nil
}

// Respond sends an immediate response
func (r *DiscordResponder) Respond(response *Response) error {
	if r.responded {
		return r.Edit(response)
	}

	var resp *discordgo.InteractionResponse
	switch {
	case response.Modal != nil:
		resp = &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: &discordgo.InteractionResponseData{
				CustomID:   response.Modal.CustomID,
				Title:      response.Modal.Title,
				Components: response.Modal.Components,
			},
		}
	case response.Update && r.updatesMessage():
		resp = &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: r.buildResponseData(response),
		}
	default:
		resp = &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: r.buildResponseData(response),
		}
	}

	if err := r.api.InteractionRespond(r.interaction.Interaction, resp); err != nil {
		return err
	}
	r.responded = true
	return nil
}

// Edit updates a previous response
func (r *DiscordResponder) Edit(response *Response) error {
	if !r.responded {
		return fmt.Errorf("cannot edit before responding")
	}
	if response.Modal != nil {
		return fmt.Errorf("cannot show a modal after the interaction was acknowledged")
	}

	content := response.Content
	embeds := response.Embeds
	components := response.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	_, err := r.api.InteractionResponseEdit(r.interaction.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

// FollowUp sends an additional message after the initial response
func (r *DiscordResponder) FollowUp(response *Response) (*discordgo.Message, error) {
	if !r.responded {
		return nil, fmt.Errorf("cannot follow up before responding")
	}

	params := &discordgo.WebhookParams{
		Content:    response.Content,
		Embeds:     response.Embeds,
		Components: response.Components,
	}
	if response.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.api.FollowupMessageCreate(r.interaction.Interaction, true, params)
}

func (r *DiscordResponder) buildResponseData(response *Response) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:    response.Content,
		Embeds:     response.Embeds,
		Components: response.Components,
	}
	if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

// HasResponded returns whether this responder has already sent a response
func (r *DiscordResponder) HasResponded() bool {
	return r.responded
}

// IsDeferred returns whether this responder has sent a deferred response
func (r *DiscordResponder) IsDeferred() bool {
	return r.deferred
}
