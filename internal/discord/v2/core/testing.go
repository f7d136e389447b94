package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// TestInteractionContext builds an InteractionContext without a live gateway
type TestInteractionContext struct {
	*InteractionContext
}

// NewTestInteractionContext creates a test interaction context
func NewTestInteractionContext() *TestInteractionContext {
	return &TestInteractionContext{
		InteractionContext: &InteractionContext{
			Context: context.Background(),
			UserID:  "test-user-123",
			GuildID: "test-guild-123",
			params:  make(map[string]any),
		},
	}
}

// WithParam adds a parameter for testing
func (t *TestInteractionContext) WithParam(key string, value any) *TestInteractionContext {
	t.params[key] = value
	return t
}

// WithUserID sets the user ID
func (t *TestInteractionContext) WithUserID(userID string) *TestInteractionContext {
	t.UserID = userID
	if t.Interaction != nil {
		t.Interaction.Member = &discordgo.Member{User: &discordgo.User{ID: userID}}
	}
	return t
}

// WithGuildID sets the guild ID
func (t *TestInteractionContext) WithGuildID(guildID string) *TestInteractionContext {
	t.GuildID = guildID
	return t
}

// WithContext replaces the request context
func (t *TestInteractionContext) WithContext(ctx context.Context) *TestInteractionContext {
	t.Context = ctx
	return t
}

func (t *TestInteractionContext) interaction(typ discordgo.InteractionType, data discordgo.InteractionData) {
	t.Interaction = &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    typ,
			Data:    data,
			GuildID: t.GuildID,
			Member:  &discordgo.Member{User: &discordgo.User{ID: t.UserID}},
		},
	}
}

// AsCommand simulates a command interaction
func (t *TestInteractionContext) AsCommand(name string, subcommand ...string) *TestInteractionContext {
	t.interaction(discordgo.InteractionApplicationCommand, discordgo.ApplicationCommandInteractionData{
		Name: name,
	})
	if len(subcommand) > 0 {
		t.params["subcommand"] = subcommand[0]
	}
	return t
}

// AsComponent simulates a component interaction
func (t *TestInteractionContext) AsComponent(customID string) *TestInteractionContext {
	t.interaction(discordgo.InteractionMessageComponent, discordgo.MessageComponentInteractionData{
		CustomID:      customID,
		ComponentType: discordgo.ButtonComponent,
	})
	return t
}

// WithMessageButtons attaches the message the clicked component lives on,
// one row of buttons keyed by custom ID with the given labels
func (t *TestInteractionContext) WithMessageButtons(labels map[string]string) *TestInteractionContext {
	row := discordgo.ActionsRow{}
	for id, label := range labels {
		row.Components = append(row.Components, discordgo.Button{CustomID: id, Label: label})
	}
	if t.Interaction != nil {
		t.Interaction.Message = &discordgo.Message{
			Components: []discordgo.MessageComponent{row},
		}
	}
	return t
}

// AsModal simulates a modal submission with text input values by custom ID
func (t *TestInteractionContext) AsModal(customID string, values map[string]string) *TestInteractionContext {
	t.interaction(discordgo.InteractionModalSubmit, discordgo.ModalSubmitInteractionData{
		CustomID: customID,
	})
	for k, v := range values {
		t.params[k] = v
	}
	return t
}

// MockResponder is a test implementation of InteractionResponder
type MockResponder struct {
	DeferCalls   []bool
	Responses    []*Response
	Edits        []*Response
	FollowUps    []*Response
	DeferError   error
	RespondError error
	EditError    error
	Deferred     bool
	Responded    bool
}

// NewMockResponder creates a new mock responder
func NewMockResponder() *MockResponder {
	return &MockResponder{}
}

func (m *MockResponder) Defer(ephemeral bool) error {
	m.DeferCalls = append(m.DeferCalls, ephemeral)
	if m.DeferError != nil {
		return m.DeferError
	}
	m.Deferred = true
	m.Responded = true
	return nil
}

func (m *MockResponder) Respond(response *Response) error {
	m.Responses = append(m.Responses, response)
	if m.RespondError != nil {
		return m.RespondError
	}
	m.Responded = true
	return nil
}

func (m *MockResponder) Edit(response *Response) error {
	m.Edits = append(m.Edits, response)
	return m.EditError
}

func (m *MockResponder) FollowUp(response *Response) (*discordgo.Message, error) {
	m.FollowUps = append(m.FollowUps, response)
	return &discordgo.Message{ID: "test-message-123"}, nil
}

func (m *MockResponder) HasResponded() bool {
	return m.Responded
}

func (m *MockResponder) IsDeferred() bool {
	return m.Deferred
}

// LastResponse returns the last response sent by any method
func (m *MockResponder) LastResponse() *Response {
	switch {
	case len(m.FollowUps) > 0:
		return m.FollowUps[len(m.FollowUps)-1]
	case len(m.Edits) > 0:
		return m.Edits[len(m.Edits)-1]
	case len(m.Responses) > 0:
		return m.Responses[len(m.Responses)-1]
	}
	return nil
}
