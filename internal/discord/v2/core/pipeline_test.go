package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockHandler struct {
	canHandle bool
	result    *HandlerResult
	err       error
	called    bool
}

func (m *MockHandler) CanHandle(ctx *InteractionContext) bool {
	return m.canHandle
}

func (m *MockHandler) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	m.called = true
	return m.result, m.err
}

func commandContext() *InteractionContext {
	return NewTestInteractionContext().
		WithUserID("test-user").
		AsCommand("test").
		InteractionContext
}

func TestPipeline_Register(t *testing.T) {
	pipeline := NewPipeline(nil)
	pipeline.Register(&MockHandler{}, &MockHandler{})

	assert.Equal(t, 2, pipeline.HandlerCount())
}

func TestPipeline_Dispatch_StopOnFirst(t *testing.T) {
	pipeline := NewPipeline(nil)
	responder := NewMockResponder()

	first := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("1")}}
	second := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("2")}}
	pipeline.Register(first, second)

	require.NoError(t, pipeline.Dispatch(commandContext(), responder))

	assert.True(t, first.called)
	assert.False(t, second.called)
	require.Len(t, responder.Responses, 1)
	assert.Equal(t, "1", responder.Responses[0].Content)
}

func TestPipeline_Dispatch_SkipsHandlersThatCannotHandle(t *testing.T) {
	pipeline := NewPipeline(nil)
	responder := NewMockResponder()

	skipped := &MockHandler{canHandle: false}
	used := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("ok")}}
	pipeline.Register(skipped, used)

	require.NoError(t, pipeline.Dispatch(commandContext(), responder))

	assert.False(t, skipped.called)
	assert.True(t, used.called)
}

func TestPipeline_Dispatch_StopPropagation(t *testing.T) {
	pipeline := NewPipeline(nil)
	pipeline.SetStopOnFirst(false)
	responder := NewMockResponder()

	first := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("1"), StopPropagation: true}}
	second := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("2")}}
	pipeline.Register(first, second)

	require.NoError(t, pipeline.Dispatch(commandContext(), responder))

	assert.True(t, first.called)
	assert.False(t, second.called)
}

func TestPipeline_Dispatch_ContinueOnMultiple(t *testing.T) {
	pipeline := NewPipeline(nil)
	pipeline.SetStopOnFirst(false)
	responder := NewMockResponder()

	first := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("1")}}
	second := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("2")}}
	pipeline.Register(first, second)

	require.NoError(t, pipeline.Dispatch(commandContext(), responder))

	assert.True(t, second.called)
	assert.Len(t, responder.Responses, 2)
}

func TestPipeline_Dispatch_DefaultErrorHandler(t *testing.T) {
	t.Run("handler error shown to user", func(t *testing.T) {
		pipeline := NewPipeline(nil)
		responder := NewMockResponder()
		pipeline.Register(&MockHandler{canHandle: true, err: NewValidationError("だめです")})

		require.NoError(t, pipeline.Dispatch(commandContext(), responder))

		require.Len(t, responder.Responses, 1)
		assert.Equal(t, "だめです", responder.Responses[0].Content)
		assert.True(t, responder.Responses[0].Ephemeral)
	})

	t.Run("wrapped handler error", func(t *testing.T) {
		pipeline := NewPipeline(nil)
		responder := NewMockResponder()
		pipeline.Register(&MockHandler{canHandle: true, err: fmt.Errorf("outer: %w", NewNotFoundError("セッション"))})

		require.NoError(t, pipeline.Dispatch(commandContext(), responder))

		assert.Equal(t, "セッションが見つかりません。", responder.LastResponse().Content)
	})

	t.Run("plain error gets the generic message", func(t *testing.T) {
		pipeline := NewPipeline(nil)
		responder := NewMockResponder()
		pipeline.Register(&MockHandler{canHandle: true, err: errors.New("boom")})

		require.NoError(t, pipeline.Dispatch(commandContext(), responder))

		assert.Equal(t, GenericErrorMessage, responder.LastResponse().Content)
	})
}

func TestPipeline_Dispatch_CustomErrorHandler(t *testing.T) {
	pipeline := NewPipeline(nil)
	responder := NewMockResponder()
	testErr := errors.New("test error")

	var got error
	pipeline.SetErrorHandler(func(ctx *InteractionContext, err error) *HandlerResult {
		got = err
		return &HandlerResult{Response: NewEphemeralResponse("custom")}
	})
	pipeline.Register(&MockHandler{canHandle: true, err: testErr})

	require.NoError(t, pipeline.Dispatch(commandContext(), responder))

	assert.Equal(t, testErr, got)
	assert.Equal(t, "custom", responder.LastResponse().Content)
}

func TestPipeline_Dispatch_NoHandler(t *testing.T) {
	pipeline := NewPipeline(nil)
	responder := NewMockResponder()
	pipeline.Register(&MockHandler{canHandle: false})

	require.NoError(t, pipeline.Dispatch(commandContext(), responder))

	require.Len(t, responder.Responses, 1)
	assert.Equal(t, NoHandlerMessage, responder.Responses[0].Content)
	assert.True(t, responder.Responses[0].Ephemeral)
}

func TestPipeline_Dispatch_DeferredUsesEdit(t *testing.T) {
	pipeline := NewPipeline(nil)
	responder := NewMockResponder()
	pipeline.Register(HandlerFunc(func(ctx *InteractionContext) (*HandlerResult, error) {
		r, ok := ctx.Responder()
		require.True(t, ok)
		require.NoError(t, r.Defer(true))
		return &HandlerResult{Response: NewResponse("done")}, nil
	}))

	require.NoError(t, pipeline.Dispatch(commandContext(), responder))

	assert.Empty(t, responder.Responses)
	require.Len(t, responder.Edits, 1)
	assert.Equal(t, "done", responder.Edits[0].Content)
}

func TestPipeline_Dispatch_DeferredComponentErrorIsFollowUp(t *testing.T) {
	pipeline := NewPipeline(nil)
	responder := NewMockResponder()
	responder.Deferred = true
	responder.Responded = true
	pipeline.Register(&MockHandler{canHandle: true, err: NewValidationError("選択肢が見つかりません。")})

	ic := NewTestInteractionContext().AsComponent("character:choose:name:0").InteractionContext
	require.NoError(t, pipeline.Dispatch(ic, responder))

	assert.Empty(t, responder.Edits)
	require.Len(t, responder.FollowUps, 1)
	assert.True(t, responder.FollowUps[0].Ephemeral)
}

func TestPipeline_Dispatch_SendFailure(t *testing.T) {
	pipeline := NewPipeline(nil)
	responder := NewMockResponder()
	responder.RespondError = errors.New("discord down")
	pipeline.Register(&MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("x")}})

	err := pipeline.Dispatch(commandContext(), responder)
	assert.ErrorContains(t, err, "discord down")
}

func TestPipeline_Middleware(t *testing.T) {
	pipeline := NewPipeline(nil)
	var order []string

	trace := func(name string) Middleware {
		return func(next Handler) Handler {
			return HandlerFunc(func(ctx *InteractionContext) (*HandlerResult, error) {
				order = append(order, name+"_before")
				result, err := next.Handle(ctx)
				order = append(order, name+"_after")
				return result, err
			})
		}
	}

	pipeline.Use(trace("middleware1"), trace("middleware2"))
	pipeline.Register(HandlerFunc(func(ctx *InteractionContext) (*HandlerResult, error) {
		order = append(order, "handler")
		return &HandlerResult{Response: NewResponse("test")}, nil
	}))

	require.NoError(t, pipeline.Dispatch(commandContext(), NewMockResponder()))

	assert.Equal(t, []string{
		"middleware1_before",
		"middleware2_before",
		"handler",
		"middleware2_after",
		"middleware1_after",
	}, order)
}

func TestPipeline_Clear(t *testing.T) {
	pipeline := NewPipeline(nil)
	pipeline.Register(&MockHandler{})
	assert.Equal(t, 1, pipeline.HandlerCount())

	pipeline.Clear()
	assert.Equal(t, 0, pipeline.HandlerCount())
}

type fakeAPI struct {
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followUps []*discordgo.WebhookParams
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, params *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followUps = append(f.followUps, params)
	return &discordgo.Message{}, nil
}

func TestDiscordResponder(t *testing.T) {
	component := NewTestInteractionContext().AsComponent("character:choose:name:0").Interaction
	command := NewTestInteractionContext().AsCommand("character", "start").Interaction

	t.Run("ephemeral command reply", func(t *testing.T) {
		api := &fakeAPI{}
		r := NewDiscordResponder(api, command)

		require.NoError(t, r.Respond(NewEphemeralResponse("hi")))

		require.Len(t, api.responses, 1)
		assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, api.responses[0].Type)
		assert.Equal(t, discordgo.MessageFlagsEphemeral, api.responses[0].Data.Flags)
		assert.True(t, r.HasResponded())
	})

	t.Run("update on component", func(t *testing.T) {
		api := &fakeAPI{}
		r := NewDiscordResponder(api, component)

		require.NoError(t, r.Respond(NewResponse("next").AsUpdate()))

		assert.Equal(t, discordgo.InteractionResponseUpdateMessage, api.responses[0].Type)
	})

	t.Run("modal", func(t *testing.T) {
		api := &fakeAPI{}
		r := NewDiscordResponder(api, component)

		require.NoError(t, r.Respond(NewModalResponse(&Modal{CustomID: "character:custom_submit:name", Title: "名前"})))

		assert.Equal(t, discordgo.InteractionResponseModal, api.responses[0].Type)
		assert.Equal(t, "character:custom_submit:name", api.responses[0].Data.CustomID)
	})

	t.Run("component defer updates the message", func(t *testing.T) {
		api := &fakeAPI{}
		r := NewDiscordResponder(api, component)

		require.NoError(t, r.Defer(true))

		assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, api.responses[0].Type)
		assert.True(t, r.IsDeferred())
		assert.Error(t, r.Defer(true))
	})

	t.Run("command defer then edit", func(t *testing.T) {
		api := &fakeAPI{}
		r := NewDiscordResponder(api, command)

		require.NoError(t, r.Defer(true))
		require.NoError(t, r.Respond(NewResponse("done")))

		assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, api.responses[0].Type)
		require.Len(t, api.edits, 1)
		assert.Equal(t, "done", *api.edits[0].Content)
	})

	t.Run("follow up and edit need a response first", func(t *testing.T) {
		r := NewDiscordResponder(&fakeAPI{}, command)

		_, err := r.FollowUp(NewResponse("x"))
		assert.Error(t, err)
		assert.Error(t, r.Edit(NewResponse("x")))
	})

	t.Run("ephemeral follow up", func(t *testing.T) {
		api := &fakeAPI{}
		r := NewDiscordResponder(api, component)
		require.NoError(t, r.Defer(false))

		_, err := r.FollowUp(NewEphemeralResponse("oops"))
		require.NoError(t, err)
		assert.Equal(t, discordgo.MessageFlagsEphemeral, api.followUps[0].Flags)
	})
}
