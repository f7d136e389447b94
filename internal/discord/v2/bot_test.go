package v2_test

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockcompletion "github.com/KirkDiggler/charcraft/internal/clients/completion/mock"
	v2 "github.com/KirkDiggler/charcraft/internal/discord/v2"
	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
	"github.com/KirkDiggler/charcraft/internal/discord/v2/middleware"
	"github.com/KirkDiggler/charcraft/internal/services"
)

const userID = "user-42"

func setupBot(t *testing.T, dailyLimit int) (*v2.Bot, *mockcompletion.MockClient, *services.Provider) {
	ctrl := gomock.NewController(t)
	client := mockcompletion.NewMockClient(ctrl)

	provider := services.NewProvider(&services.ProviderConfig{
		Completion: client,
		Quota:      services.QuotaSettings{DailyLimit: dailyLimit},
	})

	bot, err := v2.Setup(provider, &v2.Config{})
	require.NoError(t, err)
	return bot, client, provider
}

func dispatch(t *testing.T, bot *v2.Bot, ctx *core.TestInteractionContext) *core.Response {
	responder := core.NewMockResponder()
	require.NoError(t, bot.Pipeline().Dispatch(ctx.InteractionContext, responder))
	resp := responder.LastResponse()
	require.NotNil(t, resp)
	return resp
}

func firstRowIDs(resp *core.Response) []string {
	var ids []string
	if len(resp.Components) == 0 {
		return ids
	}
	for _, c := range resp.Components[0].(discordgo.ActionsRow).Components {
		ids = append(ids, c.(discordgo.Button).CustomID)
	}
	return ids
}

func TestBot_WizardFlow(t *testing.T) {
	bot, client, provider := setupBot(t, 10)

	resp := dispatch(t, bot, core.NewTestInteractionContext().WithUserID(userID).AsCommand("character", "start"))
	assert.True(t, resp.Ephemeral)
	assert.Equal(t, []string{"character:propose:name", "character:custom:name"}, firstRowIDs(resp))

	client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("選択肢1: アリア\n選択肢2: ルナ\n選択肢3: ミオ\nどれも素敵です", nil)

	resp = dispatch(t, bot, core.NewTestInteractionContext().WithUserID(userID).AsComponent("character:propose:name"))
	require.True(t, resp.Update)
	assert.Equal(t, []string{
		"character:choose:name:0",
		"character:choose:name:1",
		"character:choose:name:2",
	}, firstRowIDs(resp))

	client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("ルナ、いい名前！次は年齢だね", nil)

	choose := core.NewTestInteractionContext().
		WithUserID(userID).
		AsComponent("character:choose:name:1").
		WithMessageButtons(map[string]string{
			"character:choose:name:0": "アリア",
			"character:choose:name:1": "ルナ",
		})
	resp = dispatch(t, bot, choose)
	assert.Contains(t, resp.Embeds[0].Description, "ルナ、いい名前")
	assert.Equal(t, []string{"character:propose:age", "character:custom:age"}, firstRowIDs(resp))

	view, err := provider.CreationService.GetSession(choose.Context, userID)
	require.NoError(t, err)
	assert.Equal(t, "ルナ", view.Session.Draft.Value("name"))
	assert.Equal(t, "age", view.Session.CurrentFieldKey)
}

func TestBot_CustomButtonOpensModal(t *testing.T) {
	bot, _, _ := setupBot(t, 10)
	dispatch(t, bot, core.NewTestInteractionContext().WithUserID(userID).AsCommand("character", "start"))

	responder := core.NewMockResponder()
	ctx := core.NewTestInteractionContext().WithUserID(userID).AsComponent("character:custom:name")
	require.NoError(t, bot.Pipeline().Dispatch(ctx.InteractionContext, responder))

	assert.Empty(t, responder.DeferCalls)
	require.Len(t, responder.Responses, 1)
	require.NotNil(t, responder.Responses[0].Modal)
	assert.Equal(t, "character:custom_submit:name", responder.Responses[0].Modal.CustomID)
}

func TestBot_QuotaExceeded(t *testing.T) {
	bot, client, _ := setupBot(t, 1)
	dispatch(t, bot, core.NewTestInteractionContext().WithUserID(userID).AsCommand("character", "start"))

	client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("選択肢1: アリア\n選択肢2: ルナ", nil).Times(1)

	dispatch(t, bot, core.NewTestInteractionContext().WithUserID(userID).AsComponent("character:propose:name"))
	resp := dispatch(t, bot, core.NewTestInteractionContext().WithUserID(userID).AsComponent("character:propose:name"))

	assert.True(t, resp.Ephemeral)
	assert.Equal(t, fmt.Sprintf(middleware.QuotaExceededMessage, 1), resp.Content)
}

func TestBot_StaleButtonWithoutSession(t *testing.T) {
	bot, _, _ := setupBot(t, 10)

	resp := dispatch(t, bot, core.NewTestInteractionContext().WithUserID(userID).AsComponent("character:propose:name"))

	assert.True(t, resp.Ephemeral)
	assert.Contains(t, resp.Content, "/character start")
}

func TestBot_UnknownCommand(t *testing.T) {
	bot, _, _ := setupBot(t, 10)

	resp := dispatch(t, bot, core.NewTestInteractionContext().WithUserID(userID).AsCommand("dnd", "roll"))
	assert.Equal(t, core.NoHandlerMessage, resp.Content)
}

type fakeRegistrar struct {
	appID    string
	guildID  string
	commands []*discordgo.ApplicationCommand
	err      error
}

func (f *fakeRegistrar) ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.appID, f.guildID, f.commands = appID, guildID, commands
	return commands, f.err
}

func TestBot_RegisterCommands(t *testing.T) {
	bot, _, _ := setupBot(t, 10)
	registrar := &fakeRegistrar{}

	require.NoError(t, bot.RegisterCommands(registrar, "app-1", "guild-1"))

	assert.Equal(t, "app-1", registrar.appID)
	assert.Equal(t, "guild-1", registrar.guildID)
	require.Len(t, registrar.commands, 1)
	assert.Equal(t, "character", registrar.commands[0].Name)
	assert.Len(t, registrar.commands[0].Options, 4)

	registrar.err = fmt.Errorf("missing access")
	assert.Error(t, bot.RegisterCommands(registrar, "app-1", ""))
}

func TestSetup_RequiresCreationService(t *testing.T) {
	_, err := v2.Setup(services.NewProvider(nil), nil)
	assert.Error(t, err)
}
