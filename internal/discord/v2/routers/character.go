package routers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
	"github.com/KirkDiggler/charcraft/internal/discord/v2/handlers"
	"github.com/KirkDiggler/charcraft/internal/services"
)

// CharacterDomain is the slash command name and custom ID domain
const CharacterDomain = "character"

// CharacterRouter handles all character-related interactions
type CharacterRouter struct {
	router *core.Router
	wizard *handlers.WizardHandler
}

// NewCharacterRouter creates the router and registers it with the pipeline
func NewCharacterRouter(pipeline *core.Pipeline, provider *services.Provider, logger *zap.Logger) (*CharacterRouter, error) {
	if provider == nil || provider.CreationService == nil {
		return nil, fmt.Errorf("creation service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := core.NewRouter(CharacterDomain, pipeline)

	wizard, err := handlers.NewWizardHandler(&handlers.WizardHandlerConfig{
		Service:         provider.CreationService,
		Registry:        provider.Registry,
		CustomIDBuilder: router.CustomIDs(),
		Logger:          logger.Named("wizard"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create wizard handler: %w", err)
	}

	cr := &CharacterRouter{
		router: router,
		wizard: wizard,
	}
	cr.registerRoutes()
	router.Register()

	return cr, nil
}

func (r *CharacterRouter) registerRoutes() {
	r.router.SubcommandFunc("start", r.wizard.Start)
	r.router.SubcommandFunc("status", r.wizard.Status)
	r.router.SubcommandFunc("reset", r.wizard.Reset)
	r.router.SubcommandFunc("list", r.wizard.List)

	r.router.ComponentFunc(handlers.ActionPropose, r.wizard.Propose)
	r.router.ComponentFunc(handlers.ActionChoose, r.wizard.Choose)
	r.router.ComponentFunc(handlers.ActionCustom, r.wizard.Custom)

	r.router.ModalFunc(handlers.ActionCustomSubmit, r.wizard.CustomSubmit)
}

// CharacterCommand is the /character application command definition
func CharacterCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        CharacterDomain,
		Description: "AIと一緒にキャラクターを作成します",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "start",
				Description: "新しいキャラクター作成を始めます（進行中の作成は破棄されます）",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "status",
				Description: "作成中のキャラクターの進捗を表示します",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "reset",
				Description: "作成中のキャラクターを破棄します",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "完成したキャラクターの一覧を表示します",
			},
		},
	}
}
