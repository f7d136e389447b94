package handlers

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
	"github.com/KirkDiggler/charcraft/internal/fields"
	"github.com/KirkDiggler/charcraft/internal/services/creation"
)

// WizardHandler serves the /character command and the wizard's buttons
type WizardHandler struct {
	service  creation.Service
	registry *fields.Registry
	views    *views
	logger   *zap.Logger
}

// WizardHandlerConfig holds the configuration
type WizardHandlerConfig struct {
	Service         creation.Service
	Registry        *fields.Registry
	CustomIDBuilder *core.CustomIDBuilder
	Logger          *zap.Logger
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(cfg *WizardHandlerConfig) (*WizardHandler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Service == nil {
		return nil, fmt.Errorf("service is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}

	ids := cfg.CustomIDBuilder
	if ids == nil {
		ids = core.NewCustomIDBuilder("character")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WizardHandler{
		service:  cfg.Service,
		registry: cfg.Registry,
		views:    &views{registry: cfg.Registry, ids: ids},
		logger:   logger,
	}, nil
}

// Start handles /character start
func (h *WizardHandler) Start(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	result, err := h.service.Start(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	return &core.HandlerResult{Response: h.views.started(result)}, nil
}

// Status handles /character status
func (h *WizardHandler) Status(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	view, err := h.service.GetSession(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}

	usage, err := h.service.GetUsage(ctx.Context, ctx.UserID)
	if err != nil {
		// the status view is still useful without the footer
		h.logger.Warn("failed to load usage", zap.Error(err), zap.String("user_id", ctx.UserID))
		usage = nil
	}

	return &core.HandlerResult{Response: h.views.status(view, usage)}, nil
}

// Reset handles /character reset
func (h *WizardHandler) Reset(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	if err := h.service.ResetSession(ctx.Context, ctx.UserID); err != nil {
		return nil, err
	}
	return &core.HandlerResult{Response: core.NewEphemeralResponse(resetText)}, nil
}

// List handles /character list
func (h *WizardHandler) List(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	characters, err := h.service.ListCharacters(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	return &core.HandlerResult{Response: h.views.characterList(characters)}, nil
}

// Propose handles the candidate buttons, asking for fresh options for a field
func (h *WizardHandler) Propose(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	field, err := h.fieldFromCustomID(ctx)
	if err != nil {
		return nil, err
	}

	view, err := h.activeSession(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.service.ProposeChoices(ctx.Context, ctx.UserID, field.Key, view.Session.Draft)
	if err != nil {
		return nil, err
	}
	return &core.HandlerResult{Response: h.views.proposal(result)}, nil
}

// Choose handles a click on one of the proposed options
func (h *WizardHandler) Choose(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	field, err := h.fieldFromCustomID(ctx)
	if err != nil {
		return nil, err
	}

	value, ok := ctx.ClickedButtonLabel()
	if !ok || strings.TrimSpace(value) == "" {
		return nil, core.NewValidationError("選択肢が見つかりませんでした。もう一度提案してください。")
	}

	return h.accept(ctx, field, value)
}

// Custom opens the free text modal for a field
func (h *WizardHandler) Custom(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	field, err := h.fieldFromCustomID(ctx)
	if err != nil {
		return nil, err
	}
	return &core.HandlerResult{Response: h.views.customModal(field)}, nil
}

// CustomSubmit accepts the text typed into the modal
func (h *WizardHandler) CustomSubmit(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	field, err := h.fieldFromCustomID(ctx)
	if err != nil {
		return nil, err
	}

	value := strings.TrimSpace(ctx.GetStringParam(ModalValueInput))
	if value == "" {
		return nil, core.NewValidationError(fmt.Sprintf("「%s」を入力してください。", field.Label))
	}

	return h.accept(ctx, field, value)
}

func (h *WizardHandler) accept(ctx *core.InteractionContext, field fields.FieldDefinition, value string) (*core.HandlerResult, error) {
	view, err := h.activeSession(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.service.AcceptChoice(ctx.Context, ctx.UserID, field.Key, value, view.Session.Draft)
	if err != nil {
		return nil, err
	}

	if result.Completed {
		h.logger.Info("character completed",
			zap.String("user_id", ctx.UserID),
			zap.String("character_id", characterID(result)))
	}
	return &core.HandlerResult{Response: h.views.accepted(result)}, nil
}

func characterID(result *creation.AcceptResult) string {
	if result.Character == nil {
		return ""
	}
	return result.Character.ID
}

// activeSession loads the stored draft; buttons from a reset session get a hint
func (h *WizardHandler) activeSession(ctx *core.InteractionContext) (*creation.SessionView, error) {
	view, err := h.service.GetSession(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	if !view.HasSession {
		return nil, core.NewHandlerError(nil, noSessionText, core.ErrorCodeNotFound)
	}
	return view, nil
}

func (h *WizardHandler) fieldFromCustomID(ctx *core.InteractionContext) (fields.FieldDefinition, error) {
	customID, err := core.ParseCustomID(ctx.GetCustomID())
	if err != nil {
		return fields.FieldDefinition{}, core.NewValidationError("ボタンの情報が読み取れませんでした。")
	}
	field, err := h.registry.ByKey(customID.Target)
	if err != nil {
		return fields.FieldDefinition{}, core.NewValidationError("不明な項目です。`/character status` で確認してください。")
	}
	return field, nil
}
