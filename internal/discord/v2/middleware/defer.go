package middleware

import (
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
)

// DeferConfig configures the defer middleware
type DeferConfig struct {
	// AlwaysDefer defers before the handler runs
	AlwaysDefer bool

	// Ephemeral marks deferred command replies as ephemeral
	Ephemeral bool

	// DeferAfter defers if the handler has not returned in time; 0 disables
	DeferAfter time.Duration

	// SkipDeferFor lists interactions that must answer directly, such as
	// buttons that open a modal
	SkipDeferFor []DeferSkipRule

	Logger *zap.Logger
}

// DeferSkipRule matches a domain and an action, "*" matching any action
type DeferSkipRule struct {
	Domain string
	Action string
}

// DefaultDeferConfig defers after two seconds since Discord drops replies after three
func DefaultDeferConfig() *DeferConfig {
	return &DeferConfig{
		Ephemeral:  true,
		DeferAfter: 2 * time.Second,
	}
}

// DeferMiddleware acknowledges slow interactions before Discord's deadline
func DeferMiddleware(config *DeferConfig) core.Middleware {
	if config == nil {
		config = DefaultDeferConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			responder, ok := ctx.Responder()
			if !ok || shouldSkipDefer(ctx, config) {
				return next.Handle(ctx)
			}

			if config.AlwaysDefer {
				if err := responder.Defer(config.Ephemeral); err != nil {
					logger.Warn("failed to defer interaction", zap.Error(err), zap.String("route", ctx.Route()))
				}
				result, err := next.Handle(ctx)
				if result != nil {
					result.Deferred = responder.IsDeferred()
				}
				return result, err
			}

			if config.DeferAfter <= 0 {
				return next.Handle(ctx)
			}

			type handlerResponse struct {
				result *core.HandlerResult
				err    error
			}
			done := make(chan handlerResponse, 1)
			go func() {
				result, err := next.Handle(ctx)
				done <- handlerResponse{result, err}
			}()

			timer := time.NewTimer(config.DeferAfter)
			defer timer.Stop()

			select {
			case resp := <-done:
				return resp.result, resp.err
			case <-timer.C:
				if err := responder.Defer(config.Ephemeral); err != nil {
					logger.Warn("failed to defer interaction after timeout", zap.Error(err), zap.String("route", ctx.Route()))
				}
				resp := <-done
				if resp.result != nil {
					resp.result.Deferred = responder.IsDeferred()
				}
				return resp.result, resp.err
			}
		})
	}
}

func shouldSkipDefer(ctx *core.InteractionContext, config *DeferConfig) bool {
	var domain, action string
	switch {
	case ctx.IsCommand():
		domain, action = ctx.GetCommandName(), ctx.GetSubcommand()
	case ctx.IsComponent(), ctx.IsModal():
		customID, err := core.ParseCustomID(ctx.GetCustomID())
		if err != nil {
			return false
		}
		domain, action = customID.Domain, customID.Action
	default:
		return false
	}

	for _, rule := range config.SkipDeferFor {
		if rule.Domain == domain && (rule.Action == "*" || rule.Action == action) {
			return true
		}
	}
	return false
}
