package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// NoHandlerMessage is sent when nothing in the pipeline matched
const NoHandlerMessage = "このコマンドには対応していません。"

// Pipeline manages handler registration and execution
type Pipeline struct {
	handlers []Handler

	// Middleware to apply to all handlers registered after Use
	middleware []Middleware

	errorHandler ErrorHandler

	// Whether to stop on first handler that can handle
	stopOnFirst bool

	logger *zap.Logger

	mu sync.RWMutex
}

// Middleware is a function that wraps a handler
type Middleware func(Handler) Handler

// ErrorHandler handles errors that occur during pipeline execution
type ErrorHandler func(ctx *InteractionContext, err error) *HandlerResult

// NewPipeline creates a new handler pipeline
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		handlers:     make([]Handler, 0),
		middleware:   make([]Middleware, 0),
		errorHandler: defaultErrorHandler,
		stopOnFirst:  true,
		logger:       logger,
	}
}

// Register adds handlers to the pipeline
func (p *Pipeline) Register(handlers ...Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range handlers {
		wrapped := h
		for i := len(p.middleware) - 1; i >= 0; i-- {
			wrapped = p.middleware[i](wrapped)
		}
		p.handlers = append(p.handlers, wrapped)
	}
}

// Use adds middleware to the pipeline
func (p *Pipeline) Use(middleware ...Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.middleware = append(p.middleware, middleware...)
}

// SetErrorHandler sets a custom error handler
func (p *Pipeline) SetErrorHandler(handler ErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errorHandler = handler
}

// SetStopOnFirst configures whether to stop after the first handler that can handle
func (p *Pipeline) SetStopOnFirst(stop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopOnFirst = stop
}

// Execute runs the pipeline for an interaction
func (p *Pipeline) Execute(ctx context.Context, api InteractionAPI, i *discordgo.InteractionCreate) error {
	ic := NewInteractionContext(ctx, i)
	responder := NewDiscordResponder(api, i)
	return p.Dispatch(ic, responder)
}

// Dispatch runs the handlers against an already built context and responder
func (p *Pipeline) Dispatch(ic *InteractionContext, responder InteractionResponder) error {
	ic.WithResponder(responder)

	p.mu.RLock()
	handlers := make([]Handler, len(p.handlers))
	copy(handlers, p.handlers)
	stopOnFirst := p.stopOnFirst
	errorHandler := p.errorHandler
	p.mu.RUnlock()

	p.logger.Debug("dispatching interaction",
		zap.String("route", ic.Route()),
		zap.String("type", ic.InteractionType()),
		zap.Int("handlers", len(handlers)))

	handled := false
	for _, handler := range handlers {
		if !handler.CanHandle(ic) {
			continue
		}
		result, err := handler.Handle(ic)
		if err != nil {
			result = errorHandler(ic, err)
		}

		if result != nil && result.Response != nil {
			if err := p.sendResponse(ic, responder, result); err != nil {
				return fmt.Errorf("failed to send response: %w", err)
			}
		}

		handled = true
		if stopOnFirst || (result != nil && result.StopPropagation) {
			break
		}
	}

	if !handled && !responder.HasResponded() {
		p.logger.Warn("no handler for interaction", zap.String("route", ic.Route()))
		return p.sendResponse(ic, responder, &HandlerResult{
			Response: NewEphemeralResponse(NoHandlerMessage),
		})
	}

	return nil
}

func (p *Pipeline) sendResponse(ic *InteractionContext, responder InteractionResponder, result *HandlerResult) error {
	if result.Deferred || responder.IsDeferred() {
		// A deferred click edits the wizard message in place. An ephemeral
		// error there would replace it, so it goes out as a follow-up.
		if (ic.IsComponent() || ic.IsModal()) && result.Response.Ephemeral && !result.Response.Update {
			_, err := responder.FollowUp(result.Response)
			return err
		}
		return responder.Edit(result.Response)
	}

	return responder.Respond(result.Response)
}

// Clear removes all handlers from the pipeline
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handlers = make([]Handler, 0)
}

// HandlerCount returns the number of registered handlers
func (p *Pipeline) HandlerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.handlers)
}

func defaultErrorHandler(_ *InteractionContext, err error) *HandlerResult {
	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) && handlerErr.ShowToUser {
		return &HandlerResult{
			Response: NewEphemeralResponse(handlerErr.UserMessage),
		}
	}

	return &HandlerResult{
		Response: NewEphemeralResponse(GenericErrorMessage),
	}
}
