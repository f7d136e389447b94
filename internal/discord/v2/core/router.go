package core

import (
	"strings"
)

// Router collects the handlers of one domain. The domain doubles as the slash
// command name and as the first part of every custom ID it issues.
type Router struct {
	domain string

	// keyed by cmd:<domain>[:<sub>], component:<action> or modal:<action>
	handlers map[string]Handler

	middleware []Middleware

	customIDBuilder *CustomIDBuilder

	pipeline *Pipeline
}

// NewRouter creates a new domain router
func NewRouter(domain string, pipeline *Pipeline) *Router {
	return &Router{
		domain:          domain,
		handlers:        make(map[string]Handler),
		customIDBuilder: NewCustomIDBuilder(domain),
		pipeline:        pipeline,
	}
}

// Use adds middleware to handlers registered afterwards
func (r *Router) Use(middleware ...Middleware) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Handle registers a handler for a pattern. A trailing ":*" matches any suffix.
func (r *Router) Handle(pattern string, handler Handler) *Router {
	wrapped := handler
	for i := len(r.middleware) - 1; i >= 0; i-- {
		wrapped = r.middleware[i](wrapped)
	}

	r.handlers[pattern] = wrapped
	return r
}

// Command registers the handler for the bare domain command
func (r *Router) Command(handler Handler) *Router {
	return r.Handle("cmd:"+r.domain, handler)
}

// Subcommand registers a subcommand handler
func (r *Router) Subcommand(sub string, handler Handler) *Router {
	return r.Handle("cmd:"+r.domain+":"+sub, handler)
}

// SubcommandFunc registers a subcommand handler function
func (r *Router) SubcommandFunc(sub string, fn HandlerFunc) *Router {
	return r.Subcommand(sub, fn)
}

// Component registers a component interaction handler
func (r *Router) Component(action string, handler Handler) *Router {
	return r.Handle("component:"+action, handler)
}

// ComponentFunc registers a component interaction handler function
func (r *Router) ComponentFunc(action string, fn HandlerFunc) *Router {
	return r.Component(action, fn)
}

// Modal registers a modal submit handler
func (r *Router) Modal(action string, handler Handler) *Router {
	return r.Handle("modal:"+action, handler)
}

// ModalFunc registers a modal submit handler function
func (r *Router) ModalFunc(action string, fn HandlerFunc) *Router {
	return r.Modal(action, fn)
}

// Build creates a single handler from all registered routes
func (r *Router) Build() Handler {
	handlers := make(map[string]Handler, len(r.handlers))
	for k, v := range r.handlers {
		handlers[k] = v
	}
	return &routerHandler{
		domain:   r.domain,
		handlers: handlers,
	}
}

// Register registers this router with the pipeline
func (r *Router) Register() {
	if r.pipeline != nil {
		r.pipeline.Register(r.Build())
	}
}

// CustomIDs returns the builder for this router's domain
func (r *Router) CustomIDs() *CustomIDBuilder {
	return r.customIDBuilder
}

type routerHandler struct {
	domain   string
	handlers map[string]Handler
}

func (h *routerHandler) CanHandle(ctx *InteractionContext) bool {
	_, ok := h.lookup(ctx)
	return ok
}

func (h *routerHandler) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	handler, ok := h.lookup(ctx)
	if !ok {
		return nil, NewNotFoundError("操作")
	}
	return handler.Handle(ctx)
}

// lookup tries the exact pattern first, then wildcards from the longest prefix
func (h *routerHandler) lookup(ctx *InteractionContext) (Handler, bool) {
	pattern := h.pattern(ctx)
	if pattern == "" {
		return nil, false
	}
	if handler, ok := h.handlers[pattern]; ok {
		return handler, true
	}

	parts := strings.Split(pattern, ":")
	for i := len(parts); i > 0; i-- {
		if handler, ok := h.handlers[strings.Join(parts[:i], ":")+":*"]; ok {
			return handler, true
		}
	}
	return nil, false
}

func (h *routerHandler) pattern(ctx *InteractionContext) string {
	switch {
	case ctx.IsCommand():
		if ctx.GetCommandName() != h.domain {
			return ""
		}
		if sub := ctx.GetSubcommand(); sub != "" {
			return "cmd:" + h.domain + ":" + sub
		}
		return "cmd:" + h.domain
	case ctx.IsComponent(), ctx.IsModal():
		customID, err := ParseCustomID(ctx.GetCustomID())
		if err != nil || customID.Domain != h.domain {
			return ""
		}
		kind := "component"
		if ctx.IsModal() {
			kind = "modal"
		}
		return kind + ":" + customID.Action
	}
	return ""
}
