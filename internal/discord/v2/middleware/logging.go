package middleware

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
)

// LogConfig configures logging behavior
type LogConfig struct {
	Logger *zap.Logger

	// LogRequests logs incoming interactions at debug level
	LogRequests bool

	// SlowThreshold raises the completion log to warn when exceeded; 0 disables
	SlowThreshold time.Duration

	// RequestFilter filters which requests to log
	RequestFilter func(*core.InteractionContext) bool
}

// DefaultLogConfig returns sensible defaults
func DefaultLogConfig(logger *zap.Logger) *LogConfig {
	return &LogConfig{
		Logger:        logger,
		LogRequests:   true,
		SlowThreshold: 2 * time.Second,
	}
}

type requestIDKey struct{}

// RequestID returns the id LoggingMiddleware assigned to the interaction
func RequestID(ctx *core.InteractionContext) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LoggingMiddleware logs each interaction with its route, user and duration
func LoggingMiddleware(config *LogConfig) core.Middleware {
	if config == nil {
		config = DefaultLogConfig(nil)
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if config.RequestFilter != nil && !config.RequestFilter(ctx) {
				return next.Handle(ctx)
			}

			requestID := uuid.NewString()
			ctx.WithValue(requestIDKey{}, requestID)

			log := logger.With(
				zap.String("request_id", requestID),
				zap.String("route", ctx.Route()),
				zap.String("type", ctx.InteractionType()),
				zap.String("user_id", ctx.UserID),
				zap.String("guild_id", ctx.GuildID),
			)
			if config.LogRequests {
				log.Debug("interaction received")
			}

			start := time.Now()
			result, err := next.Handle(ctx)
			elapsed := time.Since(start)

			fields := []zap.Field{zap.Duration("duration", elapsed)}
			if result != nil && result.Response != nil {
				fields = append(fields, zap.Bool("ephemeral", result.Response.Ephemeral))
			}
			switch {
			case err != nil:
				log.Error("interaction failed", append(fields, zap.Error(err))...)
			case config.SlowThreshold > 0 && elapsed > config.SlowThreshold:
				log.Warn("slow interaction", fields...)
			default:
				log.Info("interaction handled", fields...)
			}

			return result, err
		})
	}
}

// InteractionObserver records per-interaction metrics
type InteractionObserver interface {
	ObserveInteraction(interactionType, route string, elapsed time.Duration, failed bool)
}

// MetricsMiddleware reports every interaction to the observer. It must sit
// inside ErrorMiddleware for handler errors to count as failed.
func MetricsMiddleware(observer InteractionObserver) core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			start := time.Now()
			result, err := next.Handle(ctx)
			observer.ObserveInteraction(ctx.InteractionType(), ctx.Route(), time.Since(start), err != nil)
			return result, err
		})
	}
}
