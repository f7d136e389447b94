package middleware

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

// User-facing messages for coded service errors
const (
	QuotaExceededMessage    = "本日のAI使用制限（%d回）に達しました。明日またお試しください。"
	QuotaReachedMessage     = "本日のAI使用制限に達しました。明日またお試しください。"
	CompletionFailedMessage = "AIの応答を取得できませんでした。少し時間をおいてもう一度お試しください。"
	NoSessionMessage        = "進行中のキャラクター作成がありません。`/character start` で始めましょう。"
	InvalidInputMessage     = "入力内容を確認してください。"
	PanicMessage            = "予期しないエラーが発生しました。しばらくしてからもう一度お試しください。"
)

// ErrorConfig configures error handling behavior
type ErrorConfig struct {
	// Logger receives every handler error; nil disables logging
	Logger *zap.Logger

	// DefaultUserMessage is shown when no user-friendly message exists
	DefaultUserMessage string

	// ErrorFormatter turns an error into a user message; "" means use the default
	ErrorFormatter ErrorFormatter
}

// ErrorFormatter formats errors for user display
type ErrorFormatter func(err error) string

// DefaultErrorConfig returns the bot's error settings
func DefaultErrorConfig(logger *zap.Logger) *ErrorConfig {
	return &ErrorConfig{
		Logger:             logger,
		DefaultUserMessage: core.GenericErrorMessage,
		ErrorFormatter:     FormatAppError,
	}
}

// ErrorMiddleware turns handler errors into ephemeral replies
func ErrorMiddleware(config *ErrorConfig) core.Middleware {
	if config == nil {
		config = DefaultErrorConfig(nil)
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			result, err := next.Handle(ctx)
			if err == nil {
				return result, nil
			}

			if config.Logger != nil {
				logError(config.Logger, ctx, err)
			}

			return &core.HandlerResult{
				Response: core.NewEphemeralResponse(userMessage(err, config)),
			}, nil
		})
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware(logger *zap.Logger) core.Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (result *core.HandlerResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered in handler",
						zap.Any("panic", r),
						zap.String("route", ctx.Route()),
						zap.String("user_id", ctx.UserID),
						zap.Stack("stack"))

					result = &core.HandlerResult{
						Response: core.NewEphemeralResponse(PanicMessage),
					}
					err = nil
				}
			}()

			return next.Handle(ctx)
		})
	}
}

func userMessage(err error, config *ErrorConfig) string {
	var handlerErr *core.HandlerError
	if errors.As(err, &handlerErr) && handlerErr.ShowToUser {
		return handlerErr.UserMessage
	}
	if config.ErrorFormatter != nil {
		if msg := config.ErrorFormatter(err); msg != "" {
			return msg
		}
	}
	if config.DefaultUserMessage != "" {
		return config.DefaultUserMessage
	}
	return core.GenericErrorMessage
}

// FormatAppError maps coded service errors to Japanese messages, "" when the
// code has no dedicated message
func FormatAppError(err error) string {
	switch apperr.GetCode(err) {
	case apperr.CodeQuotaExceeded:
		if limit, ok := apperr.GetMeta(err)["limit"].(int); ok {
			return fmt.Sprintf(QuotaExceededMessage, limit)
		}
		return QuotaReachedMessage
	case apperr.CodeCompletionFailed:
		return CompletionFailedMessage
	case apperr.CodeNotFound:
		return NoSessionMessage
	case apperr.CodeInvalidArgument, apperr.CodeMissingField, apperr.CodeUnknownField:
		return InvalidInputMessage
	}
	return ""
}

func logError(logger *zap.Logger, ctx *core.InteractionContext, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("route", ctx.Route()),
		zap.String("type", ctx.InteractionType()),
		zap.String("user_id", ctx.UserID),
		zap.String("guild_id", ctx.GuildID),
		zap.String("code", string(apperr.GetCode(err))),
	}

	switch apperr.GetCode(err) {
	case apperr.CodeQuotaExceeded, apperr.CodeNotFound, apperr.CodeInvalidArgument,
		apperr.CodeMissingField, apperr.CodeUnknownField:
		logger.Info("handler returned expected error", fields...)
	default:
		logger.Error("handler error", fields...)
	}
}
