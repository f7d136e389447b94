package middleware

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/charcraft/internal/discord/v2/core"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

func failing(err error) core.Handler {
	return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
		return nil, err
	})
}

func replying(content string) core.Handler {
	return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
		return &core.HandlerResult{Response: core.NewResponse(content)}, nil
	})
}

func startCommand() *core.InteractionContext {
	return core.NewTestInteractionContext().AsCommand("character", "start").InteractionContext
}

func TestErrorMiddleware_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "quota exceeded names the limit",
			err:      apperr.QuotaExceeded(200, 200),
			expected: "本日のAI使用制限（200回）に達しました。明日またお試しください。",
		},
		{
			name:     "wrapped quota error",
			err:      apperr.Wrap(apperr.QuotaExceeded(3, 3), "propose"),
			expected: fmt.Sprintf(QuotaExceededMessage, 3),
		},
		{
			name:     "completion failure",
			err:      apperr.CompletionFailed(errors.New("timeout"), "failed to generate choices"),
			expected: CompletionFailedMessage,
		},
		{
			name:     "no session",
			err:      apperr.Wrap(apperr.NotFound("session not found"), "failed to load session"),
			expected: NoSessionMessage,
		},
		{
			name:     "unknown field",
			err:      apperr.UnknownField("shoeSize"),
			expected: InvalidInputMessage,
		},
		{
			name:     "handler error wins",
			err:      core.NewValidationError("候補が古くなっています。"),
			expected: "候補が古くなっています。",
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			expected: core.GenericErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := ErrorMiddleware(DefaultErrorConfig(zap.NewNop()))(failing(tt.err))

			result, err := handler.Handle(startCommand())
			require.NoError(t, err)
			require.NotNil(t, result.Response)
			assert.Equal(t, tt.expected, result.Response.Content)
			assert.True(t, result.Response.Ephemeral)
		})
	}
}

func TestErrorMiddleware_LogLevels(t *testing.T) {
	zcore, logs := observer.New(zap.DebugLevel)
	logger := zap.New(zcore)
	mw := ErrorMiddleware(DefaultErrorConfig(logger))

	_, err := mw(failing(apperr.QuotaExceeded(1, 1))).Handle(startCommand())
	require.NoError(t, err)
	_, err = mw(failing(errors.New("db down"))).Handle(startCommand())
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "character/start", entries[1].ContextMap()["route"])
}

func TestErrorMiddleware_PassesThrough(t *testing.T) {
	result, err := ErrorMiddleware(nil)(replying("ok")).Handle(startCommand())
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Response.Content)
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
		panic("nil map")
	})

	result, err := RecoveryMiddleware(nil)(panicking).Handle(startCommand())
	require.NoError(t, err)
	assert.Equal(t, PanicMessage, result.Response.Content)
	assert.True(t, result.Response.Ephemeral)
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveInteraction(interactionType, route string, _ time.Duration, failed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, fmt.Sprintf("%s %s %t", interactionType, route, failed))
}

func TestMetricsMiddleware(t *testing.T) {
	obs := &recordingObserver{}
	mw := MetricsMiddleware(obs)

	_, _ = mw(replying("ok")).Handle(startCommand())
	_, _ = mw(failing(errors.New("x"))).Handle(
		core.NewTestInteractionContext().AsComponent("character:choose:name:0").InteractionContext)

	assert.Equal(t, []string{
		"command character/start false",
		"component character:choose true",
	}, obs.calls)
}

func TestLoggingMiddleware(t *testing.T) {
	zcore, logs := observer.New(zap.DebugLevel)
	mw := LoggingMiddleware(DefaultLogConfig(zap.New(zcore)))

	var seenID string
	handler := core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
		seenID = RequestID(ctx)
		return &core.HandlerResult{Response: core.NewEphemeralResponse("ok")}, nil
	})

	_, err := mw(handler).Handle(startCommand())
	require.NoError(t, err)

	assert.NotEmpty(t, seenID)
	handled := logs.FilterMessage("interaction handled").All()
	require.Len(t, handled, 1)
	assert.Equal(t, seenID, handled[0].ContextMap()["request_id"])
	assert.Equal(t, true, handled[0].ContextMap()["ephemeral"])
	assert.Len(t, logs.FilterMessage("interaction received").All(), 1)
}

func TestLoggingMiddleware_Error(t *testing.T) {
	zcore, logs := observer.New(zap.InfoLevel)
	mw := LoggingMiddleware(DefaultLogConfig(zap.New(zcore)))

	_, err := mw(failing(errors.New("boom"))).Handle(startCommand())
	assert.Error(t, err)
	assert.Len(t, logs.FilterMessage("interaction failed").All(), 1)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(&RateLimitConfig{
		PerSecond: 1,
		Burst:     2,
		IdleTTL:   time.Minute,
		now:       func() time.Time { return now },
	})

	assert.True(t, limiter.Allow("u1"))
	assert.True(t, limiter.Allow("u1"))
	assert.False(t, limiter.Allow("u1"))
	assert.True(t, limiter.Allow("u2"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("u1"), "one token refills per second")

	now = now.Add(2 * time.Minute)
	limiter.Allow("u3")
	assert.Equal(t, 1, limiter.Len(), "idle keys are pruned")
}

func TestRateLimiter_Middleware(t *testing.T) {
	limiter := NewRateLimiter(&RateLimitConfig{PerSecond: 0.001, Burst: 1})
	handler := limiter.Middleware()(replying("ok"))

	first, err := handler.Handle(startCommand())
	require.NoError(t, err)
	assert.Equal(t, "ok", first.Response.Content)

	second, err := handler.Handle(startCommand())
	require.NoError(t, err)
	assert.Equal(t, RateLimitedMessage, second.Response.Content)
	assert.True(t, second.Response.Ephemeral)
}

func TestDeferMiddleware(t *testing.T) {
	t.Run("fast handler is not deferred", func(t *testing.T) {
		responder := core.NewMockResponder()
		ctx := startCommand()
		ctx.WithResponder(responder)

		result, err := DeferMiddleware(&DeferConfig{DeferAfter: time.Second})(replying("ok")).Handle(ctx)
		require.NoError(t, err)
		assert.False(t, result.Deferred)
		assert.Empty(t, responder.DeferCalls)
	})

	t.Run("slow handler is deferred", func(t *testing.T) {
		responder := core.NewMockResponder()
		ctx := startCommand()
		ctx.WithResponder(responder)

		slow := core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			time.Sleep(50 * time.Millisecond)
			return &core.HandlerResult{Response: core.NewResponse("late")}, nil
		})

		result, err := DeferMiddleware(&DeferConfig{DeferAfter: 5 * time.Millisecond, Ephemeral: true})(slow).Handle(ctx)
		require.NoError(t, err)
		assert.True(t, result.Deferred)
		assert.Equal(t, []bool{true}, responder.DeferCalls)
	})

	t.Run("always defer", func(t *testing.T) {
		responder := core.NewMockResponder()
		ctx := startCommand()
		ctx.WithResponder(responder)

		result, err := DeferMiddleware(&DeferConfig{AlwaysDefer: true})(replying("ok")).Handle(ctx)
		require.NoError(t, err)
		assert.True(t, result.Deferred)
	})

	t.Run("skip rule", func(t *testing.T) {
		responder := core.NewMockResponder()
		ctx := core.NewTestInteractionContext().AsComponent("character:custom:name").InteractionContext
		ctx.WithResponder(responder)

		cfg := &DeferConfig{
			AlwaysDefer:  true,
			SkipDeferFor: []DeferSkipRule{{Domain: "character", Action: "custom"}},
		}
		result, err := DeferMiddleware(cfg)(replying("modal")).Handle(ctx)
		require.NoError(t, err)
		assert.False(t, result.Deferred)
		assert.Empty(t, responder.DeferCalls)
	})

	t.Run("no responder passes through", func(t *testing.T) {
		result, err := DeferMiddleware(&DeferConfig{AlwaysDefer: true})(replying("ok")).Handle(startCommand())
		require.NoError(t, err)
		assert.Equal(t, "ok", result.Response.Content)
	})
}
