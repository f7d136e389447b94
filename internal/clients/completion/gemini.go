package completion

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	apperr "github.com/KirkDiggler/charcraft/internal/errors"
)

const (
	// DefaultModel is used when Config.Model is empty
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout bounds a single completion call
	DefaultTimeout = 30 * time.Second
)

// generator is the part of *genai.Models the client uses
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiClient struct {
	models         generator
	model          string
	timeout        time.Duration
	thinkingBudget int32
	logger         *zap.Logger
}

// Config holds configuration for the Gemini-backed client
type Config struct {
	APIKey  string        // Required
	Model   string        // Optional, defaults to DefaultModel
	Timeout time.Duration // Optional, defaults to DefaultTimeout
	Logger  *zap.Logger   // Optional

	// ThinkingBudget caps 2.5-model thinking tokens, which count against
	// MaxOutputTokens. 0 disables thinking, -1 lets the model decide.
	ThinkingBudget int32
}

// NewGemini creates a completion client backed by the Gemini API
func NewGemini(ctx context.Context, cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, apperr.InvalidArgument("completion config is required")
	}
	if cfg.APIKey == "" {
		return nil, apperr.InvalidArgument("completion API key is required")
	}

	genClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to create genai client")
	}

	return newGeminiClient(genClient.Models, cfg), nil
}

func newGeminiClient(models generator, cfg *Config) *geminiClient {
	c := &geminiClient{
		models:         models,
		model:          cfg.Model,
		timeout:        cfg.Timeout,
		thinkingBudget: cfg.ThinkingBudget,
		logger:         cfg.Logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Complete sends prompt to the model and returns the concatenated text parts
func (c *geminiClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:    genai.Ptr(opts.Temperature),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(c.thinkingBudget),
		},
	}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}

	start := time.Now()
	res, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		c.logger.Warn("completion request failed",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", apperr.CompletionFailed(err, "completion request failed")
	}

	text := responseText(res)
	if text == "" {
		// Blocked prompts come back with no candidates or no parts
		return "", apperr.New(apperr.CodeCompletionFailed, "completion returned no text").
			WithMeta("model", c.model)
	}

	c.logger.Debug("completion finished",
		zap.String("model", c.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)))

	return text, nil
}

func responseText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}
