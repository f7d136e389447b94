// Package creation drives the guided character creation wizard: it starts
// sessions, asks the completion service for options, applies the user's picks
// and stores the finished character.
package creation

//go:generate mockgen -destination=mock/mock_service.go -package=mockcreation -source=service.go

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/charcraft/internal/clients/completion"
	"github.com/KirkDiggler/charcraft/internal/entities"
	apperr "github.com/KirkDiggler/charcraft/internal/errors"
	"github.com/KirkDiggler/charcraft/internal/fields"
	"github.com/KirkDiggler/charcraft/internal/logging"
	"github.com/KirkDiggler/charcraft/internal/metrics"
	"github.com/KirkDiggler/charcraft/internal/progress"
	"github.com/KirkDiggler/charcraft/internal/prompts"
	"github.com/KirkDiggler/charcraft/internal/repositories/characters"
	"github.com/KirkDiggler/charcraft/internal/repositories/sessions"
	"github.com/KirkDiggler/charcraft/internal/services/quota"
	"github.com/KirkDiggler/charcraft/internal/uuid"
)

// MaxOptions is the most options returned for one field
const MaxOptions = 4

const (
	reactionFallbackFormat = "「%s」いいですね✨ 次は「%s」を決めましょう！"
	lastFieldFallback      = "「%s」素敵な選択ですね✨"
	celebrationFallback    = "🎉 キャラクター設定が完成しました！素敵なキャラクターができましたね✨"
)

// StartResult is returned when a new session begins
type StartResult struct {
	Session  *entities.CreationSession
	Field    fields.FieldDefinition
	Progress progress.Progress
	Usage    *quota.Status
}

// ProposeResult holds the options generated for one field
type ProposeResult struct {
	Field       fields.FieldDefinition
	Options     []string
	Comment     string
	Progress    progress.Progress
	Usage       *quota.Status
	RawResponse string
}

// AcceptResult describes the state after a value was accepted
type AcceptResult struct {
	Message   string
	Draft     entities.CharacterDraft
	NextField *fields.FieldDefinition // nil after the last catalog field
	Progress  progress.Progress
	Completed bool
	Character *entities.FinishedCharacter // set only when this pick completed the draft
}

// SessionView is a user's session with freshly computed progress
type SessionView struct {
	HasSession   bool
	Session      *entities.CreationSession
	Progress     progress.Progress
	CurrentField *fields.FieldDefinition
}

// Service is the creation wizard
type Service interface {
	// Start replaces any session the user has with an empty one. No completion
	// call is made.
	Start(ctx context.Context, userID string) (*StartResult, error)

	// ProposeChoices generates candidate values for fieldKey. The session is
	// not modified.
	ProposeChoices(ctx context.Context, userID, fieldKey string, draft entities.CharacterDraft) (*ProposeResult, error)

	// AcceptChoice stores chosenValue for fieldKey and moves to the next field.
	// Completion service failures here never fail the call.
	AcceptChoice(ctx context.Context, userID, fieldKey, chosenValue string, draft entities.CharacterDraft) (*AcceptResult, error)

	// GetSession returns the user's session, or a view with HasSession=false
	GetSession(ctx context.Context, userID string) (*SessionView, error)

	// ResetSession deletes the user's session if there is one
	ResetSession(ctx context.Context, userID string) error

	// ListCharacters returns the user's finished characters, oldest first
	ListCharacters(ctx context.Context, userID string) ([]*entities.FinishedCharacter, error)

	// GetUsage reports today's completion usage for the user
	GetUsage(ctx context.Context, userID string) (*quota.Status, error)
}

// MetricsRecorder receives counters from the service
type MetricsRecorder interface {
	CompletionCall(kind, outcome string)
	QuotaRejected()
	Fallback(kind string)
	CharacterFinished()
}

type service struct {
	registry      *fields.Registry
	composer      *prompts.Composer
	sessionRepo   sessions.Repository
	characterRepo characters.Repository
	quota         quota.Service
	completion    completion.Client
	uuidGenerator uuid.Generator
	timeProvider  quota.TimeProvider
	metrics       MetricsRecorder
	logger        *zap.Logger
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Registry            *fields.Registry      // Required
	Composer            *prompts.Composer     // Optional, built from Registry
	SessionRepository   sessions.Repository   // Required
	CharacterRepository characters.Repository // Required
	Quota               quota.Service         // Required
	Completion          completion.Client     // Required
	UUIDGenerator       uuid.Generator        // Optional
	TimeProvider        quota.TimeProvider    // Optional
	Metrics             MetricsRecorder       // Optional
	Logger              *zap.Logger           // Optional
}

// NewService creates a new creation service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("config is required")
	}
	if cfg.Registry == nil {
		panic("fields registry is required")
	}
	if cfg.SessionRepository == nil {
		panic("session repository is required")
	}
	if cfg.CharacterRepository == nil {
		panic("character repository is required")
	}
	if cfg.Quota == nil {
		panic("quota service is required")
	}
	if cfg.Completion == nil {
		panic("completion client is required")
	}

	svc := &service{
		registry:      cfg.Registry,
		composer:      cfg.Composer,
		sessionRepo:   cfg.SessionRepository,
		characterRepo: cfg.CharacterRepository,
		quota:         cfg.Quota,
		completion:    cfg.Completion,
		uuidGenerator: cfg.UUIDGenerator,
		timeProvider:  cfg.TimeProvider,
		metrics:       cfg.Metrics,
		logger:        logging.Component(cfg.Logger, "creation"),
	}
	if svc.composer == nil {
		svc.composer = prompts.NewComposer(cfg.Registry)
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewRandomGenerator()
	}
	if svc.timeProvider == nil {
		svc.timeProvider = quota.RealTimeProvider{}
	}
	if svc.metrics == nil {
		svc.metrics = metrics.Nop{}
	}

	return svc
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.InvalidArgument("user ID is required")
	}
	return nil
}

func (s *service) Start(ctx context.Context, userID string) (*StartResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	status, err := s.quota.CheckLimit(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to check quota")
	}
	if !status.Allowed {
		s.metrics.QuotaRejected()
		return nil, apperr.QuotaExceeded(status.Used, status.Limit)
	}

	first := s.registry.First()
	session := entities.NewCreationSession(userID, first.Key, s.timeProvider.Now())
	if err := s.sessionRepo.Upsert(ctx, session); err != nil {
		return nil, apperr.Wrap(err, "failed to save session").WithMeta("user_id", userID)
	}

	s.logger.Info("creation session started", logging.UserID(userID))

	return &StartResult{
		Session:  session,
		Field:    first,
		Progress: progress.Evaluate(s.registry, session.Draft),
		Usage:    status,
	}, nil
}

func (s *service) ProposeChoices(ctx context.Context, userID, fieldKey string, draft entities.CharacterDraft) (*ProposeResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	fieldKey = strings.TrimSpace(fieldKey)
	if fieldKey == "" {
		return nil, apperr.MissingField("field key")
	}
	field, err := s.registry.ByKey(fieldKey)
	if err != nil {
		return nil, err
	}

	status, err := s.admit(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.Allowed {
		s.metrics.QuotaRejected()
		s.metrics.CompletionCall(metrics.KindChoice, metrics.OutcomeDenied)
		return nil, apperr.QuotaExceeded(status.Used, status.Limit)
	}

	prompt, err := s.composer.ChoicePrompt(fieldKey, draft)
	if err != nil {
		return nil, err
	}

	text, err := s.completion.Complete(ctx, prompt, prompts.ChoiceOptions)
	if err != nil {
		s.metrics.CompletionCall(metrics.KindChoice, metrics.OutcomeFailed)
		s.logger.Warn("choice generation failed",
			logging.UserID(userID),
			logging.FieldKey(fieldKey),
			zap.Error(err))
		return nil, apperr.CompletionFailed(err, "failed to generate choices").
			WithMeta("field_key", fieldKey)
	}
	s.metrics.CompletionCall(metrics.KindChoice, metrics.OutcomeSuccess)

	usage := s.settle(ctx, userID, status)

	choices := prompts.ParseChoices(text)
	options := choices.Options
	if len(options) > MaxOptions {
		options = options[:MaxOptions]
	}

	s.logger.Debug("choices generated",
		logging.UserID(userID),
		logging.FieldKey(fieldKey),
		zap.Int("options", len(options)))

	return &ProposeResult{
		Field:       field,
		Options:     options,
		Comment:     choices.Comment,
		Progress:    progress.Evaluate(s.registry, draft),
		Usage:       usage,
		RawResponse: text,
	}, nil
}

func (s *service) AcceptChoice(ctx context.Context, userID, fieldKey, chosenValue string, draft entities.CharacterDraft) (*AcceptResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	fieldKey = strings.TrimSpace(fieldKey)
	if fieldKey == "" {
		return nil, apperr.MissingField("field key")
	}
	chosenValue = strings.TrimSpace(chosenValue)
	if chosenValue == "" {
		return nil, apperr.MissingField("chosen value")
	}
	field, err := s.registry.ByKey(fieldKey)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.Get(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to load session").WithMeta("user_id", userID)
	}

	alreadyFinished := progress.Evaluate(s.registry, session.Draft).Completed
	updated := draft.With(fieldKey, chosenValue)
	next, hasNext, err := s.registry.NextAfter(fieldKey)
	if err != nil {
		return nil, err
	}
	prog := progress.Evaluate(s.registry, updated)

	nextKey := ""
	var nextField *fields.FieldDefinition
	if hasNext {
		nextKey = next.Key
		nextField = &next
	}

	now := s.timeProvider.Now()
	session.Advance(updated, prog.CompletedCount, nextKey, now)

	result := &AcceptResult{
		Draft:     updated,
		NextField: nextField,
		Progress:  prog,
		Completed: prog.Completed,
	}

	switch {
	case prog.Completed && alreadyFinished:
		// the character was stored when the session first completed
		if err := s.sessionRepo.Upsert(ctx, session); err != nil {
			return nil, apperr.Wrap(err, "failed to save session").WithMeta("user_id", userID)
		}
		result.Message = fmt.Sprintf(lastFieldFallback, chosenValue)

	case prog.Completed:
		character := entities.NewFinishedCharacter(s.uuidGenerator.New(), userID, updated, now)
		if err := s.sessionRepo.Finalize(ctx, session, character); err != nil {
			return nil, apperr.Wrap(err, "failed to store finished character").
				WithMeta("user_id", userID)
		}
		s.metrics.CharacterFinished()
		s.logger.Info("character finished",
			logging.UserID(userID),
			zap.String("character_id", character.ID),
			zap.String("name", character.Name))

		result.Character = character
		result.Message = s.generate(ctx, userID, metrics.KindCelebration,
			s.composer.CelebrationPrompt(updated), prompts.CelebrationOptions, celebrationFallback)

	case hasNext:
		if err := s.sessionRepo.Upsert(ctx, session); err != nil {
			return nil, apperr.Wrap(err, "failed to save session").WithMeta("user_id", userID)
		}
		result.Message = s.generate(ctx, userID, metrics.KindReaction,
			s.composer.ReactionPrompt(field.Label, chosenValue, next.Label, updated),
			prompts.ReactionOptions,
			fmt.Sprintf(reactionFallbackFormat, chosenValue, next.Label))

	default:
		// last catalog field answered while earlier ones are still open
		if err := s.sessionRepo.Upsert(ctx, session); err != nil {
			return nil, apperr.Wrap(err, "failed to save session").WithMeta("user_id", userID)
		}
		result.Message = fmt.Sprintf(lastFieldFallback, chosenValue)
	}

	return result, nil
}

func (s *service) GetSession(ctx context.Context, userID string) (*SessionView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.Get(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return &SessionView{HasSession: false}, nil
		}
		return nil, apperr.Wrap(err, "failed to load session").WithMeta("user_id", userID)
	}

	view := &SessionView{
		HasSession: true,
		Session:    session,
		Progress:   progress.Evaluate(s.registry, session.Draft),
	}
	if session.HasCurrentField() {
		if field, err := s.registry.ByKey(session.CurrentFieldKey); err == nil {
			view.CurrentField = &field
		}
	}

	return view, nil
}

func (s *service) ResetSession(ctx context.Context, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, userID); err != nil {
		return apperr.Wrap(err, "failed to delete session").WithMeta("user_id", userID)
	}
	s.logger.Info("creation session reset", logging.UserID(userID))
	return nil
}

func (s *service) ListCharacters(ctx context.Context, userID string) ([]*entities.FinishedCharacter, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	chars, err := s.characterRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list characters").WithMeta("user_id", userID)
	}
	return chars, nil
}

func (s *service) GetUsage(ctx context.Context, userID string) (*quota.Status, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.quota.CheckLimit(ctx, userID)
}

// admit decides whether a completion call may go ahead. In strict mode the
// slot is taken here.
func (s *service) admit(ctx context.Context, userID string) (*quota.Status, error) {
	if s.quota.Strict() {
		status, err := s.quota.Acquire(ctx, userID)
		if err != nil {
			return nil, apperr.Wrap(err, "failed to acquire quota")
		}
		return status, nil
	}

	status, err := s.quota.CheckLimit(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to check quota")
	}
	return status, nil
}

// settle records a successful call and returns the usage after it
func (s *service) settle(ctx context.Context, userID string, before *quota.Status) *quota.Status {
	if s.quota.Strict() {
		return before
	}
	s.record(ctx, userID)

	after, err := s.quota.CheckLimit(ctx, userID)
	if err != nil {
		estimate := *before
		estimate.Used++
		estimate.Remaining = max(estimate.Limit-estimate.Used, 0)
		estimate.Allowed = estimate.Used < estimate.Limit
		return &estimate
	}
	return after
}

// record counts a call made after a lenient check. A failure is logged and
// the request goes on.
func (s *service) record(ctx context.Context, userID string) {
	if err := s.quota.RecordUsage(ctx, userID); err != nil {
		s.logger.Error("failed to record usage", logging.UserID(userID), zap.Error(err))
	}
}

// generate runs a decorative completion call. Any quota denial, error or empty
// reply yields fallback.
func (s *service) generate(ctx context.Context, userID, kind, prompt string, opts completion.Options, fallback string) string {
	status, err := s.admit(ctx, userID)
	if err != nil {
		s.logger.Warn("quota check failed, using fallback",
			logging.UserID(userID),
			zap.String("kind", kind),
			zap.Error(err))
		s.metrics.Fallback(kind)
		return fallback
	}
	if !status.Allowed {
		s.metrics.QuotaRejected()
		s.metrics.CompletionCall(kind, metrics.OutcomeDenied)
		s.metrics.Fallback(kind)
		return fallback
	}

	text, err := s.completion.Complete(ctx, prompt, opts)
	if err != nil || strings.TrimSpace(text) == "" {
		s.metrics.CompletionCall(kind, metrics.OutcomeFailed)
		s.metrics.Fallback(kind)
		s.logger.Warn("message generation failed, using fallback",
			logging.UserID(userID),
			zap.String("kind", kind),
			zap.Error(err))
		return fallback
	}
	s.metrics.CompletionCall(kind, metrics.OutcomeSuccess)
	if !s.quota.Strict() {
		s.record(ctx, userID)
	}

	return strings.TrimSpace(text)
}
