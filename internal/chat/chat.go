// Package chat runs one conversational turn through the matching pipeline.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/ai"
	"github.com/spigell/candidate-matcher/internal/briefing"
	"github.com/spigell/candidate-matcher/internal/candidates"
	"github.com/spigell/candidate-matcher/internal/conversation"
	"github.com/spigell/candidate-matcher/internal/intent"
	"github.com/spigell/candidate-matcher/internal/logger"
	"github.com/spigell/candidate-matcher/internal/metrics"
	"github.com/spigell/candidate-matcher/internal/query"
	"github.com/spigell/candidate-matcher/internal/scoring"
)

// GenericErrorMessage is the only failure text shown to a user.
const GenericErrorMessage = "An error occurred while processing your request."

var (
	ErrMalformedRequest = errors.New("malformed chat request")
	ErrGeneration       = errors.New("generation step failed")
)

// Request is one turn: the full transcript ending with the new user turn.
type Request struct {
	Messages []conversation.Turn `json:"messages" validate:"required,min=1,dive"`
	State    conversation.State  `json:"state"`
}

type Message struct {
	Role    conversation.Role `json:"role"`
	Content string            `json:"content"`
}

type Response struct {
	AssistantMessage Message            `json:"assistantMessage"`
	State            conversation.State `json:"state"`
	Intent           intent.Kind        `json:"intent"`
}

// Sources supplies the two datasets. Failures are absorbed by returning
// empty lists.
type Sources interface {
	Profiles(ctx context.Context) []candidates.Profile
	Availability(ctx context.Context) []candidates.Availability
}

type Config struct {
	PageSize    int
	Interpreter query.Interpreter
	Classifier  intent.Classifier
}

type Service struct {
	sources     Sources
	generator   ai.Generator
	interpreter query.Interpreter
	resolver    *intent.Resolver
	validate    *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
	pageSize    int
	provider    string
}

func NewService(sources Sources, generator ai.Generator, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	interpreter := cfg.Interpreter
	if interpreter == nil {
		interpreter = query.Rules{}
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = briefing.DefaultPageSize
	}

	provider := "unknown"
	if d, ok := generator.(ai.Describer); ok {
		provider = d.Provider()
	}

	return &Service{
		sources:     sources,
		generator:   generator,
		interpreter: interpreter,
		resolver:    intent.NewResolver(cfg.Classifier),
		validate:    validator.New(),
		logger:      logger,
		now:         time.Now,
		pageSize:    pageSize,
		provider:    provider,
	}
}

// Respond answers the last user turn of req.
func (s *Service) Respond(ctx context.Context, req *Request) (*Response, error) {
	text, err := s.check(req)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, s.logger)

	if s.resolver.IsGreeting(req.Messages) {
		metrics.IntentsTotal.WithLabelValues(string(intent.Greeting)).Inc()
		log.Debug("answering greeting with the welcome message")

		return &Response{
			AssistantMessage: Message{Role: conversation.RoleAssistant, Content: briefing.Welcome},
			State:            req.State,
			Intent:           intent.Greeting,
		}, nil
	}

	plan := s.Plan(ctx, text, req)
	metrics.IntentsTotal.WithLabelValues(string(plan.Intent.Kind)).Inc()

	log.Info("answering chat turn",
		zap.String(logger.FieldIntent, string(plan.Intent.Kind)),
		zap.Int("ranked", len(plan.Input.Ranked)),
		zap.Int("offset", plan.State.Offset),
		zap.String("last_candidate", plan.State.LastCandidate),
	)

	started := time.Now()
	reply, err := s.generator.Generate(ctx, briefing.Build(plan.Input), conversation.Dialogue(req.Messages))
	metrics.ObserveGeneration(s.provider, started, err)
	if err != nil {
		log.Error("generation step failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return &Response{
		AssistantMessage: Message{Role: conversation.RoleAssistant, Content: reply},
		State:            plan.State,
		Intent:           plan.Intent.Kind,
	}, nil
}

func (s *Service) check(req *Request) (string, error) {
	if req == nil {
		return "", fmt.Errorf("%w: request is empty", ErrMalformedRequest)
	}

	if err := s.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	text, ok := conversation.LastUserText(req.Messages)
	if !ok {
		return "", fmt.Errorf("%w: last message must be a non-empty user message", ErrMalformedRequest)
	}

	return text, nil
}

// Plan is everything decided for a turn before generation.
type Plan struct {
	Intent intent.Intent
	Input  briefing.Input
	State  conversation.State
}

// Plan fetches, merges, ranks and resolves the turn without calling the
// generation step.
func (s *Service) Plan(ctx context.Context, text string, req *Request) *Plan {
	profiles := s.sources.Profiles(ctx)
	availability := s.sources.Availability(ctx)
	merged := candidates.Merge(profiles, availability)

	// A turn without constraints of its own keeps ranking the search it follows.
	queryText := text
	constraints := s.interpreter.Parse(text)
	ownConstraints := !constraints.IsEmpty()
	stored := strings.TrimSpace(req.State.Query)
	if !ownConstraints && stored != "" {
		queryText = stored
		constraints = s.interpreter.Parse(stored)
	}

	now := s.now()
	ranked := scoring.Rank(merged, constraints, queryText, now)
	resolved := s.resolver.Resolve(text, candidates.Names(ranked))

	if resolved.Kind == intent.NewSearch && queryText != text {
		queryText = text
		ranked = scoring.Rank(merged, s.interpreter.Parse(text), text, now)
	}

	last := candidates.FindByName(ranked, intent.LastDiscussed(req.State, req.Messages))
	followUp := intent.IsGenericFollowUp(text)

	state := conversation.State{Query: queryText}
	if last != nil {
		state.LastCandidate = last.DisplayName
	}

	var focus *candidates.Scored
	switch resolved.Kind {
	case intent.NewSearch:
		state.Offset = 0
	case intent.ShowMore:
		if followUp && last != nil {
			focus = last
			state.Offset = req.State.Offset
		} else {
			state.Offset = req.State.Offset + s.pageSize
			if ownConstraints && queryText != stored {
				// A refined search starts from its own first page.
				state.Offset = 0
			}
		}
	case intent.CandidateDetails:
		focus = resolveCandidate(ranked, resolved.Candidate)
		if focus != nil {
			state.LastCandidate = focus.DisplayName
		}
		state.Offset = req.State.Offset
	default:
		state.Offset = req.State.Offset
	}

	return &Plan{
		Intent: resolved,
		State:  state,
		Input: briefing.Input{
			Ranked:              ranked,
			Intent:              resolved,
			Offset:              state.Offset,
			PageSize:            s.pageSize,
			Focus:               focus,
			LastDiscussed:       last,
			FollowUp:            followUp,
			AvailabilityRequest: intent.IsAvailabilityRequest(text),
		},
	}
}

// resolveCandidate maps a captured name to a ranked candidate: exact match
// first, then containment either way in rank order.
func resolveCandidate(ranked []candidates.Scored, captured string) *candidates.Scored {
	captured = strings.ToLower(strings.TrimSpace(captured))
	if captured == "" {
		return nil
	}

	if c := candidates.FindByName(ranked, captured); c != nil {
		return c
	}

	for i := range ranked {
		if name := strings.ToLower(ranked[i].DisplayName); name != "" && strings.Contains(captured, name) {
			return &ranked[i]
		}
	}

	for i := range ranked {
		if strings.Contains(strings.ToLower(ranked[i].DisplayName), captured) {
			return &ranked[i]
		}
	}

	return nil
}
