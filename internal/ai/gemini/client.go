package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/candidate-matcher/internal/ai"
	"github.com/spigell/candidate-matcher/internal/conversation"
	"github.com/spigell/candidate-matcher/internal/utils"
)

const (
	defaultModel        = "gemini-2.5-flash"
	defaultMaxRetries   = 3
	defaultTemperature  = 0.7
	defaultMaxLogLength = 200

	retryBaseDelay = time.Second
	// Quota errors asking to wait longer than this are returned right away.
	maxRetryDelay = 30 * time.Second
)

var wait = utils.WaitFor

var retryDelayPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Config holds the Gemini generation settings.
type Config struct {
	APIKey       string
	Model        string
	MaxRetries   int
	Temperature  float32
	MaxLogLength int
}

// Generator answers chat turns through the Gemini chat API.
type Generator struct {
	chats       chatCreator
	model       string
	maxRetries  int
	temperature float32
	maxLogLen   int
	logger      *zap.Logger
}

var _ ai.Generator = (*Generator)(nil)

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:       genaiChats{chats: client.Chats},
		model:       model,
		maxRetries:  maxRetries,
		temperature: temperature,
		maxLogLen:   maxLogLen,
		logger:      logger,
	}, nil
}

// Generate opens a chat seeded with every turn but the last and sends the
// last user turn. Temporary API errors are retried.
func (g *Generator) Generate(ctx context.Context, system string, history []conversation.Turn) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	seed, message, err := splitHistory(history)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		Temperature:       genai.Ptr(g.temperature),
	}

	g.logger.Debug("gemini chat request",
		zap.Int("history_turns", len(seed)),
		zap.Int("system_length", utf8.RuneCountInString(system)),
		zap.String("message_preview", utils.TruncateForLog(message, g.maxLogLen)),
	)

	attempts := g.maxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		output, err := g.send(ctx, config, seed, message)
		if err == nil {
			g.logger.Debug("gemini chat response",
				zap.Int("attempt", attempt),
				zap.Int("response_length", utf8.RuneCountInString(output)),
				zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
			)
			return output, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, seed []*genai.Content, message string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, config, seed)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	return responseText(resp)
}

func (g *Generator) Provider() string {
	return ai.ProviderGemini
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func splitHistory(history []conversation.Turn) ([]*genai.Content, string, error) {
	dialogue := conversation.Dialogue(history)
	if len(dialogue) == 0 {
		return nil, "", errors.New("history must not be empty")
	}

	last := dialogue[len(dialogue)-1]
	message := strings.TrimSpace(last.Content)
	if last.Role != conversation.RoleUser || message == "" {
		return nil, "", errors.New("history must end with a user message")
	}

	seed := make([]*genai.Content, 0, len(dialogue)-1)
	for _, turn := range dialogue[:len(dialogue)-1] {
		role := genai.RoleUser
		if turn.Role == conversation.RoleAssistant {
			role = genai.RoleModel
		}
		seed = append(seed, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}

	return seed, message, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ai.ErrEmptyResponse
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.ErrEmptyResponse
	}

	return output, nil
}

// retryDelay decides whether err is worth another attempt and how long to
// wait before it.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if requested, ok := requestedDelay(apiErr.Message); ok {
			if requested > maxRetryDelay {
				return 0, false
			}
			return requested, true
		}
	case apiErr.Code >= http.StatusInternalServerError:
	default:
		return 0, false
	}

	return time.Duration(attempt) * retryBaseDelay, true
}

func requestedDelay(message string) (time.Duration, bool) {
	match := retryDelayPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(seconds * float64(time.Second)), true
}
