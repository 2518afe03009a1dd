// Package gemini is the transport for the Google Gemini API. It creates a
// chat session per call, sends one message, flattens the response to text
// and retries transient failures. What to say and how to read the answer is
// the caller's business.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.5-flash"

	baseRetryDelay = 2 * time.Second

	// Quota errors advertise how long to wait. Anything beyond this is
	// treated as a hard failure instead of stalling the caller.
	maxQuotaDelay = 30 * time.Second
)

// Patchable in tests.
var sleep = time.Sleep

var quotaDelayPattern = regexp.MustCompile(`retry after (\d+(?:\.\d+)?)`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	client *genai.Client
}

func (g *genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := g.client.Chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator sends single-message prompts to a Gemini model.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator builds a Gemini-backed generator. maxRetries is the total
// number of attempts per call; values below 1 mean a single attempt.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
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

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:      &genaiChats{client: client},
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// GenerateContent sends one message, optionally under a system instruction,
// and returns the flattened text of the response.
func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	var config *genai.GenerateContentConfig
	if system = strings.TrimSpace(system); system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: system}},
			},
		}
	}

	attempts := g.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := g.send(ctx, config, message)
		if err == nil {
			return flattenResponse(resp)
		}
		lastErr = err

		delay, retryable := retryDelay(err, attempt)
		if !retryable || attempt == attempts {
			break
		}

		g.logger.Warn("gemini call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		sleep(delay)
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, message string) (*genai.GenerateContentResponse, error) {
	chat, err := g.chats.Create(ctx, g.model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return chat.SendMessage(ctx, genai.Part{Text: message})
}

// retryDelay decides whether an attempt is worth repeating and how long to
// wait first. Server errors back off linearly; quota errors honor the
// advertised delay when it is short enough.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	if apiErr.Code == 429 {
		delay := quotaDelay(apiErr.Message)
		if delay <= 0 || delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	}

	if apiErr.Code >= 500 {
		return baseRetryDelay * time.Duration(attempt), true
	}

	return 0, false
}

func quotaDelay(message string) time.Duration {
	match := quotaDelayPattern.FindStringSubmatch(strings.ToLower(message))
	if match == nil {
		return 0
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

func flattenResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
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
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}
