package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"soraifarm/internal/logging"
)

const (
	textModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"

	maxRetries = 2
)

// ErrQuotaExceeded is returned when every retry hit a transient failure.
var ErrQuotaExceeded = errors.New("gemini quota exceeded")

// Service generates agronomy content through the Gemini API. The request
// functions and the sleep hook are swappable in tests.
type Service struct {
	generateText  func(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error)
	generateImage func(ctx context.Context, model, prompt string) (mime string, data []byte, err error)
	sleep         func(d time.Duration)
}

// NewService builds a Service backed by the Gemini SDK.
func NewService(ctx context.Context, apiKey string) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Service{
		generateText: func(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error) {
			cfg := &genai.GenerateContentConfig{
				ResponseMIMEType: "application/json",
				ResponseSchema:   schema,
			}
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
			if err != nil {
				return "", err
			}
			text := resp.Text()
			if text == "" {
				return "", fmt.Errorf("empty completion")
			}
			return text, nil
		},
		generateImage: func(ctx context.Context, model, prompt string) (string, []byte, error) {
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
			if err != nil {
				return "", nil, err
			}
			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if part.InlineData != nil && len(part.InlineData.Data) > 0 {
						return part.InlineData.MIMEType, part.InlineData.Data, nil
					}
				}
			}
			return "", nil, fmt.Errorf("no image returned")
		},
		sleep: time.Sleep,
	}, nil
}

// NewOffline returns a Service whose requests always fail, so every
// feature serves its static fallback. Used when no API key is configured.
func NewOffline() *Service {
	return &Service{
		generateText: func(context.Context, string, string, *genai.Schema) (string, error) {
			return "", errors.New("gemini disabled: no API key")
		},
		generateImage: func(context.Context, string, string) (string, []byte, error) {
			return "", nil, errors.New("gemini disabled: no API key")
		},
		sleep: time.Sleep,
	}
}

// isTransient reports whether the error is a rate limit or temporary
// capacity problem worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "unavailable")
}

// withRetry runs fn, retrying transient failures with 2s then 4s waits.
func (s *Service) withRetry(label string, fn func() error) error {
	retries := 0
	for {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		retries++
		if retries > maxRetries {
			return ErrQuotaExceeded
		}
		wait := 2000 * time.Millisecond << (retries - 1)
		logging.Warnf("%s: gemini busy (attempt %d/%d), retrying in %v", label, retries, maxRetries, wait)
		s.sleep(wait)
	}
}

func (s *Service) generateJSON(ctx context.Context, label, prompt string, schema *genai.Schema) (string, error) {
	var text string
	err := s.withRetry(label, func() error {
		var callErr error
		text, callErr = s.generateText(ctx, textModel, prompt, schema)
		return callErr
	})
	return text, err
}
