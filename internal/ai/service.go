package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// Service is a thin wrapper over the Gemini API that asks for JSON output
// constrained by a response schema.
type Service struct {
	client *genai.Client
	model  string
}

func NewService(ctx context.Context, apiKey, model string) (*Service, error) {
	if apiKey == "" {
		return nil, errors.New("ai: api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create genai client: %w", err)
	}

	log.Printf("INFO: AI service initialized (model %s)", model)
	return &Service{client: client, model: model}, nil
}

// GenerateQuestions returns the raw JSON text of the model's answer. The
// caller is responsible for decoding and validating it.
func (s *Service) GenerateQuestions(ctx context.Context, topic string, count int) (string, error) {
	result, err := s.client.Models.GenerateContent(
		ctx,
		s.model,
		genai.Text(QuestionPrompt(topic, count)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   QuestionSchema(),
		},
	)
	if err != nil {
		return "", fmt.Errorf("ai: generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("ai: response has no text content")
	}
	return text, nil
}
