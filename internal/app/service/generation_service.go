package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"
	"github.com/Roja8626/tech-mock/internal/platform/metrics"

	"github.com/google/uuid"
)

// TextGenerator asks an external model for questions and returns its raw JSON
// answer. *ai.Service satisfies it.
type TextGenerator interface {
	GenerateQuestions(ctx context.Context, topic string, count int) (string, error)
}

type GenerationService struct {
	generator    TextGenerator // nil selects the mock path
	timeout      time.Duration
	defaultCount int
	maxCount     int
	intn         func(n int) int
}

func NewGenerationService(generator TextGenerator, timeout time.Duration, defaultCount, maxCount int) *GenerationService {
	if defaultCount <= 0 {
		defaultCount = 5
	}
	if maxCount < defaultCount {
		maxCount = defaultCount
	}
	return &GenerationService{
		generator:    generator,
		timeout:      timeout,
		defaultCount: defaultCount,
		maxCount:     maxCount,
		intn:         rand.IntN,
	}
}

type GenerateRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"` // 0 means the default
}

type GenerationResult struct {
	Questions []model.Question `json:"questions"`
	Path      string           `json:"path"`
}

func (s *GenerationService) HasCredential() bool {
	return s.generator != nil
}

// Normalize trims the topic and fills in the default count.
func (s *GenerationService) Normalize(req GenerateRequest) (GenerateRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return req, fmt.Errorf("topic is required: %w", common.ErrValidation)
	}
	if req.Count == 0 {
		req.Count = s.defaultCount
	}
	if req.Count < 1 || req.Count > s.maxCount {
		return req, fmt.Errorf("count must be between 1 and %d: %w", s.maxCount, common.ErrValidation)
	}
	return req, nil
}

// Generate never persists and never returns an error from the external
// service: any failure there falls back to mock questions. Only validation
// errors are returned.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (*GenerationResult, error) {
	req, err := s.Normalize(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { metrics.GenerationDuration.Observe(time.Since(start).Seconds()) }()

	result := s.generate(ctx, req)
	metrics.QuestionsGenerated.WithLabelValues(result.Path).Add(float64(len(result.Questions)))
	return result, nil
}

func (s *GenerationService) generate(ctx context.Context, req GenerateRequest) *GenerationResult {
	if s.generator == nil {
		return &GenerationResult{Questions: s.mockQuestions(req.Topic, req.Count), Path: metrics.PathMock}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.GenerateQuestions(ctx, req.Topic, req.Count)
	if err != nil {
		log.Printf("WARN: Question generation for %q failed, using mock questions: %v", req.Topic, err)
		return &GenerationResult{Questions: s.mockQuestions(req.Topic, req.Count), Path: metrics.PathFallback}
	}

	qs, err := parseGeneratedQuestions(raw, req.Topic)
	if err != nil {
		log.Printf("WARN: Generated questions for %q rejected, using mock questions: %v", req.Topic, err)
		return &GenerationResult{Questions: s.mockQuestions(req.Topic, req.Count), Path: metrics.PathFallback}
	}
	return &GenerationResult{Questions: qs, Path: metrics.PathAI}
}

type generatedQuestion struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex *int     `json:"correctOptionIndex"`
	Category           string   `json:"category"`
}

var errEmptyGeneration = errors.New("no questions in response")

// parseGeneratedQuestions decodes the model's answer and rejects it as a whole
// if any item breaks the question shape. Every item gets a fresh id.
func parseGeneratedQuestions(raw, topic string) ([]model.Question, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errEmptyGeneration
	}

	var items []generatedQuestion
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(items) == 0 {
		return nil, errEmptyGeneration
	}

	qs := make([]model.Question, 0, len(items))
	for i, item := range items {
		if item.CorrectOptionIndex == nil {
			return nil, fmt.Errorf("item %d: correctOptionIndex is missing", i)
		}
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = topic
		}
		q := model.Question{
			ID:                 "ai-" + uuid.NewString(),
			Text:               item.Text,
			Options:            item.Options,
			CorrectOptionIndex: *item.CorrectOptionIndex,
			Category:           category,
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		qs = append(qs, q)
	}
	return qs, nil
}

func (s *GenerationService) mockQuestions(topic string, count int) []model.Question {
	qs := make([]model.Question, 0, count)
	for i := 1; i <= count; i++ {
		qs = append(qs, model.Question{
			ID:   "mock-" + uuid.NewString(),
			Text: fmt.Sprintf("Mock question %d about %s", i, topic),
			Options: []string{
				"Option A for " + topic,
				"Option B for " + topic,
				"Option C for " + topic,
				"Option D for " + topic,
			},
			CorrectOptionIndex: s.intn(model.OptionCount),
			Category:           topic,
		})
	}
	return qs
}
