package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Roja8626/tech-mock/internal/app/event"
	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"
	"github.com/Roja8626/tech-mock/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const generationLockName = "question_generation"

// Written to an empty store the first time the bank is listed.
var seedQuestions = []model.Question{
	{
		ID:                 "q1",
		Text:               "What is the time complexity of searching in a balanced Binary Search Tree?",
		Options:            []string{"O(n)", "O(log n)", "O(1)", "O(n log n)"},
		CorrectOptionIndex: 1,
		Category:           "Data Structures",
	},
	{
		ID:                 "q2",
		Text:               "Which of the following is NOT a JavaScript data type?",
		Options:            []string{"Symbol", "Boolean", "Integer", "Undefined"},
		CorrectOptionIndex: 2,
		Category:           "JavaScript",
	},
	{
		ID:                 "q3",
		Text:               "In React, what hook is used to handle side effects?",
		Options:            []string{"useState", "useReducer", "useEffect", "useMemo"},
		CorrectOptionIndex: 2,
		Category:           "React",
	},
	{
		ID:                 "q4",
		Text:               "What does SQL stand for?",
		Options:            []string{"Structured Query Language", "Simple Question Language", "System Query Logic", "Standard Query List"},
		CorrectOptionIndex: 0,
		Category:           "Databases",
	},
}

// SeedQuestions returns a copy of the built-in bank.
func SeedQuestions() []model.Question {
	out := make([]model.Question, len(seedQuestions))
	for i, q := range seedQuestions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

type QuestionService struct {
	questionRepo repository.QuestionRepository
	generation   *GenerationService
	guard        InflightGuard
	events       event.Publisher
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	generation *GenerationService,
	guard InflightGuard,
	events event.Publisher,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		generation:   generation,
		guard:        guard,
		events:       events,
	}
}

type CreateQuestionRequest struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Category           string   `json:"category"`
}

// ListQuestions returns the bank, seeding it only if it was never written.
// A bank emptied by deletions stays empty.
func (s *QuestionService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	qs, err := s.questionRepo.ListOrSeed(ctx, SeedQuestions())
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return qs, nil
}

// ListByCategory matches categories by slug, so "data structures" and
// "Data-Structures" select the same questions.
func (s *QuestionService) ListByCategory(ctx context.Context, category string) ([]model.Question, error) {
	qs, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	want := slug.Make(category)
	if want == "" {
		return qs, nil
	}

	out := make([]model.Question, 0, len(qs))
	for _, q := range qs {
		if slug.Make(q.Category) == want {
			out = append(out, q)
		}
	}
	return out, nil
}

// AddQuestions appends without checking for id collisions.
func (s *QuestionService) AddQuestions(ctx context.Context, qs []model.Question) error {
	if len(qs) == 0 {
		return nil
	}
	if err := s.questionRepo.Append(ctx, qs); err != nil {
		return fmt.Errorf("failed to add questions: %w", err)
	}
	return nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*model.Question, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = model.DefaultCategory
	}
	q := model.Question{
		ID:                 "manual-" + uuid.NewString(),
		Text:               strings.TrimSpace(req.Text),
		Options:            req.Options,
		CorrectOptionIndex: req.CorrectOptionIndex,
		Category:           category,
	}
	if err := q.Validate(); err != nil {
		return nil, common.Errorf("invalid question: %v: %w", err, common.ErrValidation)
	}

	if err := s.AddQuestions(ctx, []model.Question{q}); err != nil {
		return nil, err
	}
	log.Printf("INFO: Question %s created in category %s", q.ID, q.Category)
	return &q, nil
}

// DeleteQuestion is a no-op for unknown ids.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	removed, err := s.questionRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete question %s: %w", id, err)
	}
	if removed {
		log.Printf("INFO: Question %s deleted", id)
	}
	return nil
}

// GenerateQuestions runs the generation adapter and appends its output to the
// bank. Only one generation runs at a time; a concurrent call gets
// common.ErrConflict instead of waiting.
func (s *QuestionService) GenerateQuestions(ctx context.Context, req GenerateRequest) (*GenerationResult, error) {
	req, err := s.generation.Normalize(req)
	if err != nil {
		return nil, err
	}

	release, ok, err := s.guard.TryAcquire(ctx, generationLockName)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire generation lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("question generation already in progress: %w", common.ErrConflict)
	}
	defer release()

	result, err := s.generation.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.AddQuestions(ctx, result.Questions); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Questions))
	for _, q := range result.Questions {
		ids = append(ids, q.ID)
	}
	s.events.PublishQuestionsGenerated(ctx, event.QuestionsGenerated{
		Topic:       req.Topic,
		Path:        result.Path,
		QuestionIDs: ids,
		GeneratedAt: time.Now().UnixMilli(),
	})
	log.Printf("INFO: Generated %d questions about %q (%s)", len(ids), req.Topic, result.Path)
	return result, nil
}
