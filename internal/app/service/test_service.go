package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Roja8626/tech-mock/internal/app/event"
	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"
	"github.com/Roja8626/tech-mock/internal/domain/repository"
	"github.com/Roja8626/tech-mock/internal/platform/metrics"

	"github.com/google/uuid"
)

const (
	DefaultAttemptSize = 10
	DefaultAttemptTTL  = 3 * time.Hour
	recentResultsCount = 5
)

type TestService struct {
	questionService *QuestionService
	attemptRepo     repository.AttemptRepository
	resultRepo      repository.ResultRepository
	events          event.Publisher
	attemptSize     int
	attemptTTL      time.Duration

	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

func NewTestService(
	questionService *QuestionService,
	attemptRepo repository.AttemptRepository,
	resultRepo repository.ResultRepository,
	events event.Publisher,
	attemptSize int,
	attemptTTL time.Duration,
) *TestService {
	if attemptSize <= 0 {
		attemptSize = DefaultAttemptSize
	}
	if attemptTTL <= 0 {
		attemptTTL = DefaultAttemptTTL
	}
	return &TestService{
		questionService: questionService,
		attemptRepo:     attemptRepo,
		resultRepo:      resultRepo,
		events:          events,
		attemptSize:     attemptSize,
		attemptTTL:      attemptTTL,
		shuffle:         rand.Shuffle,
		now:             time.Now,
	}
}

type SubmitAttemptRequest struct {
	Answers map[string]int `json:"answers"`
}

// BuildAttempt shuffles the whole bank, keeps up to the attempt size and
// stores the selection so the submission is scored against exactly these
// questions.
func (s *TestService) BuildAttempt(ctx context.Context, userID string) (*model.Attempt, error) {
	bank, err := s.questionService.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("question bank is empty: %w", common.ErrValidation)
	}

	selected := slices.Clone(bank)
	s.shuffle(len(selected), func(i, j int) { selected[i], selected[j] = selected[j], selected[i] })
	if len(selected) > s.attemptSize {
		selected = selected[:s.attemptSize]
	}

	now := s.now()
	attempt := &model.Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Questions: selected,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(s.attemptTTL).UnixMilli(),
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}
	return attempt, nil
}

// Submit scores answers against questions and stores the result. Unanswered
// questions count as wrong. Answers for questions outside the attempt are
// dropped.
func (s *TestService) Submit(ctx context.Context, userID string, questions []model.Question, answers map[string]int) (*model.TestResult, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("cannot submit an attempt without questions: %w", common.ErrValidation)
	}

	ids := make([]string, 0, len(questions))
	kept := make(map[string]int, len(answers))
	for _, q := range questions {
		ids = append(ids, q.ID)
		if idx, ok := answers[q.ID]; ok {
			kept[q.ID] = idx
		}
	}

	result := &model.TestResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		Timestamp:      s.now().UnixMilli(),
		Score:          model.Score(questions, kept),
		TotalQuestions: len(questions),
		Answers:        kept,
		QuestionIDs:    ids,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	metrics.TestsSubmitted.Inc()
	metrics.TestScorePercent.Observe(float64(result.Percentage()))
	s.events.PublishTestSubmitted(ctx, event.TestSubmitted{
		ResultID:       result.ID,
		UserID:         result.UserID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Timestamp:      result.Timestamp,
	})
	log.Printf("INFO: User %s scored %d/%d (result %s)", userID, result.Score, result.TotalQuestions, result.ID)
	return result, nil
}

// SubmitAttempt scores a stored attempt. Each attempt can be submitted once,
// only by the user it was built for, and only before it expires.
func (s *TestService) SubmitAttempt(ctx context.Context, userID, attemptID string, answers map[string]int) (*model.TestResult, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("attempt %s: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("attempt %s belongs to another user: %w", attemptID, common.ErrForbidden)
	}
	if attempt.Expired(s.now().UnixMilli()) {
		return nil, fmt.Errorf("attempt %s has expired: %w", attemptID, common.ErrNotFound)
	}

	attempt, err = s.attemptRepo.Take(ctx, attemptID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("attempt %s was already submitted: %w", attemptID, common.ErrConflict)
		}
		return nil, err
	}

	result, err := s.Submit(ctx, userID, attempt.Questions, answers)
	if err != nil {
		if restoreErr := s.attemptRepo.Create(ctx, attempt); restoreErr != nil {
			log.Printf("ERROR: Failed to restore attempt %s after failed submit: %v", attemptID, restoreErr)
		}
		return nil, err
	}
	return result, nil
}

// History returns the user's results newest first. Results with equal
// timestamps keep the order they were stored in.
func (s *TestService) History(ctx context.Context, userID string) ([]model.TestResult, error) {
	results, err := s.resultRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	slices.SortStableFunc(results, func(a, b model.TestResult) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return results, nil
}

func (s *TestService) ResultByID(ctx context.Context, id string) (*model.TestResult, error) {
	return s.resultRepo.FindByID(ctx, id)
}

// Review rebuilds a result against the current bank. Questions deleted since
// the submission cannot be shown and are reported in MissingQuestionIDs; the
// stored score is not recomputed.
func (s *TestService) Review(ctx context.Context, requester *model.User, resultID string) (*model.ResultReview, error) {
	result, err := s.resultRepo.FindByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if result.UserID != requester.ID && !requester.IsAdmin() {
		return nil, fmt.Errorf("result %s belongs to another user: %w", resultID, common.ErrForbidden)
	}

	bank, err := s.questionService.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Question, len(bank))
	for _, q := range bank {
		if _, dup := byID[q.ID]; !dup {
			byID[q.ID] = q
		}
	}

	review := &model.ResultReview{
		Result:             *result,
		Percentage:         result.Percentage(),
		Passed:             result.Passed(),
		Items:              make([]model.ReviewItem, 0, len(result.QuestionIDs)),
		MissingQuestionIDs: make([]string, 0),
	}
	for i, qid := range result.QuestionIDs {
		q, ok := byID[qid]
		if !ok {
			review.MissingQuestionIDs = append(review.MissingQuestionIDs, qid)
			continue
		}
		selected := result.Selected(qid)
		review.Items = append(review.Items, model.ReviewItem{
			Position:      i + 1,
			Question:      q,
			SelectedIndex: selected,
			IsCorrect:     q.IsCorrect(selected),
		})
	}
	return review, nil
}

// Stats summarizes a user's history for the dashboard.
func (s *TestService) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	history, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{
		TestsTaken:    len(history),
		RecentResults: history[:min(recentResultsCount, len(history))],
		Trend:         make([]model.TrendPoint, 0, len(history)),
	}
	if len(history) == 0 {
		return stats, nil
	}

	var ratioSum float64
	for _, r := range history {
		if r.TotalQuestions > 0 {
			ratioSum += float64(r.Score) / float64(r.TotalQuestions)
		}
		stats.BestScore = max(stats.BestScore, r.Percentage())
	}
	stats.AverageScore = int(math.Round(ratioSum / float64(len(history)) * 100))

	for i := len(history) - 1; i >= 0; i-- {
		r := history[i]
		stats.Trend = append(stats.Trend, model.TrendPoint{
			Label:      fmt.Sprintf("Test %d", len(stats.Trend)+1),
			Timestamp:  r.Timestamp,
			Percentage: r.Percentage(),
		})
	}
	return stats, nil
}
