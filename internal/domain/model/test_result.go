package model

import "math"

// PassPercentage is the score at or above which an attempt counts as passed.
const PassPercentage = 70

// TestResult is a frozen record of one submitted attempt. QuestionIDs keeps the
// exact order the questions were presented in so the review can be rebuilt
// after the bank has changed.
type TestResult struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Timestamp      int64          `json:"timestamp"` // unix milliseconds
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Answers        map[string]int `json:"answers"`
	QuestionIDs    []string       `json:"questionIds"`
}

// Percentage is the score rounded to a whole percent; 0 for an empty result.
func (r *TestResult) Percentage() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) / float64(r.TotalQuestions) * 100))
}

func (r *TestResult) Passed() bool {
	return r.Percentage() >= PassPercentage
}

// Selected returns the option picked for questionID, or nil if unanswered.
func (r *TestResult) Selected(questionID string) *int {
	idx, ok := r.Answers[questionID]
	if !ok {
		return nil
	}
	return &idx
}

// Score counts the questions whose answer matches the correct option.
// Questions missing from answers count as wrong.
func Score(questions []Question, answers map[string]int) int {
	score := 0
	for i := range questions {
		if idx, ok := answers[questions[i].ID]; ok && idx == questions[i].CorrectOptionIndex {
			score++
		}
	}
	return score
}

type ReviewItem struct {
	Position      int      `json:"position"`
	Question      Question `json:"question"`
	SelectedIndex *int     `json:"selectedIndex,omitempty"`
	IsCorrect     bool     `json:"isCorrect"`
}

// ResultReview pairs a result with the questions that still exist in the
// bank. Questions deleted since submission are listed in MissingQuestionIDs
// instead of being rendered.
type ResultReview struct {
	Result             TestResult   `json:"result"`
	Percentage         int          `json:"percentage"`
	Passed             bool         `json:"passed"`
	Items              []ReviewItem `json:"items"`
	MissingQuestionIDs []string     `json:"missingQuestionIds"`
}

type TrendPoint struct {
	Label      string `json:"label"`
	Timestamp  int64  `json:"timestamp"`
	Percentage int    `json:"percentage"`
}

type UserStats struct {
	TestsTaken    int          `json:"testsTaken"`
	AverageScore  int          `json:"averageScore"` // percent
	BestScore     int          `json:"bestScore"`    // percent
	RecentResults []TestResult `json:"recentResults"`
	Trend         []TrendPoint `json:"trend"` // oldest first
}
