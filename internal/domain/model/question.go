package model

import (
	"fmt"
	"strings"
)

const (
	OptionCount     = 4
	DefaultCategory = "General"
)

type Question struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Category           string   `json:"category"`
}

// Validate checks the shape every stored question must have: non-empty text,
// exactly four non-empty options and a correct index that points into them.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is required")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("question must have exactly %d options, got %d", OptionCount, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %d is empty", i+1)
		}
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return fmt.Errorf("correctOptionIndex %d is out of range [0,%d]", q.CorrectOptionIndex, OptionCount-1)
	}
	return nil
}

// IsCorrect reports whether selected is the right option. A nil selection
// (unanswered) is always wrong.
func (q *Question) IsCorrect(selected *int) bool {
	return selected != nil && *selected == q.CorrectOptionIndex
}

// QuestionView is what test takers see: the answer key is left out.
type QuestionView struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

func (q *Question) View() QuestionView {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return QuestionView{ID: q.ID, Text: q.Text, Options: opts, Category: q.Category}
}

func Views(qs []Question) []QuestionView {
	views := make([]QuestionView, 0, len(qs))
	for i := range qs {
		views = append(views, qs[i].View())
	}
	return views
}
