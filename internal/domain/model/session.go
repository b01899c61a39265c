package model

// Session is one logged-in client. It holds a copy of the user taken at login
// time; the token handed to the client carries the session ID.
type Session struct {
	ID        string `json:"id"`
	User      User   `json:"user"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

// Expired reports whether the session is past its expiry at nowMillis. A zero
// ExpiresAt never expires.
func (s *Session) Expired(nowMillis int64) bool {
	return expired(s.ExpiresAt, nowMillis)
}

func expired(expiresAt, nowMillis int64) bool {
	return expiresAt != 0 && expiresAt <= nowMillis
}

// Attempt is the shuffled set of questions handed to a user for one test. The
// questions are copied so scoring uses exactly what was shown even if the bank
// changes before submission.
type Attempt struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"createdAt"`
	ExpiresAt int64      `json:"expiresAt,omitempty"`
}

func (a *Attempt) Expired(nowMillis int64) bool {
	return expired(a.ExpiresAt, nowMillis)
}

type AttemptView struct {
	ID        string         `json:"id"`
	Questions []QuestionView `json:"questions"`
	CreatedAt int64          `json:"createdAt"`
}

func (a *Attempt) View() AttemptView {
	return AttemptView{ID: a.ID, Questions: Views(a.Questions), CreatedAt: a.CreatedAt}
}
